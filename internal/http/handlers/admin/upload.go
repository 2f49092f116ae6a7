package admin

import (
	"github.com/shopmitra/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadFile stores an uploaded image and returns its public path. The
// scene selects the target directory, defaulting to "common".
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "File is required", nil)
		return
	}
	scene := c.DefaultPostForm("scene", "common")

	url, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		respondError(c, response.CodeBadRequest, "Upload failed: "+err.Error(), err)
		return
	}

	response.Success(c, gin.H{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
