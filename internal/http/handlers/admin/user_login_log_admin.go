package admin

import (
	"strconv"
	"strings"

	"github.com/shopmitra/internal/http/response"
	"github.com/shopmitra/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetUserLoginLogs lists login attempts, newest first.
func (h *Handler) GetUserLoginLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "Invalid user id", err)
			return
		}
		userID = uint(parsed)
	}

	logs, total, err := h.UserLoginLogRepo.List(repository.UserLoginLogListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		Identifier: strings.TrimSpace(c.Query("identifier")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "Login log fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, logs, pagination)
}
