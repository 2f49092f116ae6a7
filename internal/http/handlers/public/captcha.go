package public

import (
	"errors"

	"github.com/shopmitra/internal/http/response"
	"github.com/shopmitra/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha issues an image captcha challenge.
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "Captcha unavailable", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeBadRequest, "Captcha unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "Captcha generation failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
