package admin

import (
	"errors"
	"time"

	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/http/response"
	"github.com/shopmitra/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the admin login form. Admins sign in by email only.
type LoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// AdminLogin authenticates an admin account. Customer credentials are
// rejected as not found so the endpoint does not reveal which emails exist.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonBadRequest)
		respondError(c, response.CodeBadRequest, "All fields are required", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.toServicePayload()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonCaptchaRequired)
				respondError(c, response.CodeBadRequest, "Captcha required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonCaptchaInvalid)
				respondError(c, response.CodeBadRequest, "Captcha invalid", nil)
			default:
				h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonInternalError)
				respondError(c, response.CodeInternal, "Captcha verification failed", captchaErr)
			}
			return
		}
	}

	admin, token, expiresAt, err := h.AuthService.AdminLogin(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminNotFound):
			h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonUserNotFound)
			respondError(c, response.CodeNotFound, "Admin not found", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonInvalidCredentials)
			respondError(c, response.CodeUnauthorized, "Invalid credentials", nil)
		case errors.Is(err, service.ErrUserDisabled):
			h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonUserDisabled)
			respondError(c, response.CodeForbidden, "Account disabled", nil)
		default:
			h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonInternalError)
			respondError(c, response.CodeInternal, "Login failed", err)
		}
		return
	}

	if h.AuthService != nil {
		h.AuthService.RecordLoginAttempt(service.LoginAttempt{
			UserID:     admin.ID,
			Identifier: req.Email,
			Status:     constants.LoginLogStatusSuccess,
			ClientIP:   c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			RequestID:  requestID(c),
		})
	}
	response.SuccessWithMsg(c, "Login successful", gin.H{
		"user": gin.H{
			"id":         admin.ID,
			"first_name": admin.FirstName,
			"last_name":  admin.LastName,
			"email":      admin.Email,
			"role":       admin.Role,
		},
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) recordLogin(c *gin.Context, userID uint, identifier, failReason string) {
	if h.AuthService == nil {
		return
	}
	h.AuthService.RecordLoginAttempt(service.LoginAttempt{
		UserID:     userID,
		Identifier: identifier,
		Status:     constants.LoginLogStatusFailed,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		RequestID:  requestID(c),
	})
}

func requestID(c *gin.Context) string {
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
