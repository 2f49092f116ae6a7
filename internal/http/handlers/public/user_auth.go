package public

import (
	"errors"
	"time"

	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/http/response"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the registration form.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Address   struct {
		Street  string `json:"street"`
		City    string `json:"city" binding:"required"`
		State   string `json:"state"`
		Pincode string `json:"pincode"`
	} `json:"address" binding:"required"`
}

// LoginRequest authenticates by email or phone number.
type LoginRequest struct {
	Identifier     string                `json:"identifier" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Register creates an account with its empty cart and signs the user in.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "All fields are required", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address: models.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			Pincode: req.Address.Pincode,
		},
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "Registration failed")
		return
	}

	h.recordLogin(c, user.ID, user.Email, constants.LoginLogStatusSuccess, "")
	response.SuccessWithMsg(c, "User registered successfully", gin.H{
		"user":       userSummary(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Login authenticates a customer by email or phone.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest)
		respondError(c, response.CodeBadRequest, "All fields are required", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonCaptchaRequired)
				respondError(c, response.CodeBadRequest, "Captcha required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonCaptchaInvalid)
				respondError(c, response.CodeBadRequest, "Captcha invalid", nil)
			default:
				h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
				respondError(c, response.CodeInternal, "Captcha verification failed", captchaErr)
			}
			return
		}
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonUserNotFound)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredentials)
		case errors.Is(err, service.ErrUserDisabled):
			h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonUserDisabled)
		default:
			h.recordLogin(c, 0, req.Identifier, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
		}
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "Login failed")
		return
	}

	h.recordLogin(c, user.ID, req.Identifier, constants.LoginLogStatusSuccess, "")
	response.SuccessWithMsg(c, "Login successful", gin.H{
		"user":       userSummary(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Logout invalidates every token the user holds.
func (h *Handler) Logout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(uid); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "User not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "Logout failed", err)
		return
	}
	response.SuccessWithMsg(c, "Logged out", gin.H{"logged_out": true})
}

// Me returns the signed-in user's profile.
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUserByID(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "User fetch failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "User not found", nil)
		return
	}
	response.Success(c, userSummary(user))
}

func userSummary(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"phone":      user.Phone,
		"role":       user.Role,
		"cart_id":    user.CartID,
		"address": gin.H{
			"street":  user.Address.Street,
			"city":    user.Address.City,
			"state":   user.Address.State,
			"pincode": user.Address.Pincode,
		},
	}
}

func (h *Handler) recordLogin(c *gin.Context, userID uint, identifier, status, failReason string) {
	if h.AuthService == nil {
		return
	}
	requestID := ""
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			requestID = id
		}
	}
	h.AuthService.RecordLoginAttempt(service.LoginAttempt{
		UserID:     userID,
		Identifier: identifier,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		RequestID:  requestID,
	})
}
