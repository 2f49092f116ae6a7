package public

import (
	"strings"

	"github.com/shopmitra/internal/service"
)

// CaptchaPayloadRequest carries the captcha answer. Scenes with captcha
// disabled accept an empty payload; the service decides whether it is
// required.
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ToServicePayload converts the request payload for verification.
func (r CaptchaPayloadRequest) ToServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}
