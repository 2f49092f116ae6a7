package service

import "errors"

// Sentinel errors surfaced by the service layer. Handlers translate these
// into response codes and client-facing messages via mapping tables.
var (
	// catalog
	ErrProductNotFound     = errors.New("product not found")
	ErrProductOutOfStock   = errors.New("product out of stock")
	ErrProductDiscontinued = errors.New("product discontinued")
	ErrProductInvalid      = errors.New("product fields invalid")
	ErrProductImageMissing = errors.New("product image required")

	// cart
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrQuantityFloor     = errors.New("quantity cannot go below 1")
	ErrInvalidCartAction = errors.New("invalid cart action")
	ErrCartConflict      = errors.New("cart save retries exhausted")

	// users and auth
	ErrUserNotFound       = errors.New("user not found")
	ErrFieldsRequired     = errors.New("all fields required")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrPhoneExists        = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("password too weak")
	ErrAdminNotFound      = errors.New("admin not found")

	// captcha
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	// queue
	ErrQueueUnavailable = errors.New("queue unavailable")
)
