package constants

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User role constants
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Stock sentinel values. The stock column carries availability in-band:
// -1 means discontinued, 0 means out of stock, positive means sellable.
const (
	StockDiscontinued = -1
	StockOutOfStock   = 0
)

// Cart quantity adjustment actions
const (
	CartActionIncrease = "increase"
	CartActionDecrease = "decrease"
)

// Login log status constants
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// Login log failure reason constants
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonCaptchaRequired    = "captcha_required"
	LoginLogFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonUserNotFound       = "user_not_found"
	LoginLogFailReasonUserDisabled       = "user_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)

// Captcha provider constants
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// Captcha scene constants
const (
	CaptchaSceneLogin = "login"
)

// Queue constants
const (
	QueueDefault         = "default"
	TaskCartPriceRefresh = "cart:price_refresh"
)

// Cache default configuration constants
const (
	RedisPrefixDefault = "sm"
)

// Timezone used when rendering cart timestamps to clients.
const (
	DisplayTimezoneDefault = "Asia/Kolkata"
)
