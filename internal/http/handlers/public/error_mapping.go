package public

import (
	"errors"

	"github.com/shopmitra/internal/http/response"
	"github.com/shopmitra/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps one service sentinel to a response code and a
// client-facing message.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "Quantity must be a positive number"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "Product not found"},
	{target: service.ErrProductOutOfStock, code: response.CodeForbidden, msg: "Stock unavailable"},
	{target: service.ErrProductDiscontinued, code: response.CodeForbidden, msg: "Product no longer available"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "Product not found in cart"},
	{target: service.ErrQuantityFloor, code: response.CodeBadRequest, msg: "Cannot decrease quantity below 1"},
	{target: service.ErrInvalidCartAction, code: response.CodeBadRequest, msg: "Invalid action"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "Cart not found"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "User not found"},
	{target: service.ErrCartConflict, code: response.CodeInternal, msg: "Cart is busy, please retry"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "User not found"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "Cart not found"},
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrFieldsRequired, code: response.CodeBadRequest, msg: "All fields are required"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "Invalid email address"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "Email already registered"},
	{target: service.ErrPhoneExists, code: response.CodeBadRequest, msg: "Phone number already registered"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrFieldsRequired, code: response.CodeBadRequest, msg: "All fields are required"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "User not found"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "Invalid credentials"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "Account disabled"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "Cart operation failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "Checkout failed")
}
