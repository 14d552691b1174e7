package dto

import "net/http"

// Error codes raised by the domain and infrastructure layers
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeDonorNotEligible    = "DONOR_NOT_ELIGIBLE"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeAccountDisabled     = "ACCOUNT_DISABLED"
	ErrCodeInvalidToken        = "INVALID_TOKEN"
	ErrCodeTokenExpired        = "TOKEN_EXPIRED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// errorCodeToHTTPStatus maps domain error codes to HTTP status codes
var errorCodeToHTTPStatus = map[string]int{
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeDonorNotEligible:    http.StatusUnprocessableEntity,
	ErrCodeInvalidCredentials:  http.StatusUnauthorized,
	ErrCodeAccountDisabled:     http.StatusForbidden,
	ErrCodeInvalidToken:        http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeInternalError:       http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unknown codes map to 500.
func GetHTTPStatus(errorCode string) int {
	if status, ok := errorCodeToHTTPStatus[errorCode]; ok {
		return status
	}
	return http.StatusInternalServerError
}
