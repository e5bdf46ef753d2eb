package dto

import (
	"net/http"
	"strings"
)

// Unified API error codes. Handlers translate domain error codes into this
// set before writing a response, so clients see a stable vocabulary.
const (
	// General errors
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	// Validation errors
	ErrCodeValidation = "ERR_VALIDATION"

	// Authentication and authorization
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	// Resource errors
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"

	// Concurrency
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	// Business rule violations
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	ErrCodeLimitReached = "ERR_LIMIT_REACHED"

	// Request errors
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	// Rate limiting
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps unified error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
	ErrCodeLimitReached: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes default to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping translates domain layer error codes into the
// unified API vocabulary. Codes not present here fall through to the
// prefix rules in NormalizeErrorCode.
var DomainErrorCodeMapping = map[string]string{
	// Authentication
	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_BLACKLISTED":   ErrCodeTokenInvalid,

	// Account and tenant state
	"ACCOUNT_LOCKED":      ErrCodeForbidden,
	"ACCOUNT_DEACTIVATED": ErrCodeForbidden,
	"ACCOUNT_PENDING":     ErrCodeForbidden,
	"TENANT_INACTIVE":     ErrCodeForbidden,

	// Resources
	"NOT_FOUND":      ErrCodeNotFound,
	"ALREADY_EXISTS": ErrCodeAlreadyExists,

	// Conflicts
	"COMPANY_ACTIVE":       ErrCodeConflict,
	"ROLE_IN_USE":          ErrCodeConflict,
	"CAMPAIGN_HAS_LEADS":   ErrCodeConflict,
	"AGENT_HAS_CALLS":      ErrCodeConflict,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	// Quota limits
	"SEAT_LIMIT_REACHED":     ErrCodeLimitReached,
	"CAMPAIGN_LIMIT_REACHED": ErrCodeLimitReached,
	"AGENT_LIMIT_REACHED":    ErrCodeLimitReached,

	// State transitions
	"SAME_STATUS":       ErrCodeInvalidState,
	"STATUS_TERMINAL":   ErrCodeInvalidState,
	"ALREADY_ACTIVE":    ErrCodeInvalidState,
	"ALREADY_INACTIVE":  ErrCodeInvalidState,
	"ALREADY_ENDED":     ErrCodeInvalidState,
	"CAMPAIGN_INACTIVE": ErrCodeInvalidState,
	"AGENT_INACTIVE":    ErrCodeInvalidState,

	// Business rules
	"SYSTEM_ROLE":       ErrCodeBusinessRule,
	"MENU_HAS_SUBMENUS": ErrCodeBusinessRule,
	"DUPLICATE_GRANT":   ErrCodeBusinessRule,

	// Infrastructure
	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its unified form.
// Codes already in the unified vocabulary pass through unchanged. Codes
// without an explicit mapping are classified by prefix or suffix:
// INVALID_* is a validation failure, *_NOT_FOUND is a missing resource.
func NormalizeErrorCode(code string) string {
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return ErrCodeNotFound
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeValidation
	}
	return ErrCodeUnknown
}
