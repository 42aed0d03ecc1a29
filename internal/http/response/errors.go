package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/pkg/logger"
)

// ErrorResponse is the structured JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Stable error codes the frontend can switch on.
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInvalidInterval = "INVALID_INTERVAL"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeRoleMismatch    = "ROLE_SUBTYPE_MISMATCH"
	CodeAlreadyDecided  = "ALREADY_DECIDED"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// WriteError writes a structured JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

// DomainError maps the stable domain error kinds onto HTTP semantics.
// Anything unmapped is an unexpected storage failure.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), CodeNotFound)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusForbidden, err.Error(), CodeForbidden)
	case errors.Is(err, domain.ErrInvalidInterval):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidInterval)
	case errors.Is(err, domain.ErrMissingFields):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidInput)
	case errors.Is(err, domain.ErrInvalidEmailDomain):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidInput)
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteError(w, http.StatusConflict, err.Error(), CodeEmailExists)
	case errors.Is(err, domain.ErrInvalidRoleSubtype):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeRoleMismatch)
	case errors.Is(err, domain.ErrAlreadyDecided):
		WriteError(w, http.StatusConflict, err.Error(), CodeAlreadyDecided)
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrAccountDisabled):
		WriteError(w, http.StatusUnauthorized, err.Error(), CodeUnauthorized)
	default:
		WriteError(w, http.StatusInternalServerError, "internal error", CodeInternalError)
	}
}
