package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the standardized error envelope returned by every
// handler.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
		Payload any               `json:"payload,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response.
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a field-level validation error response.
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{field: message}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a generic client error response.
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendNotFoundError sends a not-found response.
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendDomainError maps a service-layer error onto the HTTP taxonomy.
// Unrecognized errors are logged with context and surfaced as a generic
// internal fault so nothing about half-finished state leaks out.
func SendDomainError(c echo.Context, err error) error {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		blackoutErr   *BlackoutError
		transitionErr *InvalidTransitionError
		insufficient  *InsufficientBalanceError
	)
	switch {
	case errors.As(err, &validationErr):
		return SendValidationError(c, validationErr.Field, validationErr.Message)
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", "Resource not found", nil))
	case errors.Is(err, ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHENTICATED", "Authentication required", nil))
	case errors.As(err, &blackoutErr):
		return c.JSON(http.StatusConflict, CreateErrorResponse("BLACKOUT", blackoutErr.Error(), nil))
	case errors.As(err, &conflictErr):
		return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", conflictErr.Error(), nil))
	case errors.As(err, &transitionErr):
		return c.JSON(http.StatusConflict, CreateErrorResponse("INVALID_TRANSITION", transitionErr.Error(), nil))
	case errors.Is(err, ErrProfileIncomplete):
		return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("PROFILE_INCOMPLETE", "A phone number is required to book", nil))
	case errors.Is(err, ErrMembershipNotEligible):
		return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("MEMBERSHIP_NOT_ELIGIBLE", err.Error(), nil))
	case errors.As(err, &insufficient):
		resp := CreateErrorResponse("INSUFFICIENT_BALANCE", insufficient.Error(), nil)
		resp.Error.Payload = insufficient.Remediation
		return c.JSON(http.StatusPaymentRequired, resp)
	case errors.Is(err, ErrInvalidConfiguration):
		return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("INVALID_CONFIGURATION", err.Error(), nil))
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unexpected fault")
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal error", nil))
	}
}
