package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when input is malformed; the caller must
	// correct the request and retry.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition is returned when a report's status precondition
	// does not hold for the requested transition.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when the caller is not allowed to act on the entity.
	ErrForbidden = errors.New("not authorized to perform this action")
	// ErrDuplicateAction is returned for repeated one-shot actions, such as a
	// second peer verification or a duplicate unique field.
	ErrDuplicateAction = errors.New("action already performed")
	// ErrInsufficientPoints is returned when a redemption exceeds the user's balance.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrInfrastructure is returned when a downstream store fails.
	ErrInfrastructure = errors.New("downstream service failure")

	// ErrUserNotFound is returned when a user id or lookup key resolves nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrReportNotFound is returned when a report id resolves nothing.
	ErrReportNotFound = errors.New("report not found")
	// ErrAuthorityNotFound is returned when an authority id resolves nothing.
	ErrAuthorityNotFound = errors.New("authority not found")
	// ErrRewardNotFound is returned when a reward id is not in the catalog.
	ErrRewardNotFound = errors.New("reward not found")
	// ErrRedemptionNotFound is returned when a redemption id resolves nothing.
	ErrRedemptionNotFound = errors.New("redemption not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Internal detail never
// crosses the boundary: unknown errors collapse to a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidTransition):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrDuplicateAction):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_ACTION")
	case errors.Is(err, ErrInsufficientPoints):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INSUFFICIENT_POINTS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrReportNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REPORT_NOT_FOUND")
	case errors.Is(err, ErrAuthorityNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "AUTHORITY_NOT_FOUND")
	case errors.Is(err, ErrRewardNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REWARD_NOT_FOUND")
	case errors.Is(err, ErrRedemptionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REDEMPTION_NOT_FOUND")
	case errors.Is(err, ErrInfrastructure):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
