package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the console's failure taxonomy
const (
	CodeNetworkFailure    = "NETWORK_FAILURE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadyInFlight   = "ALREADY_IN_FLIGHT"
	CodeRemoteRejected    = "REMOTE_REJECTED"
	CodeBadRequest        = "BAD_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Taxonomy constructors

// NetworkFailure marks a transport-level failure against the remote dispatch
// service. Background polls swallow these; user-initiated actions surface them.
func NetworkFailure(err error) *AppError {
	return &AppError{
		Code:    CodeNetworkFailure,
		Message: "Dispatch service unreachable",
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// InvalidTransition marks a locally rejected state change. The ride is left
// untouched; only the reason is reported.
func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Cannot move ride from %s to %s", from, to),
		Status:  http.StatusConflict,
	}
}

// AlreadyInFlight marks a rejected concurrent mutation for the same driver.
func AlreadyInFlight(driverID string) *AppError {
	return &AppError{
		Code:    CodeAlreadyInFlight,
		Message: fmt.Sprintf("An availability change for driver %s is already in progress", driverID),
		Status:  http.StatusConflict,
	}
}

// RemoteRejected carries a business error returned by the dispatch service,
// verbatim when the server supplied a message.
func RemoteRejected(message string) *AppError {
	if message == "" {
		message = "Request rejected by dispatch service"
	}
	return &AppError{
		Code:    CodeRemoteRejected,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}

// Common error constructors

// BadRequest creates a 400 error
func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NotFound creates a 404 error
func NotFound(message string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Domain-specific errors

var (
	ErrDriverNotFound = NotFound("Driver not found", nil)
	ErrRideNotFound   = NotFound("Ride not found", nil)
	ErrOfferNotFound  = NotFound("No offer recorded for this ride and driver", nil)

	ErrOfferExpired = &AppError{
		Code:    CodeInvalidTransition,
		Message: "Request Expired",
		Status:  http.StatusConflict,
	}
)

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Return generic internal error if not an AppError
	return Internal("An unexpected error occurred", err)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
