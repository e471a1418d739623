// Package apperr defines the application-layer error type shared by the
// domain services. Failures are tagged with a stable string code so callers
// (HTTP adapter, view layers) can branch without matching message text.
package apperr

import "errors"

// Codes used across the services.
const (
	CodeInvalidData          = "INVALID_DATA"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeRouteNotFound        = "ROUTE_NOT_FOUND"
	CodeVehicleNotFound      = "VEHICLE_NOT_FOUND"
	CodeVehicleAlreadyExists = "VEHICLE_ALREADY_EXISTS"
	CodeMobilityTypeNotFound = "MOBILITY_TYPE_NOT_FOUND"
	CodeDatabaseNotAvailable = "DATABASE_NOT_AVAILABLE"
	CodeEmailNotFound        = "EMAIL_NOT_FOUND"
	CodeEmailAlreadyInUse    = "EMAIL_ALREADY_IN_USE"
	CodeInvalidCredential    = "INVALID_CREDENTIAL"
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// New builds an Error with the given HTTP status, code and message.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithDetails attaches field-level details and returns e.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// HasCode reports whether err is an *Error carrying the given code.
func HasCode(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
