// Package errors is the catalogue of errors the API reports to clients.
// Each carries an HTTP status and a stable code; infrastructure failures wrap them with pkg/errors.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError is an error that knows how it is presented over HTTP.
type AppError interface {
	error
	HTTPCode() int
	ErrorCode() string
	Message() string
	Details() string
}

// BaseError is the AppError used for the catalogue below.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

func define(httpCode int, errorCode, message string) *BaseError {
	return &BaseError{httpCode: httpCode, errorCode: errorCode, message: message}
}

func (e *BaseError) Error() string     { return e.message }
func (e *BaseError) HTTPCode() int     { return e.httpCode }
func (e *BaseError) ErrorCode() string { return e.errorCode }
func (e *BaseError) Message() string   { return e.message }
func (e *BaseError) Details() string   { return e.details }

// Is matches any BaseError with the same code, so copies made by WithDetails
// still satisfy errors.Is against the catalogue entry.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)

	return ok && other.errorCode == e.errorCode
}

// WrapMessage annotates the error with internal context. The message is logged, never shown.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// WithDetails returns a copy whose details are shown to the client for 4xx responses.
func (e *BaseError) WithDetails(details string) *BaseError {
	clone := *e
	clone.details = details

	return &clone
}

// IsCode reports whether err carries an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr AppError

	return errors.As(err, &appErr) && appErr.ErrorCode() == code
}

// Sessions and ownership.
var (
	ErrUnauthenticated    = define(http.StatusUnauthorized, "UNAUTHENTICATED", "Please log in to continue")
	ErrInvalidCredentials = define(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	ErrForbidden          = define(http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource")
)

// Accounts.
var (
	ErrUsernameTaken       = define(http.StatusConflict, "USERNAME_TAKEN", "This username is already registered")
	ErrUserNotFound        = define(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrPasswordStrength    = define(http.StatusBadRequest, "PASSWORD_STRENGTH", "The password does not meet the strength requirements")
	ErrUnsupportedLanguage = define(http.StatusBadRequest, "UNSUPPORTED_LANGUAGE", "The selected language is not supported")
	ErrAccountHasDocuments = define(http.StatusConflict, "ACCOUNT_HAS_DOCUMENTS", "The account still owns documents")
)

// Documents and storage.
var (
	ErrDocumentNotFound = define(http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
	ErrEmptyUpload      = define(http.StatusBadRequest, "EMPTY_UPLOAD", "The uploaded file is empty")
	ErrInvalidFilename  = define(http.StatusBadRequest, "INVALID_FILENAME", "The file name is not allowed")
	ErrUploadTooLarge   = define(http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "The uploaded file exceeds the size limit")
	ErrStorage          = define(http.StatusInternalServerError, "STORAGE_ERROR", "The file storage is unavailable, please try again later")
)

// General.
var (
	ErrValidationFailed = define(http.StatusBadRequest, "VALIDATION_FAILED", "Input validation failed")
	ErrInternalError    = define(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)

// DatabaseExecuteError reports an unexpected driver failure as a 500.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError wraps a driver error; details describe the failed operation for the logs.
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{err: err, details: details}
}

func (e *DatabaseExecuteError) Error() string {
	return "database execution failed: " + e.details + ": " + e.err.Error()
}

func (e *DatabaseExecuteError) Unwrap() error     { return e.err }
func (e *DatabaseExecuteError) HTTPCode() int     { return http.StatusInternalServerError }
func (e *DatabaseExecuteError) ErrorCode() string { return "DATABASE_EXECUTE_FAILED" }
func (e *DatabaseExecuteError) Message() string   { return "Database execution failed" }
func (e *DatabaseExecuteError) Details() string   { return e.details }
