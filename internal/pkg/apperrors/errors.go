package apperrors

import "errors"

// ErrValidationFailed marks input the service rejected after binding succeeded.
var ErrValidationFailed = errors.New("validation failed")

var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrStudentIDAlreadyExists = errors.New("student ID already exists")
)

var (
	ErrInvalidFeeStatus = errors.New("invalid status")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrInvalidFeeDate   = errors.New("invalid fee date, expected YYYY-MM-DD")
)

// CustomError attaches a client-facing message and per-field details to one of
// the sentinels above. errors.Is sees through it to the sentinel.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func (e *CustomError) Unwrap() error { return e.Err }

// NewValidationError wraps ErrValidationFailed. details is keyed by field name
// and may be nil.
func NewValidationError(message string, details map[string]interface{}) *CustomError {
	return &CustomError{Err: ErrValidationFailed, Message: message, Details: details}
}
