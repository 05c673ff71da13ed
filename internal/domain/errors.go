package domain

import (
	"errors"
	"fmt"
)

// Error codes. Handlers map them to HTTP statuses.
const (
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	ECONFLICT  = "conflict"   // e.g. confirming a booking that was cancelled
	ETOOLARGE  = "too_large"  // asset over the storage limit
	ERATELIMIT = "rate_limit" // booking attempts exhausted
	EINTERNAL  = "internal"
)

const (
	internalMessage   = "Đã có lỗi xảy ra. Vui lòng thử lại."
	validationMessage = "Vui lòng kiểm tra lại các trường được đánh dấu."
)

// Error is a failure the UI can explain. Op names the failing call, e.g.
// "BookingService.Confirm"; Message is safe to show unless Code is
// EINTERNAL.
type Error struct {
	Code    string
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// resourceNames are the display names of resources passed to NotFound.
var resourceNames = map[string]string{
	"asset":   "tệp",
	"booking": "đặt chỗ",
	"flight":  "chuyến bay",
	"page":    "trang",
	"post":    "bài viết",
}

// NotFound reports a missing resource, e.g. NotFound(op, "flight", "42").
func NotFound(op, resource, id string) *Error {
	name, ok := resourceNames[resource]
	if !ok {
		name = resource
	}
	return newError(ENOTFOUND, op, fmt.Sprintf("Không tìm thấy %s %q", name, id), nil)
}

func Invalid(op, message string) *Error {
	return newError(EINVALID, op, message, nil)
}

func Conflict(op, message string) *Error {
	return newError(ECONFLICT, op, message, nil)
}

func TooLarge(op, message string) *Error {
	return newError(ETOOLARGE, op, message, nil)
}

func RateLimited(op string) *Error {
	return newError(ERATELIMIT, op, "Bạn thao tác quá nhanh. Vui lòng thử lại sau ít phút.", nil)
}

// Internal wraps an unexpected failure. The cause is logged, never shown.
func Internal(err error, op, message string) *Error {
	return newError(EINTERNAL, op, message, err)
}

// ErrorCode returns the code carried by err. Unrecognized errors are
// EINTERNAL; nil is "".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	var ve *ValidationError
	switch {
	case errors.As(err, &e):
		return e.Code
	case errors.As(err, &ve):
		return EINVALID
	}
	return EINTERNAL
}

// ErrorMessage returns the text to show the user for err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	var ve *ValidationError
	switch {
	case errors.As(err, &e) && e.Code != EINTERNAL:
		return e.Message
	case errors.As(err, &ve):
		return validationMessage
	}
	return internalMessage
}

// ErrorOp returns the Op of the first *Error in the chain.
func ErrorOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Op
	}
	return ""
}

// ValidationError maps form field names to messages.
type ValidationError struct {
	Op     string
	Fields map[string]string
}

// Validation starts an empty ValidationError for op. Collect with Add and
// finish with Err.
func Validation(op string) *ValidationError {
	return &ValidationError{Op: op, Fields: map[string]string{}}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d invalid field(s)", e.Op, len(e.Fields))
}

// Add records message for field, replacing an earlier one.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// Err returns e when any field failed, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
