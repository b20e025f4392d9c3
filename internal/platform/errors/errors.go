// Package errors carries the coded error used from repositories up to the HTTP envelope.
// Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for callers, logs and the wire. The numeric values are
// part of the response envelope so new codes are only ever appended.
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB

	// ErrorCodeConfig covers missing or malformed settings, absent credentials included
	ErrorCodeConfig
	// ErrorCodeIntegrity covers stored secrets that fail authentication on decrypt
	ErrorCodeIntegrity
	// ErrorCodeAuthorityRejected is a terminal refusal from KSeF
	ErrorCodeAuthorityRejected
	// ErrorCodeAuthorityTimeout means the status poll ran out of attempts or time
	ErrorCodeAuthorityTimeout
)

type codeInfo struct {
	name   string
	status int
}

var codes = [...]codeInfo{
	ErrorCodeUnknown:           {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:             {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:       {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests:   {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeConflict:          {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:      {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:         {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument:   {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:        {"validation", http.StatusBadRequest},
	ErrorCodeJSON:              {"json", http.StatusBadRequest},
	ErrorCodeNotFound:          {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey:      {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:                {"db", http.StatusInternalServerError},
	ErrorCodeConfig:            {"config", http.StatusPreconditionFailed},
	ErrorCodeIntegrity:         {"integrity", http.StatusInternalServerError},
	ErrorCodeAuthorityRejected: {"authority_rejected", http.StatusFailedDependency},
	ErrorCodeAuthorityTimeout:  {"authority_timeout", http.StatusGatewayTimeout},
}

// String is the snake_case label used in log fields and metric outcomes
func (c ErrorCode) String() string {
	if int(c) < len(codes) {
		return codes[c].name
	}
	return fmt.Sprintf("code_%d", uint16(c))
}

// Status is the HTTP status the envelope is written with
func (c ErrorCode) Status() int {
	if int(c) < len(codes) {
		return codes[c].status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by store helpers when a write touched no row
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is a coded error with an optional cause and offending field
type Error struct {
	cause error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the error object inside the response envelope
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the classification
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the input field the error is about, if any
func (e *Error) Field() string { return e.field }

// WireFrom builds the envelope error. Foreign errors become unknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root follows Unwrap to the innermost error
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns the code of the outermost *Error, or unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a response status
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// WithField returns a copy of the coded error pointing at field; other errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.field = field
	return &cp
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap attaches a code and message to cause
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{cause: cause, code: code, msg: msg}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error   { return Newf(ErrorCodeInvalidArgument, format, a...) }
func DBf(format string, a ...any) error           { return Newf(ErrorCodeDB, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Forbiddenf(format string, a ...any) error    { return Newf(ErrorCodeForbidden, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func Configf(format string, a ...any) error       { return Newf(ErrorCodeConfig, format, a...) }
func Integrityf(format string, a ...any) error    { return Newf(ErrorCodeIntegrity, format, a...) }
func Rejectedf(format string, a ...any) error     { return Newf(ErrorCodeAuthorityRejected, format, a...) }

func AuthorityTimeoutf(format string, a ...any) error {
	return Newf(ErrorCodeAuthorityTimeout, format, a...)
}

// Retryable reports whether trying the same operation later can succeed.
// Rejections, integrity and config failures are final; database errors defer to IsRetryable.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests, ErrorCodeAuthorityTimeout:
		return true
	case ErrorCodeAuthorityRejected, ErrorCodeIntegrity, ErrorCodeConfig:
		return false
	}
	return IsRetryable(err)
}
