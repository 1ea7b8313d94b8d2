// Package errors defines the coded error type shared by the folioview
// libraries, the CLI and the HTTP API.
//
// Every error that crosses a package boundary carries a [Code]. Callers branch
// on the code with [Is] rather than on message text, the API reports it in
// its JSON error body, and [Code.HTTPStatus] picks the response status.
//
// # Viewer codes
//
// The view-state core signals three conditions:
//   - INVALID_HASH_VALUE: a fragment value failed validation. The codec falls
//     back to the default for that field, so the code shows up in
//     diagnostics only and is never returned.
//   - PAGE_INDEX_OUT_OF_RANGE: a scroll target has no rectangle in the
//     current geometry. Only that call fails.
//   - MANIFEST_NOT_READY: layout or settings resolution ran before a manifest
//     was loaded.
//
// The other codes belong to manifest loading, storage and networking.
//
// # Usage
//
//	if err := m.GotoPage(40); errors.Is(err, errors.ErrCodePageIndexOutOfRange) {
//	    // stay on the current page
//	}
//
//	return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeInvalidHashValue    Code = "INVALID_HASH_VALUE"
	ErrCodePageIndexOutOfRange Code = "PAGE_INDEX_OUT_OF_RANGE"
	ErrCodeManifestNotReady    Code = "MANIFEST_NOT_READY"

	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// HTTPStatus is the response status the API uses for c. Unknown and empty
// codes map to 500.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidManifest, ErrCodeInvalidConfig,
		ErrCodePageIndexOutOfRange, ErrCodeInvalidHashValue:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeManifestNotReady:
		return http.StatusConflict
	case ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// GetCode returns the code of the outermost *Error in err's chain, or "" if
// there is none.
func GetCode(err error) Code {
	if e := asError(err); e != nil {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage returns the message of the outermost *Error without its code
// prefix, or err.Error() for other errors.
func UserMessage(err error) string {
	if e := asError(err); e != nil {
		return e.Message
	}
	return err.Error()
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
