package drive

import (
	"errors"
	"fmt"
)

// Error is a domain error from a filesystem or gateway operation.
//
// These are business errors (item not found, unsupported zone, type
// mismatch) as opposed to transport mechanics. Hosting protocol layers
// translate Code to their own error vocabulary; Message is suitable for
// direct display to a user.
type Error struct {
	// Code is the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the virtual path related to the error, if any.
	Path string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode is the category of a domain error.
type ErrorCode int

const (
	// ErrNotFound indicates the path or item does not exist remotely.
	ErrNotFound ErrorCode = iota

	// ErrAccessDenied indicates the operation is forbidden on the target
	// (for example fetching the content of an account root).
	ErrAccessDenied

	// ErrAuthFailed maps from HTTP 401/403. The session retries the
	// remote call once with a refreshed token before surfacing this.
	ErrAuthFailed

	// ErrAlreadyExists maps from HTTP 409 on create, copy and rename.
	ErrAlreadyExists

	// ErrTypeMismatch indicates a resolved item's folder/file flag
	// disagrees with what the operation required.
	ErrTypeMismatch

	// ErrNotEmpty indicates a delete on a non-empty folder without the
	// recursive-delete intent.
	ErrNotEmpty

	// ErrUnsupported indicates the zone/verb combination is intentionally
	// not implemented. Callers may treat it as "fall back to a generic
	// strategy", e.g. emulating a cross-account copy via read + write.
	ErrUnsupported

	// ErrRemote is an opaque passthrough of the provider's message for
	// any other remote failure.
	ErrRemote

	// ErrLocalIO indicates temp-storage read/write failure while spooling
	// content during a put.
	ErrLocalIO

	// ErrUnknownAccount indicates the account segment does not name a
	// configured account.
	ErrUnknownAccount

	// ErrInvalidPath indicates a syntactically unusable path (for example
	// a verb invoked on the synthetic root where it cannot apply).
	ErrInvalidPath
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "not-found"
	case ErrAccessDenied:
		return "access-denied"
	case ErrAuthFailed:
		return "authentication-failed"
	case ErrAlreadyExists:
		return "already-exists"
	case ErrTypeMismatch:
		return "type-mismatch"
	case ErrNotEmpty:
		return "not-empty"
	case ErrUnsupported:
		return "unsupported"
	case ErrRemote:
		return "remote-error"
	case ErrLocalIO:
		return "local-io"
	case ErrUnknownAccount:
		return "unknown-account"
	case ErrInvalidPath:
		return "invalid-path"
	default:
		return fmt.Sprintf("error(%d)", int(c))
	}
}

// NewError builds a domain error.
func NewError(code ErrorCode, path, format string, v ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, v...), Path: path}
}

// CodeOf extracts the ErrorCode from err, or ErrRemote when err is not a
// domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrRemote
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// FromStatus maps an HTTP status and provider message to a domain error.
// 401 and 403 both map to ErrAuthFailed: the Graph API reports expired
// tokens as either depending on the endpoint.
func FromStatus(status int, path, message string) *Error {
	switch status {
	case 401, 403:
		return NewError(ErrAuthFailed, path, "authentication failed (HTTP %d)", status)
	case 404:
		return NewError(ErrNotFound, path, "item does not exist")
	case 409:
		return NewError(ErrAlreadyExists, path, "item already exists")
	default:
		if message == "" {
			message = fmt.Sprintf("remote request failed (HTTP %d)", status)
		}
		return &Error{Code: ErrRemote, Message: message, Path: path}
	}
}
