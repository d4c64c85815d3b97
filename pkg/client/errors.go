package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies SDK failures so callers can branch without
// inspecting HTTP status codes or backend error payloads.
type ErrorKind string

const (
	// KindValidation covers rejected input such as bad credentials or a
	// malformed profile. The message comes from the backend verbatim.
	KindValidation ErrorKind = "validation"
	// KindUnauthenticated means no usable session remains after the
	// refresh attempt was exhausted.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindForbidden means the session is valid but lacks the role.
	KindForbidden ErrorKind = "forbidden"
	// KindNotFound means the requested resource does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindNetwork covers transport failures before any response arrived.
	KindNetwork ErrorKind = "network"
	// KindInternal covers backend faults and everything unclassified.
	KindInternal ErrorKind = "internal"
)

// Error is the single failure type crossing the SDK boundary.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Code       string
	Details    map[string]any
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", cause: err}
}

// errorEnvelope mirrors the backend error payload.
type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func errorFromResponse(status int, envelope *errorEnvelope) *Error {
	e := &Error{StatusCode: status}
	if envelope != nil {
		e.Code = envelope.Error.Code
		e.Message = envelope.Error.Message
		e.Details = envelope.Error.Details
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthenticated
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity, status == http.StatusConflict:
		e.Kind = KindValidation
	default:
		e.Kind = KindInternal
	}
	return e
}

// KindOf extracts the classification from any error returned by the SDK.
func KindOf(err error) ErrorKind {
	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		return sdkErr.Kind
	}
	if err != nil {
		return KindInternal
	}
	return ""
}

// IsUnauthenticated reports whether err means the session is gone.
func IsUnauthenticated(err error) bool {
	return KindOf(err) == KindUnauthenticated
}

// IsNetwork reports whether err was a transport failure.
func IsNetwork(err error) bool {
	return KindOf(err) == KindNetwork
}

// IsValidation reports whether err was rejected input.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsForbidden reports whether err was a role rejection.
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}
