// Package forgeerr provides structured errors for Forge's gameplay rules,
// carrying a machine-checkable code and optional metadata alongside the
// human-readable message.
package forgeerr

import (
	"errors"
	"fmt"
)

// Code categorizes why an engine operation refused to proceed.
type Code string

const (
	// CodeUnknown is used when no more specific code applies.
	CodeUnknown Code = "unknown"
	// CodeInternal indicates a bug or invariant violation inside the engine.
	CodeInternal Code = "internal"
	// CodeUnknownAttribute indicates a lookup referenced an attribute key
	// that isn't registered on the Set.
	CodeUnknownAttribute Code = "unknown_attribute"
	// CodeChannelOutOfRange indicates a channel index past the configured
	// channel count for an attribute.
	CodeChannelOutOfRange Code = "channel_out_of_range"
	// CodeInvalidConfiguration indicates a programmer error in effect or
	// ability data (negative stack limit, empty ref, ...).
	CodeInvalidConfiguration Code = "invalid_configuration"
)

// Error is a coded, wrappable error.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "forgeerr: nil error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Option configures an Error at construction time.
type Option func(*Error)

// WithMeta attaches a key/value pair of diagnostic context to the error.
func WithMeta(key string, value any) Option {
	return func(e *Error) {
		if e.Meta == nil {
			e.Meta = make(map[string]any)
		}
		e.Meta[key] = value
	}
}

// New creates an Error with the given code and message.
func New(code Code, message string, opts ...Option) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and message. The returned
// error carries code even when err is itself a *Error; err stays
// reachable through Unwrap.
func Wrap(err error, code Code, message string, opts ...Option) *Error {
	if err == nil {
		return New(CodeInternal, fmt.Sprintf("forgeerr.Wrap called with nil: %s", message))
	}
	wrapped := &Error{Code: code, Message: message, Cause: err}
	for _, opt := range opts {
		opt(wrapped)
	}
	return wrapped
}

// GetCode extracts the Code from any error, returning CodeUnknown if the
// error isn't a *Error.
func GetCode(err error) Code {
	var fe *Error
	if errors.As(err, &fe) && fe != nil {
		return fe.Code
	}
	return CodeUnknown
}

// UnknownAttribute returns the error for a lookup against an unregistered
// attribute key.
func UnknownAttribute(key string) *Error {
	return Newf(CodeUnknownAttribute, "unknown attribute %q", key)
}

// ChannelOutOfRange returns the error for a channel index outside the
// attribute's configured channel count.
func ChannelOutOfRange(key string, channel, count int) *Error {
	return Newf(CodeChannelOutOfRange, "attribute %q has %d channels, got index %d", key, count, channel)
}

// IsUnknownAttribute reports whether err is an unknown-attribute error.
func IsUnknownAttribute(err error) bool {
	return GetCode(err) == CodeUnknownAttribute
}

// IsChannelOutOfRange reports whether err is a channel-out-of-range error.
func IsChannelOutOfRange(err error) bool {
	return GetCode(err) == CodeChannelOutOfRange
}
