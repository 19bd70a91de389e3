// Package errors provides coded errors shared by every rsalab layer. A code is an
// HTTP-style status; the message is safe to show to API callers and the metadata
// names the offending fields or values.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// UnknownCode is the code given to errors that carry none.
const UnknownCode = 500

// Status is the caller-visible part of an error.
type Status struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error is a coded error with optional metadata and cause. Values are treated as
// immutable: WithMetadata and WithCause return copies, so package-level sentinels
// can be decorated freely.
type Error struct {
	Status
	cause error
}

// Error renders "code=..., message=..." followed by the metadata in key order and
// the cause.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("code=")
	b.WriteString(strconv.Itoa(e.Code))
	b.WriteString(", message=")
	b.WriteString(e.Message)

	if len(e.Metadata) > 0 {
		b.WriteString(", metadata={")
		for i, k := range e.keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(e.Metadata[k])
		}
		b.WriteByte('}')
	}

	if e.cause != nil {
		b.WriteString(", cause=")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) keys() []string {
	return slices.Sorted(maps.Keys(e.Metadata))
}

// MarshalZerologObject logs the error as an object instead of a flat string.
func (e *Error) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int("code", e.Code).Str("message", e.Message)
	if len(e.Metadata) > 0 {
		md := zerolog.Dict()
		for _, k := range e.keys() {
			md.Str(k, e.Metadata[k])
		}
		ev.Dict("metadata", md)
	}
	if e.cause != nil {
		ev.Str("cause", e.cause.Error())
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the wrapped error, if any.
func (e *Error) Cause() error {
	return e.cause
}

// WithMetadata returns a copy of e with m merged into its metadata.
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}
	err := e.clone()
	if err.Metadata == nil {
		err.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(err.Metadata, m)
	return err
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	err := e.clone()
	err.cause = cause
	return err
}

func (e *Error) clone() *Error {
	return &Error{
		Status: Status{
			Code:     e.Code,
			Message:  e.Message,
			Metadata: maps.Clone(e.Metadata),
		},
		cause: e.cause,
	}
}

// Is matches any *Error with the same code and message, so a sentinel still
// matches after WithMetadata or WithCause.
func (e *Error) Is(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return e.Code == ge.Code && e.Message == ge.Message
	}
	return false
}

// GetMetadata returns a copy of the metadata, nil when there is none.
func (e *Error) GetMetadata() map[string]string {
	if len(e.Metadata) == 0 {
		return nil
	}
	return maps.Clone(e.Metadata)
}

// New creates an error; format is used verbatim when no args are given.
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return &Error{Status: Status{Code: code, Message: message}}
}

// FromError returns the first *Error in err's chain. Errors without one become
// UnknownCode errors carrying err's text.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	return New(UnknownCode, "%v", err)
}

// Wrap returns nil for a nil err.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}
