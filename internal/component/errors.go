package component

import (
	"errors"
	"fmt"
	"strings"
)

// Update cycle failures. Every cycle error wraps exactly one of these.
var (
	ErrMalformedRequest      = errors.New("malformed request")
	ErrMethodNotFound        = errors.New("method not found")
	ErrArityMismatch         = errors.New("arity mismatch")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrMethodExecutionFailed = errors.New("method execution failed")
)

// Registry failures, reported at startup.
var (
	ErrUnknownComponent   = errors.New("unknown component")
	ErrDuplicateComponent = errors.New("duplicate component")
	ErrAmbiguousMethod    = errors.New("ambiguous method")
	ErrInvalidViewModel   = errors.New("invalid view-model")
)

// Error describes a failed update cycle.
type Error struct {
	Kind      error
	Component string
	Method    string
	// Param is the zero-based argument position, -1 when the failure is not
	// tied to a parameter.
	Param int
	Err   error
}

func newError(kind error, component, method string, param int, err error) *Error {
	return &Error{Kind: kind, Component: component, Method: method, Param: param, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Component != "" {
		fmt.Fprintf(&b, ": component %q", e.Component)
	}
	if e.Method != "" {
		fmt.Fprintf(&b, " method %q", e.Method)
	}
	if e.Param >= 0 {
		fmt.Fprintf(&b, " parameter %d", e.Param)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a stable identifier for the error kind of err, or
// "Internal" when err carries none of the known kinds.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrMalformedRequest):
		return "MalformedRequest"
	case errors.Is(err, ErrMethodNotFound):
		return "MethodNotFound"
	case errors.Is(err, ErrArityMismatch):
		return "ArityMismatch"
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgument"
	case errors.Is(err, ErrMethodExecutionFailed):
		return "MethodExecutionFailed"
	case errors.Is(err, ErrUnknownComponent):
		return "UnknownComponent"
	default:
		return "Internal"
	}
}
