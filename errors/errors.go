package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes the error
type Kind string

const (
	KindNative         Kind = "native"          // reported by GLib/libostree
	KindNotFound       Kind = "not_found"       // ref, rev or object missing
	KindNotInitialized Kind = "not_initialized" // repository handle not opened
	KindInvalidInput   Kind = "invalid_input"   // bad argument from the caller
	KindCanceled       Kind = "canceled"        // operation canceled via context
)

// Error is the structured error type used throughout the bindings.
// Domain and Code carry the originating GError domain quark name and code
// when the failure was reported by the native library.
type Error struct {
	Cause  error
	Op     string
	Kind   Kind
	Domain string
	Code   int
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteByte('[')
		b.WriteString(e.Op)
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Domain != "" {
		fmt.Fprintf(&b, " (%s:%d)", e.Domain, e.Code)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match on Kind;
// if the target also names a Domain (and Code), those must match too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	if t.Domain != "" && (e.Domain != t.Domain || e.Code != t.Code) {
		return false
	}
	return true
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind}}
}

// Op sets the operation the error occurred in
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Domain sets the GError domain quark name
func (b *Builder) Domain(domain string) *Builder {
	b.err.Domain = domain
	return b
}

// Code sets the GError code within the domain
func (b *Builder) Code(code int) *Builder {
	b.err.Code = code
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotInitialized reports use of a repository handle that was never opened
func NotInitialized(op string) *Error {
	return &Error{Op: op, Kind: KindNotInitialized, Detail: "repo not initialized"}
}

// InvalidInput reports a bad argument from the caller
func InvalidInput(op, detail string) *Error {
	return &Error{Op: op, Kind: KindInvalidInput, Detail: detail}
}

// Canceled reports an operation interrupted by context cancellation
func Canceled(op string, cause error) *Error {
	return &Error{Op: op, Kind: KindCanceled, Cause: cause}
}

// Op attributes err to the named operation. A structured error without an
// operation is annotated in place; anything else is wrapped as a native
// failure.
func Op(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		if e.Op == "" {
			e.Op = op
		}
		return err
	}
	return &Error{Op: op, Kind: KindNative, Cause: err}
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == KindNotFound
}
