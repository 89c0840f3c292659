// Package errors provides structured error types for the ostree bindings.
//
// Errors are categorized by Kind and carry the GError domain quark name and
// code when the failure originated in GLib or libostree, so callers can match
// native error classes without touching cgo.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.KindNotFound).
//		Op("resolve rev").
//		Domain("g-io-error-quark").
//		Code(1).
//		Detail("refspec not found").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotInitialized("list refs")
//	err := errors.InvalidInput("open", "empty path")
//
// All errors implement the standard error interface and support errors.Is/As.
// Contract violations such as a nil native handle are not represented here;
// those panic at the call site.
package errors
