// Package glib carries the cgo accessor shims the ostree bindings are built
// on: reading the message out of a GError, stepping a GHashTableIter,
// decoding a "(su)" object-name tuple out of a GVariant, and duplicating a
// native string.
//
// # Handles
//
// GError, GVariant and GHashTable are opaque native structures. This package
// models each as a small wrapper around its native pointer with accessor
// operations only; the structures are never inspected from Go. Wrappers
// cross package boundaries as unsafe.Pointer because cgo types are local to
// the package that declares them.
//
// # Borrowed vs owned
//
// Every accessor output is borrowed — valid only while the owning structure
// is alive and must not be freed by the receiver — except StrDup, which
// transfers a fresh allocation to the caller. Wrappers created by the New*
// constructors own their native value and release it through Free/Unref;
// wrappers created by the *FromNative functions borrow it and their
// Free/Unref methods are no-ops.
//
// # Contract violations
//
// Passing a nil handle where one is required is a programming error, not a
// recoverable condition: the Go wrappers panic, and the C shims underneath
// g_assert. All other failure modes (variant shape mismatch, allocation
// failure, table corruption) are delegated to GLib's own behavior and are
// neither validated nor translated here.
package glib
