// Package repo provides a high-level API for local OSTree repositories on
// top of libostree: opening and creating repositories, listing refs and
// revisions, traversing commits, pruning, walking and checking out trees.
//
// All GLib plumbing goes through the glib package, and every native failure
// surfaces as a structured error from the errors package, carrying the
// GError domain and code. Operations that can take a long time accept a
// context.Context which is bridged to a GCancellable, so canceling the
// context interrupts the native call.
//
// A Repo handle is not safe for concurrent mutation; callers coordinate
// access the same way they would around a raw OstreeRepo.
package repo
