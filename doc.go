// Package ostree provides Go bindings for libostree and the small set of
// GLib accessor shims the bindings are built on.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	ostree/              Root package with object-type and repo-mode primitives
//	├── glib/            cgo accessor shims over GLib (GError, GVariant, GHashTable)
//	├── repo/            High-level API for local OSTree repositories
//	├── errors/          Structured error types carrying GLib domain and code
//	└── cmd/             ostree-inspect CLI and interactive repository browser
//
// # Quick Start
//
// Open a repository and list its refs:
//
//	r, err := repo.Open("/ostree/repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	refs, err := r.ListRefs()
//	for _, ref := range refs {
//	    fmt.Println(ref)
//	}
//
// # Ownership Model
//
// Every value handed out by the glib package is either borrowed or owned.
// Borrowed references stay valid only as long as their owning structure; they
// must never be freed by the receiver. Owned values (for example the result
// of glib.StrDup) transfer to the caller, who releases them through the
// matching deallocator. Wrapper types record which side of that line they
// are on; see the glib package documentation for the full conventions.
//
// # Thread Safety
//
// The bindings add no synchronization of their own. GLib and libostree
// structures are owned by the native library, and callers must coordinate
// access to them — in particular, a hash table must not be mutated while an
// iterator over it is live, and an error or variant handle must outlive any
// borrowed string read from it.
package ostree
