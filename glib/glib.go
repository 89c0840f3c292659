package glib

/*
#cgo pkg-config: glib-2.0 gio-2.0
#include <stdlib.h>
#include <glib.h>
#include <gio/gio.h>
#include "support.h"
*/
import "C"

import (
	"unsafe"

	oerrors "github.com/lirios/ostree-go/errors"
)

// Quark is a GQuark, GLib's interned-string identifier for error domains.
type Quark uint32

// QuarkFromString interns s and returns its quark.
func QuarkFromString(s string) Quark {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return Quark(C.g_quark_from_string(cs))
}

func (q Quark) String() string {
	return C.GoString(C.g_quark_to_string(C.GQuark(q)))
}

// Error wraps a native GError.
type Error struct {
	ptr   unsafe.Pointer
	owned bool
}

// NewError creates an owned GError with the given domain, code and message.
func NewError(domain Quark, code int, message string) *Error {
	cmsg := C.CString(message)
	defer C.free(unsafe.Pointer(cmsg))
	return &Error{
		ptr:   unsafe.Pointer(C.g_error_new_literal(C.GQuark(domain), C.gint(code), cmsg)),
		owned: true,
	}
}

// ErrorFromNative wraps a borrowed native GError pointer. Returns nil for a
// nil pointer.
func ErrorFromNative(p unsafe.Pointer) *Error {
	if p == nil {
		return nil
	}
	return &Error{ptr: p}
}

func (e *Error) native() *C.GError {
	if e == nil || e.ptr == nil {
		panic("glib: nil GError handle")
	}
	return (*C.GError)(e.ptr)
}

// message is the borrowed message string, owned by the error and stable for
// its lifetime.
func (e *Error) message() *C.char {
	return C._gerror_message(e.native())
}

func (e *Error) messagePtr() unsafe.Pointer {
	return unsafe.Pointer(e.message())
}

// Message returns a copy of the error message. Panics if e is nil.
func (e *Error) Message() string {
	return C.GoString(e.message())
}

// Domain returns the error domain quark.
func (e *Error) Domain() Quark {
	return Quark(e.native().domain)
}

// Code returns the error code within its domain.
func (e *Error) Code() int {
	return int(e.native().code)
}

// Native returns the borrowed native pointer, or nil for an empty wrapper.
func (e *Error) Native() unsafe.Pointer {
	if e == nil {
		return nil
	}
	return e.ptr
}

// Take transfers ownership of the native error to the caller and empties
// the wrapper. The caller becomes responsible for freeing the result.
func (e *Error) Take() unsafe.Pointer {
	if e == nil {
		return nil
	}
	p := e.ptr
	e.ptr = nil
	e.owned = false
	return p
}

// Free releases an owned error. Borrowed or already-taken wrappers are left
// untouched.
func (e *Error) Free() {
	if e == nil || e.ptr == nil || !e.owned {
		return
	}
	C.g_error_free((*C.GError)(e.ptr))
	e.ptr = nil
}

// TakeError consumes a native GError, as filled in through a **GError out
// argument, and converts it into a structured error. The native error is
// freed before returning. G_IO_ERROR_NOT_FOUND is mapped to KindNotFound so
// callers can match missing refs and objects without cgo.
func TakeError(p unsafe.Pointer) error {
	if p == nil {
		return oerrors.New(oerrors.KindNative).Detail("operation failed without GError").Build()
	}
	errC := (*C.GError)(p)
	defer C.g_error_free(errC)

	kind := oerrors.KindNative
	if errC.domain == C.g_io_error_quark() && errC.code == C.gint(C.G_IO_ERROR_NOT_FOUND) {
		kind = oerrors.KindNotFound
	}

	return oerrors.New(kind).
		Domain(Quark(errC.domain).String()).
		Code(int(errC.code)).
		Detail(C.GoString(C._gerror_message(errC))).
		Build()
}

// Variant wraps a native GVariant.
type Variant struct {
	ptr   unsafe.Pointer
	owned bool
}

// NewTupleSU builds an owned "(su)" tuple variant, the shape libostree uses
// for object names: a checksum string and an object-type code.
func NewTupleSU(s string, u uint32) *Variant {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return &Variant{
		ptr:   unsafe.Pointer(C._gvariant_new_su(cs, C.guint32(u))),
		owned: true,
	}
}

// VariantFromNative wraps a borrowed native GVariant pointer. Returns nil
// for a nil pointer.
func VariantFromNative(p unsafe.Pointer) *Variant {
	if p == nil {
		return nil
	}
	return &Variant{ptr: p}
}

func (v *Variant) native() *C.GVariant {
	if v == nil || v.ptr == nil {
		panic("glib: nil GVariant handle")
	}
	return (*C.GVariant)(v.ptr)
}

// TupleSU decodes the variant as a "(su)" tuple. The string is read through
// a pointer borrowed from the variant and copied; the code is a plain value.
// The variant's type is not validated: decoding a differently shaped
// variant is undefined behavior, exactly as with g_variant_get. Panics if v
// is nil.
func (v *Variant) TupleSU() (string, uint32) {
	var strC *C.char
	var code C.guint32
	C._gvariant_get_su(v.native(), &strC, &code)
	return C.GoString(strC), uint32(code)
}

// Native returns the borrowed native pointer, or nil for an empty wrapper.
func (v *Variant) Native() unsafe.Pointer {
	if v == nil {
		return nil
	}
	return v.ptr
}

// Unref releases an owned variant. Borrowed wrappers are left untouched.
func (v *Variant) Unref() {
	if v == nil || v.ptr == nil || !v.owned {
		return
	}
	C.g_variant_unref((*C.GVariant)(v.ptr))
	v.ptr = nil
}

// HashTable wraps a native GHashTable.
type HashTable struct {
	ptr   unsafe.Pointer
	owned bool
}

// NewVariantTable creates an owned hash table keyed and valued by GVariants,
// the shape of the reachability sets ostree_repo_traverse_commit returns.
// The table holds a reference on every inserted variant.
func NewVariantTable() *HashTable {
	return &HashTable{ptr: unsafe.Pointer(C._gvariant_table_new()), owned: true}
}

// HashTableFromNative wraps a native GHashTable pointer. owned indicates
// whether the wrapper should release the table on Unref.
func HashTableFromNative(p unsafe.Pointer, owned bool) *HashTable {
	if p == nil {
		return nil
	}
	return &HashTable{ptr: p, owned: owned}
}

func (t *HashTable) native() *C.GHashTable {
	if t == nil || t.ptr == nil {
		panic("glib: nil GHashTable handle")
	}
	return (*C.GHashTable)(t.ptr)
}

// Insert adds a key/value pair, taking a new reference on both variants.
// key must not be nil; value may be nil for set-like tables.
func (t *HashTable) Insert(key, value *Variant) {
	k := C.g_variant_ref(key.native())
	var v *C.GVariant
	if value != nil {
		v = C.g_variant_ref(value.native())
	}
	C.g_hash_table_insert(t.native(), C.gpointer(k), C.gpointer(v))
}

// Len returns the number of entries.
func (t *HashTable) Len() int {
	return int(C.g_hash_table_size(t.native()))
}

// Iter returns an iterator positioned before the first entry. The table
// must not be mutated while the iterator is in use.
func (t *HashTable) Iter() *HashTableIter {
	it := &HashTableIter{}
	C.g_hash_table_iter_init(&it.iter, t.native())
	return it
}

// Unref drops an owned table, releasing its entries through the table's
// destroy functions. Borrowed wrappers are left untouched.
func (t *HashTable) Unref() {
	if t == nil || t.ptr == nil || !t.owned {
		return
	}
	C.g_hash_table_unref((*C.GHashTable)(t.ptr))
	t.ptr = nil
}

// HashTableIter is a cursor over a native hash table. The zero value is not
// usable; obtain iterators from HashTable.Iter.
type HashTableIter struct {
	iter C.GHashTableIter
}

// Next advances the iterator and returns the next key/value pair as
// borrowed native pointers, valid until the table is mutated or destroyed.
// ok is false once iteration is exhausted. Order is whatever the table
// defines; no guarantee is added here. Panics if it is nil.
func (it *HashTableIter) Next() (key, value unsafe.Pointer, ok bool) {
	if it == nil {
		panic("glib: nil GHashTableIter handle")
	}
	var k, v C.gpointer
	if C.g_hash_table_iter_next(&it.iter, &k, &v) == C.FALSE {
		return nil, nil, false
	}
	return unsafe.Pointer(k), unsafe.Pointer(v), true
}

// NextVariant advances the iterator over a variant-keyed table and returns
// the next pair as borrowed Variant wrappers. A nil value wrapper is
// returned for NULL values in set-like tables. Panics if it is nil.
func (it *HashTableIter) NextVariant() (key, value *Variant, ok bool) {
	if it == nil {
		panic("glib: nil GHashTableIter handle")
	}
	var k, v *C.GVariant
	if C._ghash_table_iter_next_variant(&it.iter, &k, &v) == C.FALSE {
		return nil, nil, false
	}
	return VariantFromNative(unsafe.Pointer(k)), VariantFromNative(unsafe.Pointer(v)), true
}

// CString copies s into a native allocation. Release with Free.
func CString(s string) unsafe.Pointer {
	return unsafe.Pointer(C.CString(s))
}

// StrDup duplicates a native NUL-terminated string with g_strdup and
// transfers the new allocation to the caller, who releases it with Free.
// A nil pointer yields nil, per g_strdup.
func StrDup(p unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(C._gstrdup(C.gpointer(p)))
}

// GoString copies a native NUL-terminated string into a Go string. A nil
// pointer yields the empty string.
func GoString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	return C.GoString((*C.char)(p))
}

// Free releases a native string or allocation handed out by this package.
func Free(p unsafe.Pointer) {
	C.g_free(C.gpointer(p))
}
