package repo

/*
#include <stdlib.h>
#include <glib.h>
#include <gio/gio.h>
#include <ostree.h>
#include "support.h"
*/
import "C"

import (
	"context"
	"unsafe"

	"go.uber.org/zap"

	oerrors "github.com/lirios/ostree-go/errors"
	"github.com/lirios/ostree-go/glib"
)

// WalkFunc is called by Walk with the absolute path of each file below the
// walk root.
type WalkFunc func(path string) error

const fileQueryAttrs = "standard::name,standard::type,standard::size,standard::is-symlink,standard::symlink-target,unix::device,unix::inode,unix::mode,unix::uid,unix::gid,unix::rdev"

// readCommitRoot resolves rev and returns the root GFile of its tree. The
// caller unrefs the result.
func (r *Repo) readCommitRoot(rev string, c *cancellable) (*C.GFile, error) {
	revC := C.CString(rev)
	defer C.free(unsafe.Pointer(revC))

	var root *C.GFile
	var commitC *C.char
	var errC *C.GError
	if C.ostree_repo_read_commit(r.native(), revC, &root, &commitC, c.native(), &errC) == C.FALSE {
		return nil, takeErr("read commit", errC)
	}
	glib.Free(unsafe.Pointer(commitC))
	return root, nil
}

// Walk walks path inside the tree of rev and calls fn for every entry.
// Walking a non-directory path is a no-op.
func (r *Repo) Walk(ctx context.Context, rev, path string, fn WalkFunc) error {
	if r.ptr == nil {
		return oerrors.NotInitialized("walk")
	}

	c := newCancellable(ctx)
	defer c.release()

	root, err := r.readCommitRoot(rev, c)
	if err != nil {
		return err
	}
	defer C.g_object_unref(C.gpointer(root))

	pathC := C.CString(path)
	defer C.free(unsafe.Pointer(pathC))
	start := C.g_file_resolve_relative_path(root, pathC)
	defer C.g_object_unref(C.gpointer(start))

	attrsC := C.CString(fileQueryAttrs)
	defer C.free(unsafe.Pointer(attrsC))

	var errC *C.GError
	info := C.g_file_query_info(start, attrsC, C.G_FILE_QUERY_INFO_NOFOLLOW_SYMLINKS, c.native(), &errC)
	if info == nil {
		return ctxErr(ctx, "walk", errC)
	}
	defer C.g_object_unref(C.gpointer(info))

	if C.g_file_info_get_file_type(info) != C.G_FILE_TYPE_DIRECTORY {
		return nil
	}
	return r.walkDir(ctx, c, start, fn)
}

func (r *Repo) walkDir(ctx context.Context, c *cancellable, dir *C.GFile, fn WalkFunc) error {
	attrsC := C.CString("standard::name,standard::type")
	defer C.free(unsafe.Pointer(attrsC))

	var errC *C.GError
	enumerator := C.g_file_enumerate_children(dir, attrsC, C.G_FILE_QUERY_INFO_NOFOLLOW_SYMLINKS, c.native(), &errC)
	if enumerator == nil {
		return ctxErr(ctx, "walk", errC)
	}
	defer C.g_object_unref(C.gpointer(enumerator))

	for {
		info := C.g_file_enumerator_next_file(enumerator, c.native(), &errC)
		if info == nil {
			if errC != nil {
				return ctxErr(ctx, "walk", errC)
			}
			return nil
		}

		child := C.g_file_enumerator_get_child(enumerator, info)
		childPath := C.g_file_get_path(child)
		err := fn(glib.GoString(unsafe.Pointer(childPath)))
		glib.Free(unsafe.Pointer(childPath))

		if err == nil && C.g_file_info_get_file_type(info) == C.G_FILE_TYPE_DIRECTORY {
			err = r.walkDir(ctx, c, child, fn)
		}

		C.g_object_unref(C.gpointer(child))
		C.g_object_unref(C.gpointer(info))

		if err != nil {
			return err
		}
	}
}

// Checkout checks out path from the tree of rev into destPath in user mode.
func (r *Repo) Checkout(ctx context.Context, rev, path, destPath string) error {
	if r.ptr == nil {
		return oerrors.NotInitialized("checkout")
	}

	c := newCancellable(ctx)
	defer c.release()

	root, err := r.readCommitRoot(rev, c)
	if err != nil {
		return err
	}
	defer C.g_object_unref(C.gpointer(root))

	pathC := C.CString(path)
	defer C.free(unsafe.Pointer(pathC))
	subtree := C.g_file_resolve_relative_path(root, pathC)
	defer C.g_object_unref(C.gpointer(subtree))

	attrsC := C.CString(fileQueryAttrs)
	defer C.free(unsafe.Pointer(attrsC))

	var errC *C.GError
	info := C.g_file_query_info(subtree, attrsC, C.G_FILE_QUERY_INFO_NOFOLLOW_SYMLINKS, c.native(), &errC)
	if info == nil {
		return ctxErr(ctx, "checkout", errC)
	}
	defer C.g_object_unref(C.gpointer(info))

	destC := C.CString(destPath)
	defer C.free(unsafe.Pointer(destC))
	dest := C.g_file_new_for_path(destC)
	defer C.g_object_unref(C.gpointer(dest))

	if C.ostree_repo_checkout_tree(r.native(), C.OSTREE_REPO_CHECKOUT_MODE_USER, 0, dest, C._ostree_repo_file(subtree), info, c.native(), &errC) == C.FALSE {
		return ctxErr(ctx, "checkout", errC)
	}

	Logger().Debug("checked out tree",
		zap.String("rev", rev),
		zap.String("path", path),
		zap.String("dest", destPath))
	return nil
}
