package repo

/*
#cgo pkg-config: ostree-1
#include <stdlib.h>
#include <glib.h>
#include <gio/gio.h>
#include <ostree.h>
#include "support.h"
*/
import "C"

import (
	"context"
	"path/filepath"
	"sort"
	"unsafe"

	"go.uber.org/zap"

	ostree "github.com/lirios/ostree-go"
	oerrors "github.com/lirios/ostree-go/errors"
	"github.com/lirios/ostree-go/glib"
)

// Repo is a handle to a local OSTree repository.
type Repo struct {
	path string
	ptr  unsafe.Pointer
}

func (r *Repo) native() *C.OstreeRepo {
	if r.ptr == nil {
		return nil
	}
	return (*C.OstreeRepo)(r.ptr)
}

// takeErr converts a GError filled in by a failed native call.
func takeErr(op string, errC *C.GError) error {
	return oerrors.Op(op, glib.TakeError(unsafe.Pointer(errC)))
}

// ctxErr is takeErr plus context attribution: a failure after the context
// was canceled is reported as a cancellation.
func ctxErr(ctx context.Context, op string, errC *C.GError) error {
	err := takeErr(op, errC)
	if ctx != nil && ctx.Err() != nil {
		return oerrors.Canceled(op, ctx.Err())
	}
	return err
}

func newNativeRepo(path string) (*C.OstreeRepo, error) {
	pathC := C.CString(path)
	defer C.free(unsafe.Pointer(pathC))

	repoPath := C.g_file_new_for_path(pathC)
	defer C.g_object_unref(C.gpointer(repoPath))

	repoC := C.ostree_repo_new(repoPath)
	if repoC == nil {
		return nil, oerrors.New(oerrors.KindNative).Detail("failed to allocate repository").Build()
	}
	return repoC, nil
}

// Open opens an existing repository at the given path.
func Open(path string) (*Repo, error) {
	if path == "" {
		return nil, oerrors.InvalidInput("open", "empty path")
	}

	repoC, err := newNativeRepo(path)
	if err != nil {
		return nil, oerrors.Op("open", err)
	}

	var errC *C.GError
	if C.ostree_repo_open(repoC, nil, &errC) == C.FALSE {
		C.g_object_unref(C.gpointer(repoC))
		return nil, takeErr("open", errC)
	}

	Logger().Debug("opened repository", zap.String("path", path))
	return &Repo{path: path, ptr: unsafe.Pointer(repoC)}, nil
}

// Create initializes a new repository at the given path in the given mode
// and returns an open handle to it.
func Create(path string, mode ostree.RepoMode) (*Repo, error) {
	if path == "" {
		return nil, oerrors.InvalidInput("create", "empty path")
	}
	modeC, err := nativeMode(mode)
	if err != nil {
		return nil, err
	}

	repoC, err := newNativeRepo(path)
	if err != nil {
		return nil, oerrors.Op("create", err)
	}

	var errC *C.GError
	if C.ostree_repo_create(repoC, modeC, nil, &errC) == C.FALSE {
		C.g_object_unref(C.gpointer(repoC))
		return nil, takeErr("create", errC)
	}

	Logger().Debug("created repository",
		zap.String("path", path),
		zap.String("mode", string(mode)))
	return &Repo{path: path, ptr: unsafe.Pointer(repoC)}, nil
}

// Close releases the native repository handle. The handle must not be used
// afterwards.
func (r *Repo) Close() {
	if r.ptr == nil {
		return
	}
	C.g_object_unref(C.gpointer(r.native()))
	r.ptr = nil
}

// Path returns the repository path.
func (r *Repo) Path() string {
	return r.path
}

// ObjectPath returns the on-disk path of the named object.
func (r *Repo) ObjectPath(objectName string) string {
	if len(objectName) < 2 {
		return ""
	}
	return filepath.Join(r.path, "objects", objectName[:2], objectName[2:])
}

func nativeMode(mode ostree.RepoMode) (C.OstreeRepoMode, error) {
	switch mode {
	case ostree.RepoModeBare:
		return C.OSTREE_REPO_MODE_BARE, nil
	case ostree.RepoModeArchive:
		return C.OSTREE_REPO_MODE_ARCHIVE, nil
	case ostree.RepoModeBareUser:
		return C.OSTREE_REPO_MODE_BARE_USER, nil
	case ostree.RepoModeBareUserOnly:
		return C.OSTREE_REPO_MODE_BARE_USER_ONLY, nil
	}
	return 0, oerrors.InvalidInput("create", "unknown repository mode "+string(mode))
}

// Mode returns the repository storage mode.
func (r *Repo) Mode() (ostree.RepoMode, error) {
	if r.ptr == nil {
		return "", oerrors.NotInitialized("mode")
	}

	switch C.ostree_repo_get_mode(r.native()) {
	case C.OSTREE_REPO_MODE_BARE:
		return ostree.RepoModeBare, nil
	case C.OSTREE_REPO_MODE_ARCHIVE:
		return ostree.RepoModeArchive, nil
	case C.OSTREE_REPO_MODE_BARE_USER:
		return ostree.RepoModeBareUser, nil
	case C.OSTREE_REPO_MODE_BARE_USER_ONLY:
		return ostree.RepoModeBareUserOnly, nil
	}
	return "", oerrors.New(oerrors.KindNative).Op("mode").Detail("unknown repository mode").Build()
}

// ListRefs lists all refs in the repository, sorted by name.
func (r *Repo) ListRefs() ([]string, error) {
	if r.ptr == nil {
		return nil, oerrors.NotInitialized("list refs")
	}

	var refsC *C.GHashTable
	var errC *C.GError
	if C.ostree_repo_list_refs(r.native(), nil, &refsC, nil, &errC) == C.FALSE {
		return nil, takeErr("list refs", errC)
	}

	table := glib.HashTableFromNative(unsafe.Pointer(refsC), true)
	defer table.Unref()

	refs := make([]string, 0, table.Len())
	it := table.Iter()
	for {
		key, _, ok := it.Next()
		if !ok {
			break
		}
		refs = append(refs, glib.GoString(key))
	}

	sort.Strings(refs)
	return refs, nil
}

// ListRevisions maps every ref to the revision it points at.
func (r *Repo) ListRevisions() (map[string]string, error) {
	refs, err := r.ListRefs()
	if err != nil {
		return nil, err
	}

	revs := make(map[string]string, len(refs))
	for _, ref := range refs {
		rev, err := r.ResolveRev(ref)
		if err != nil {
			return nil, err
		}
		revs[ref] = rev
	}
	return revs, nil
}

// ResolveRev returns the revision the given branch points at.
func (r *Repo) ResolveRev(branch string) (string, error) {
	if r.ptr == nil {
		return "", oerrors.NotInitialized("resolve rev")
	}

	branchC := C.CString(branch)
	defer C.free(unsafe.Pointer(branchC))

	var revC *C.char
	var errC *C.GError
	if C.ostree_repo_resolve_rev(r.native(), branchC, C.FALSE, &revC, &errC) == C.FALSE {
		return "", takeErr("resolve rev", errC)
	}

	rev := glib.GoString(unsafe.Pointer(revC))
	glib.Free(unsafe.Pointer(revC))
	return rev, nil
}

// ParentRev returns the revision of the parent commit, or an empty string
// for a commit without a parent.
func (r *Repo) ParentRev(rev string) (string, error) {
	if r.ptr == nil {
		return "", oerrors.NotInitialized("parent rev")
	}

	revC := C.CString(rev)
	defer C.free(unsafe.Pointer(revC))

	var variantC *C.GVariant
	var errC *C.GError
	if C.ostree_repo_load_variant_if_exists(r.native(), C.OSTREE_OBJECT_TYPE_COMMIT, revC, &variantC, &errC) == C.FALSE {
		return "", takeErr("parent rev", errC)
	}
	if variantC == nil {
		return "", oerrors.New(oerrors.KindNotFound).Op("parent rev").Detail("commit %s does not exist", rev).Build()
	}
	defer C.g_variant_unref(variantC)

	parentC := C.ostree_commit_get_parent(variantC)
	if parentC == nil {
		return "", nil
	}
	parent := glib.GoString(unsafe.Pointer(parentC))
	glib.Free(unsafe.Pointer(parentC))
	return parent, nil
}

// TraverseCommit returns the names of all objects reachable from the given
// commit, traversing at most maxDepth parent commits (-1 for no limit).
// File objects in archive repositories carry the compressed "filez" form.
func (r *Repo) TraverseCommit(ctx context.Context, rev string, maxDepth int) ([]string, error) {
	if r.ptr == nil {
		return nil, oerrors.NotInitialized("traverse commit")
	}

	mode, err := r.Mode()
	if err != nil {
		return nil, err
	}

	c := newCancellable(ctx)
	defer c.release()

	revC := C.CString(rev)
	defer C.free(unsafe.Pointer(revC))

	var reachableC *C.GHashTable
	var errC *C.GError
	if C.ostree_repo_traverse_commit(r.native(), revC, C.int(maxDepth), &reachableC, c.native(), &errC) == C.FALSE {
		return nil, ctxErr(ctx, "traverse commit", errC)
	}

	table := glib.HashTableFromNative(unsafe.Pointer(reachableC), true)
	defer table.Unref()

	names := make([]string, 0, table.Len())
	it := table.Iter()
	for {
		object, _, ok := it.NextVariant()
		if !ok {
			break
		}
		checksum, code := object.TupleSU()
		typ := ostree.ObjectType(code)
		name := ostree.FormatObjectName(checksum, typ)
		if typ == ostree.ObjectTypeFile && mode == ostree.RepoModeArchive {
			name += "z"
		}
		names = append(names, name)
	}

	Logger().Debug("traversed commit",
		zap.String("rev", rev),
		zap.Int("objects", len(names)))
	return names, nil
}

// PruneResult reports the outcome of a prune.
type PruneResult struct {
	TotalObjects  int
	PrunedObjects int
	BytesFreed    uint64
}

// Prune removes unreachable objects from the repository. With noPrune set
// it only reports what would be removed; with onlyRefs set only objects
// referenced by refs are kept alive.
func (r *Repo) Prune(ctx context.Context, noPrune, onlyRefs bool) (PruneResult, error) {
	var res PruneResult
	if r.ptr == nil {
		return res, oerrors.NotInitialized("prune")
	}

	var flags C.OstreeRepoPruneFlags = C.OSTREE_REPO_PRUNE_FLAGS_NONE
	if noPrune {
		flags |= C.OSTREE_REPO_PRUNE_FLAGS_NO_PRUNE
	}
	if onlyRefs {
		flags |= C.OSTREE_REPO_PRUNE_FLAGS_REFS_ONLY
	}

	c := newCancellable(ctx)
	defer c.release()

	var total, pruned C.gint
	var size C.guint64
	var errC *C.GError
	if C.ostree_repo_prune(r.native(), flags, -1, &total, &pruned, &size, c.native(), &errC) == C.FALSE {
		return res, ctxErr(ctx, "prune", errC)
	}

	res = PruneResult{
		TotalObjects:  int(total),
		PrunedObjects: int(pruned),
		BytesFreed:    uint64(size),
	}
	Logger().Debug("pruned repository",
		zap.Int("total", res.TotalObjects),
		zap.Int("pruned", res.PrunedObjects),
		zap.Uint64("bytes_freed", res.BytesFreed))
	return res, nil
}

// SetRefImmediate points ref at checksum for the given remote, without
// going through a transaction.
func (r *Repo) SetRefImmediate(remote, ref, checksum string) error {
	if r.ptr == nil {
		return oerrors.NotInitialized("set ref")
	}

	var remoteC *C.char
	if remote != "" {
		remoteC = C.CString(remote)
		defer C.free(unsafe.Pointer(remoteC))
	}
	refC := C.CString(ref)
	defer C.free(unsafe.Pointer(refC))
	checksumC := C.CString(checksum)
	defer C.free(unsafe.Pointer(checksumC))

	var errC *C.GError
	if C.ostree_repo_set_ref_immediate(r.native(), remoteC, refC, checksumC, nil, &errC) == C.FALSE {
		return takeErr("set ref", errC)
	}
	return nil
}

// RegenerateSummary rewrites the repository summary file.
func (r *Repo) RegenerateSummary(ctx context.Context) error {
	if r.ptr == nil {
		return oerrors.NotInitialized("regenerate summary")
	}

	c := newCancellable(ctx)
	defer c.release()

	var errC *C.GError
	if C.ostree_repo_regenerate_summary(r.native(), nil, c.native(), &errC) == C.FALSE {
		return ctxErr(ctx, "regenerate summary", errC)
	}
	return nil
}
