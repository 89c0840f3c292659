package repo_test

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	ostree "github.com/lirios/ostree-go"
	oerrors "github.com/lirios/ostree-go/errors"
	"github.com/lirios/ostree-go/repo"
)

var revPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ostreeBin skips the test when the ostree CLI, used to build commit
// fixtures, is not installed.
func ostreeBin(t *testing.T) string {
	t.Helper()
	bin, err := exec.LookPath("ostree")
	if err != nil {
		t.Skip("ostree binary not found in PATH")
	}
	return bin
}

func createRepo(t *testing.T, mode ostree.RepoMode) *repo.Repo {
	t.Helper()
	r, err := repo.Create(filepath.Join(t.TempDir(), "repo"), mode)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

// commitFixture commits the given files to branch and returns the new
// revision.
func commitFixture(t *testing.T, repoPath, branch string, files map[string]string) string {
	t.Helper()
	bin := ostreeBin(t)

	tree := t.TempDir()
	for name, content := range files {
		full := filepath.Join(tree, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := exec.Command(bin, "--repo="+repoPath, "commit", "--branch="+branch, "--tree=dir="+tree).CombinedOutput()
	if err != nil {
		t.Fatalf("ostree commit: %v\n%s", err, out)
	}

	rev := strings.TrimSpace(string(out))
	if !revPattern.MatchString(rev) {
		t.Fatalf("unexpected commit output %q", rev)
	}
	return rev
}

func TestCreateAndOpen(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)

	mode, err := r.Mode()
	if err != nil {
		t.Fatalf("mode: %v", err)
	}
	if mode != ostree.RepoModeArchive {
		t.Errorf("Mode() = %q, want %q", mode, ostree.RepoModeArchive)
	}

	refs, err := r.ListRefs()
	if err != nil {
		t.Fatalf("list refs: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("fresh repository has refs %v", refs)
	}

	reopened, err := repo.Open(r.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()
}

func TestOpenErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := repo.Open("")
		var se *oerrors.Error
		if !stderrors.As(err, &se) || se.Kind != oerrors.KindInvalidInput {
			t.Errorf("Open(\"\") = %v, want invalid_input", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := repo.Open(filepath.Join(t.TempDir(), "does-not-exist"))
		var se *oerrors.Error
		if !stderrors.As(err, &se) {
			t.Errorf("Open on missing dir = %v, want structured error", err)
		}
	})
}

func TestResolveRevMissing(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)

	_, err := r.ResolveRev("no-such-ref")
	var se *oerrors.Error
	if !stderrors.As(err, &se) {
		t.Fatalf("ResolveRev on missing ref = %v, want structured error", err)
	}
}

func TestCommitRefsAndRevisions(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	rev := commitFixture(t, r.Path(), "main", map[string]string{"hello.txt": "hello world\n"})

	refs, err := r.ListRefs()
	if err != nil {
		t.Fatalf("list refs: %v", err)
	}
	if len(refs) != 1 || refs[0] != "main" {
		t.Fatalf("ListRefs() = %v, want [main]", refs)
	}

	got, err := r.ResolveRev("main")
	if err != nil {
		t.Fatalf("resolve rev: %v", err)
	}
	if got != rev {
		t.Errorf("ResolveRev(main) = %q, want %q", got, rev)
	}

	revs, err := r.ListRevisions()
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if revs["main"] != rev {
		t.Errorf("ListRevisions()[main] = %q, want %q", revs["main"], rev)
	}
}

func TestParentRev(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	first := commitFixture(t, r.Path(), "main", map[string]string{"a.txt": "one\n"})
	second := commitFixture(t, r.Path(), "main", map[string]string{"a.txt": "two\n"})

	parent, err := r.ParentRev(second)
	if err != nil {
		t.Fatalf("parent rev: %v", err)
	}
	if parent != first {
		t.Errorf("ParentRev(%s) = %q, want %q", second, parent, first)
	}

	root, err := r.ParentRev(first)
	if err != nil {
		t.Fatalf("parent rev of first commit: %v", err)
	}
	if root != "" {
		t.Errorf("ParentRev of parentless commit = %q, want empty", root)
	}

	_, err = r.ParentRev(strings.Repeat("0", 64))
	if !oerrors.IsNotFound(err) {
		t.Errorf("ParentRev of unknown commit = %v, want not_found", err)
	}
}

func TestTraverseCommit(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	rev := commitFixture(t, r.Path(), "main", map[string]string{
		"hello.txt":     "hello world\n",
		"sub/inner.txt": "inner\n",
	})

	names, err := r.TraverseCommit(context.Background(), rev, 0)
	if err != nil {
		t.Fatalf("traverse commit: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("traverse returned no objects")
	}

	var sawCommit, sawFile bool
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			t.Errorf("object %q listed twice", name)
		}
		seen[name] = true

		checksum, typ, err := ostree.ParseObjectName(name)
		if err != nil {
			t.Errorf("unparseable object name %q: %v", name, err)
			continue
		}
		if !revPattern.MatchString(checksum) {
			t.Errorf("object %q has malformed checksum", name)
		}
		switch {
		case typ == ostree.ObjectTypeCommit && checksum == rev:
			sawCommit = true
		case typ == ostree.ObjectTypeFile:
			// archive repositories store file objects compressed
			if !strings.HasSuffix(name, ".filez") {
				t.Errorf("file object %q lacks filez suffix in archive mode", name)
			}
			sawFile = true
		}
	}
	if !sawCommit {
		t.Errorf("commit object %s.commit not in %v", rev, names)
	}
	if !sawFile {
		t.Errorf("no file objects in %v", names)
	}
}

func TestObjectPath(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)

	name := "ab" + strings.Repeat("c", 62) + ".commit"
	want := filepath.Join(r.Path(), "objects", "ab", strings.Repeat("c", 62)+".commit")
	if got := r.ObjectPath(name); got != want {
		t.Errorf("ObjectPath(%q) = %q, want %q", name, got, want)
	}

	if got := r.ObjectPath("a"); got != "" {
		t.Errorf("ObjectPath on short name = %q, want empty", got)
	}
}

func TestPruneDryRun(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	commitFixture(t, r.Path(), "main", map[string]string{"hello.txt": "hello world\n"})

	res, err := r.Prune(context.Background(), true, false)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if res.TotalObjects == 0 {
		t.Error("prune reported zero objects after a commit")
	}
	if res.PrunedObjects != 0 {
		t.Errorf("dry-run prune removed %d objects", res.PrunedObjects)
	}
}

func TestWalk(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	rev := commitFixture(t, r.Path(), "main", map[string]string{
		"hello.txt":     "hello world\n",
		"sub/inner.txt": "inner\n",
	})

	var bases []string
	err := r.Walk(context.Background(), rev, "/", func(path string) error {
		bases = append(bases, filepath.Base(path))
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	want := map[string]bool{"hello.txt": false, "sub": false, "inner.txt": false}
	for _, base := range bases {
		if _, ok := want[base]; ok {
			want[base] = true
		}
	}
	for base, found := range want {
		if !found {
			t.Errorf("walk did not visit %q (got %v)", base, bases)
		}
	}
}

func TestCheckout(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	rev := commitFixture(t, r.Path(), "main", map[string]string{"hello.txt": "hello world\n"})

	dest := filepath.Join(t.TempDir(), "co")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := r.Checkout(context.Background(), rev, "/", dest); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dest, "hello.txt"))
	if err != nil {
		t.Fatalf("read checked-out file: %v", err)
	}
	if string(content) != "hello world\n" {
		t.Errorf("checked-out content = %q", content)
	}
}

func TestSetRefImmediate(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	rev := commitFixture(t, r.Path(), "main", map[string]string{"hello.txt": "hello world\n"})

	if err := r.SetRefImmediate("", "mirror", rev); err != nil {
		t.Fatalf("set ref: %v", err)
	}

	got, err := r.ResolveRev("mirror")
	if err != nil {
		t.Fatalf("resolve new ref: %v", err)
	}
	if got != rev {
		t.Errorf("ResolveRev(mirror) = %q, want %q", got, rev)
	}
}

func TestRegenerateSummary(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	commitFixture(t, r.Path(), "main", map[string]string{"hello.txt": "hello world\n"})

	if err := r.RegenerateSummary(context.Background()); err != nil {
		t.Fatalf("regenerate summary: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.Path(), "summary")); err != nil {
		t.Errorf("summary file missing: %v", err)
	}
}

func TestClosedRepo(t *testing.T) {
	r := createRepo(t, ostree.RepoModeArchive)
	r.Close()

	_, err := r.ListRefs()
	var se *oerrors.Error
	if !stderrors.As(err, &se) || se.Kind != oerrors.KindNotInitialized {
		t.Errorf("ListRefs on closed repo = %v, want not_initialized", err)
	}
}
