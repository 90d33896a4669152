package git

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	repo *gitlib.Repository
	fs   billy.Filesystem
	wt   *gitlib.Worktree
	tick int
}

func newTestRepo(t *testing.T, st storage.Storer) *testRepo {
	t.Helper()
	fs := memfs.New()
	repo, err := gitlib.Init(st, fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, repo: repo, fs: fs, wt: wt}
}

func (r *testRepo) sig() *object.Signature {
	r.tick++
	return &object.Signature{Name: "Tester", Email: "test@example.com", When: epoch.Add(time.Duration(r.tick) * time.Minute)}
}

func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()
	require.NoError(r.t, util.WriteFile(r.fs, "file.txt", []byte(msg+"\n"), 0o644))
	_, err := r.wt.Add("file.txt")
	require.NoError(r.t, err)
	h, err := r.wt.Commit(msg, &gitlib.CommitOptions{Author: r.sig()})
	require.NoError(r.t, err)
	return h
}

func (r *testRepo) checkout(branch string, create bool) {
	r.t.Helper()
	require.NoError(r.t, r.wt.Checkout(&gitlib.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
		Force:  true,
	}))
}

// stash writes a stash-like commit object on top of parent without touching
// any branch.
func (r *testRepo) stash(parent plumbing.Hash, msg string) plumbing.Hash {
	r.t.Helper()
	base, err := r.repo.CommitObject(parent)
	require.NoError(r.t, err)
	sig := r.sig()
	c := &object.Commit{
		Author:       *sig,
		Committer:    *sig,
		Message:      msg,
		TreeHash:     base.TreeHash,
		ParentHashes: []plumbing.Hash{parent},
	}
	obj := r.repo.Storer.NewEncodedObject()
	require.NoError(r.t, c.Encode(obj))
	h, err := r.repo.Storer.SetEncodedObject(obj)
	require.NoError(r.t, err)
	require.NoError(r.t, r.repo.Storer.SetReference(plumbing.NewHashReference(stashRef, h)))
	return h
}

func byID(commits []graph.RawCommit) map[string]graph.RawCommit {
	out := make(map[string]graph.RawCommit, len(commits))
	for _, c := range commits {
		out[c.ID] = c
	}
	return out
}

func TestListCommitsAndStashes(t *testing.T) {
	r := newTestRepo(t, memory.NewStorage())
	a := r.commit("A")
	r.checkout("feature", true)
	f := r.commit("F\n\nfeature body")
	r.checkout("master", false)
	b := r.commit("B")
	s := r.stash(b, "WIP on master: 1234567 B")

	svc := New(r.repo, "/repo")
	commits, err := svc.ListCommitsAndStashes(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, commits, 4)

	ids := make([]string, len(commits))
	for i, c := range commits {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{b.String(), f.String(), a.String(), s.String()}, ids)

	got := byID(commits)
	assert.Equal(t, []string{a.String()}, got[f.String()].Parents)
	assert.Equal(t, "F", got[f.String()].Summary)
	assert.Equal(t, "F\n\nfeature body", strings.TrimRight(got[f.String()].Message, "\n"))
	assert.Equal(t, "Tester", got[b.String()].AuthorName)
	assert.True(t, got[s.String()].IsStash)
	assert.Equal(t, 0, got[s.String()].StashID)
	assert.False(t, got[b.String()].IsStash)
}

func TestListCommitsGlob(t *testing.T) {
	r := newTestRepo(t, memory.NewStorage())
	a := r.commit("A")
	r.checkout("feature", true)
	f := r.commit("F")
	r.checkout("master", false)
	r.commit("B")

	svc := New(r.repo, "/repo")
	for _, glob := range []string{"refs/heads/feature", "refs/heads/f*"} {
		commits, err := svc.ListCommitsAndStashes(context.Background(), glob)
		require.NoError(t, err, glob)
		ids := make([]string, len(commits))
		for i, c := range commits {
			ids[i] = c.ID
		}
		assert.Equal(t, []string{f.String(), a.String()}, ids, glob)
	}
}

func TestListCommitsCancelled(t *testing.T) {
	r := newTestRepo(t, memory.NewStorage())
	r.commit("A")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(r.repo, "/repo").ListCommitsAndStashes(ctx, "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStashReflog(t *testing.T) {
	st := filesystem.NewStorage(memfs.New(), cache.NewObjectLRUDefault())
	r := newTestRepo(t, st)
	base := r.commit("base")
	older := r.stash(base, "WIP on master: older")
	newer := r.stash(base, "WIP on master: newer")

	reflog := fmt.Sprintf(
		"%s %s Tester <test@example.com> 1709294400 +0000\tWIP on master: older\n"+
			"%s %s Tester <test@example.com> 1709294460 +0000\tWIP on master: newer\n",
		plumbing.ZeroHash, older, older, newer,
	)
	require.NoError(t, util.WriteFile(st.Filesystem(), stashReflog, []byte(reflog), 0o644))

	commits, err := New(r.repo, "/repo").ListCommitsAndStashes(context.Background(), "")
	require.NoError(t, err)
	got := byID(commits)
	require.Contains(t, got, newer.String())
	require.Contains(t, got, older.String())
	assert.Equal(t, 0, got[newer.String()].StashID)
	assert.Equal(t, 1, got[older.String()].StashID)
	assert.True(t, got[older.String()].IsStash)
}

func TestParseReflog(t *testing.T) {
	h1 := strings.Repeat("a", 40)
	h2 := strings.Repeat("b", 40)
	in := plumbing.ZeroHash.String() + " " + h1 + " A <a@b> 1 +0000\tfirst\n" +
		"garbage\n" +
		h1 + " " + h2 + " A <a@b> 2 +0000\tsecond\n"
	got, err := parseReflog(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{plumbing.NewHash(h2), plumbing.NewHash(h1)}, got)
}

func TestListReferences(t *testing.T) {
	r := newTestRepo(t, memory.NewStorage())
	a := r.commit("A")
	b := r.commit("B")
	_, err := r.repo.CreateTag("v1", a, &gitlib.CreateTagOptions{Tagger: r.sig(), Message: "release"})
	require.NoError(t, err)
	_, err = r.repo.CreateTag("light", b, nil)
	require.NoError(t, err)
	require.NoError(t, r.repo.Storer.SetReference(plumbing.NewHashReference("refs/remotes/origin/master", a)))
	require.NoError(t, r.repo.Storer.SetReference(plumbing.NewSymbolicReference("refs/remotes/origin/HEAD", "refs/remotes/origin/master")))
	r.stash(b, "WIP on master: B")

	got, err := New(r.repo, "/repo").ListReferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []RefTarget{
		{Name: "refs/heads/master", Hash: b.String()},
		{Name: "refs/remotes/origin/master", Hash: a.String()},
		{Name: "refs/tags/light", Hash: b.String()},
		{Name: "refs/tags/v1", Hash: a.String()},
	}, got)
}

func TestHeadNameAndCheckout(t *testing.T) {
	r := newTestRepo(t, memory.NewStorage())
	a := r.commit("A")
	r.checkout("feature", true)
	r.checkout("master", false)
	_, err := r.repo.CreateTag("v1", a, nil)
	require.NoError(t, err)

	svc := New(r.repo, "/repo")
	ctx := context.Background()
	head, err := svc.HeadName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/master", head)

	require.NoError(t, svc.Checkout(ctx, "refs/heads/feature"))
	head, err = svc.HeadName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/feature", head)

	require.ErrorIs(t, svc.Checkout(ctx, "refs/tags/v1"), ErrNotBranch)
	require.ErrorIs(t, svc.Checkout(ctx, "refs/remotes/origin/master"), ErrNotBranch)
}

func TestPerformRefOperation(t *testing.T) {
	r := newTestRepo(t, memory.NewStorage())
	err := New(r.repo, "/repo").PerformRefOperation(context.Background(), refs.OpMerge, "refs/heads/a", "refs/heads/b")
	require.ErrorIs(t, err, ErrNotImplemented)
	assert.Contains(t, err.Error(), "merge refs/heads/a into refs/heads/b")
}

func TestGlobMatcher(t *testing.T) {
	tests := []struct {
		glob, name string
		want       bool
	}{
		{"refs/*", "refs/heads/main", true},
		{"refs/*", "refs/remotes/origin/x", true},
		{"refs/heads/*", "refs/tags/v1", false},
		{"refs/heads", "refs/heads/main", true},
		{"refs/heads", "refs/headsup", false},
		{"refs/tags/v?", "refs/tags/v1", true},
		{"refs/tags/v?", "refs/tags/v10", false},
	}
	for _, tt := range tests {
		match, err := globMatcher(tt.glob)
		require.NoError(t, err)
		assert.Equal(t, tt.want, match(tt.name), "%s ~ %s", tt.glob, tt.name)
	}
}
