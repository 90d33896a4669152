package session

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

func raw(id string, unix int64, parents ...string) graph.RawCommit {
	return graph.RawCommit{ID: id, Summary: "commit " + id, Date: time.Unix(unix, 0), Parents: parents}
}

func historyRepo() *fakeRepository {
	return &fakeRepository{
		listCommitsFunc: func(string) ([]graph.RawCommit, error) {
			return []graph.RawCommit{
				raw("a", 1),
				raw("b", 2, "a"),
				raw("c", 3, "b"),
				{ID: "s", Summary: "WIP on main: 1234567 c", Date: time.Unix(4, 0), Parents: []string{"c"}, IsStash: true},
			}, nil
		},
		listRefsFunc: func() ([]git.RefTarget, error) {
			return []git.RefTarget{
				{Name: "refs/heads/main", Hash: "c"},
				{Name: "refs/heads/old", Hash: "a"},
				{Name: "refs/tags/v1", Hash: "b"},
				{Name: "refs/tags/dangling", Hash: "zzz"},
			}, nil
		},
		headNameFunc: func() (string, error) { return "refs/heads/main", nil },
		checkoutFunc: func(string) error { return nil },
	}
}

func settle(t *testing.T, gen *Generation) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gen.Settle(ctx); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	repo := historyRepo()
	s := New(repo, Options{Glob: "refs/heads/*", PlacementTimeout: 50 * time.Millisecond})
	t.Cleanup(s.Clear)

	var loaded []*Generation
	s.OnLoad(func(g *Generation) { loaded = append(loaded, g) })

	gen, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	settle(t, gen)

	if repo.lastGlob != "refs/heads/*" {
		t.Fatalf("glob = %q, want refs/heads/*", repo.lastGlob)
	}
	if len(loaded) != 1 || loaded[0] != gen || s.Current() != gen {
		t.Fatalf("OnLoad/Current mismatch")
	}
	if got := gen.Store.Len(); got != 4 {
		t.Fatalf("Store.Len() = %d, want 4", got)
	}

	var names []string
	for _, r := range gen.Registry.Refs() {
		names = append(names, r.Name)
	}
	slices.Sort(names)
	want := []string{"refs/heads/main", "refs/heads/old", "refs/stash/s", "refs/tags/v1"}
	if !slices.Equal(names, want) {
		t.Fatalf("registered refs = %v, want %v", names, want)
	}
	stash, _ := gen.Registry.Lookup("refs/stash/s")
	if stash.DisplayName != "Stash 0" {
		t.Fatalf("stash DisplayName = %q, want Stash 0", stash.DisplayName)
	}
	if cur, ok := gen.Registry.Checkedout(); !ok || cur.Name != "refs/heads/main" {
		t.Fatalf("Checkedout() = %v, %v", cur.Name, ok)
	}
	unplaced := gen.Unplaced()
	if len(unplaced) != 1 || unplaced[0].Name != "refs/tags/dangling" || !errors.Is(unplaced[0].Err, refs.ErrUnplaced) {
		t.Fatalf("Unplaced() = %+v", unplaced)
	}
}

func TestLoadSkipsReferencesOutsideHistory(t *testing.T) {
	t.Parallel()
	repo := historyRepo()
	repo.listCommitsFunc = func(string) ([]graph.RawCommit, error) {
		return []graph.RawCommit{raw("a", 1)}, nil
	}
	s := New(repo, Options{Glob: "refs/heads/old", PlacementTimeout: time.Hour})
	t.Cleanup(s.Clear)

	gen, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	settle(t, gen)

	if _, ok := gen.Registry.Lookup("refs/heads/old"); !ok {
		t.Fatalf("refs/heads/old not registered")
	}
	var names []string
	for _, u := range gen.Unplaced() {
		if !errors.Is(u.Err, graph.ErrNotInStore) {
			t.Fatalf("Unplaced(%s) error = %v, want %v", u.Name, u.Err, graph.ErrNotInStore)
		}
		names = append(names, u.Name)
	}
	slices.Sort(names)
	if want := []string{"refs/heads/main", "refs/tags/dangling", "refs/tags/v1"}; !slices.Equal(names, want) {
		t.Fatalf("Unplaced() = %v, want %v", names, want)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	repo := historyRepo()
	repo.listRefsFunc = func() ([]git.RefTarget, error) { return nil, boom }
	s := New(repo, Options{})

	if _, err := s.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v, want %v", err, boom)
	}
	if s.Current() != nil {
		t.Fatalf("Current() set after failed load")
	}
}

func TestReloadDiscardsGeneration(t *testing.T) {
	t.Parallel()
	s := New(historyRepo(), Options{})
	t.Cleanup(s.Clear)

	first, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	settle(t, first)
	second, err := s.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if first.Store.Generation() == second.Store.Generation() {
		t.Fatalf("Reload() kept generation %s", first.Store.Generation())
	}
	if _, err := first.Store.Placed(context.Background(), "a"); !errors.Is(err, graph.ErrStoreClosed) {
		t.Fatalf("old store Placed() error = %v, want %v", err, graph.ErrStoreClosed)
	}
	settle(t, second)

	s.Clear()
	if s.Current() != nil {
		t.Fatalf("Current() after Clear = %v", s.Current())
	}
}

func TestCheckoutMovesIndicator(t *testing.T) {
	t.Parallel()
	repo := historyRepo()
	s := New(repo, Options{})
	t.Cleanup(s.Clear)
	gen, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	settle(t, gen)

	changed, err := s.Checkout(context.Background(), "refs/heads/old")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if repo.lastCheckout != "refs/heads/old" {
		t.Fatalf("repository checkout = %q", repo.lastCheckout)
	}
	if len(changed) != 2 || changed[0].Name != "refs/heads/main" || !changed[1].Tag.Checkedout {
		t.Fatalf("changed = %+v", changed)
	}

	boom := errors.New("dirty worktree")
	repo.checkoutFunc = func(string) error { return boom }
	if _, err := s.Checkout(context.Background(), "refs/heads/main"); !errors.Is(err, boom) {
		t.Fatalf("Checkout() error = %v, want %v", err, boom)
	}
	if cur, _ := gen.Registry.Checkedout(); cur.Name != "refs/heads/old" {
		t.Fatalf("failed checkout moved indicator to %s", cur.Name)
	}
}

func TestDrop(t *testing.T) {
	t.Parallel()
	repo := historyRepo()
	s := New(repo, Options{})

	err := s.Drop(context.Background(), "refs/stash/s", "refs/heads/main")
	if !errors.Is(err, git.ErrNotImplemented) {
		t.Fatalf("Drop() error = %v, want %v", err, git.ErrNotImplemented)
	}
	if len(repo.ops) != 1 || repo.ops[0] != (opCall{refs.OpApply, "refs/stash/s", "refs/heads/main"}) {
		t.Fatalf("ops = %v", repo.ops)
	}
	if err := s.Drop(context.Background(), "refs/tags/v1", "refs/heads/main"); !errors.Is(err, refs.ErrNotApplicable) {
		t.Fatalf("Drop(tag) error = %v, want %v", err, refs.ErrNotApplicable)
	}
}
