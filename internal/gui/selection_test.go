package gui

import (
	"testing"
	"time"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

func selectionStore(t *testing.T) *graph.Store {
	t.Helper()
	store := graph.NewStore(graph.WithTick(time.Hour))
	t.Cleanup(store.Close)
	store.AddAll(
		graph.RawCommit{ID: "a", Date: time.Unix(2, 0)},
		graph.RawCommit{ID: "b", Date: time.Unix(1, 0)},
	)
	return store
}

func TestSelectionStateRow(t *testing.T) {
	t.Parallel()
	store := selectionStore(t)
	commits := store.Commits()

	t.Run("empty", func(t *testing.T) {
		var sel selectionState
		if got := sel.row(commits); got != -1 {
			t.Fatalf("row() = %d, want -1", got)
		}
	})

	t.Run("direct-hit", func(t *testing.T) {
		var sel selectionState
		sel.set(store.Commit("b"))
		if got := sel.row(commits); got != 1 {
			t.Fatalf("row() = %d, want 1", got)
		}
	})

	t.Run("fallback-scan", func(t *testing.T) {
		var sel selectionState
		sel.set(store.Commit("b"))
		// The same commit sits at another row after a reload.
		if got := sel.row(commits[1:]); got != 0 {
			t.Fatalf("row() = %d, want 0", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		var sel selectionState
		sel.set(store.Commit("a"))
		if got := sel.row(commits[1:]); got != -1 {
			t.Fatalf("row() = %d, want -1", got)
		}
	})
}

func TestSelectionStateSet(t *testing.T) {
	t.Parallel()
	store := selectionStore(t)
	var sel selectionState
	if sel.set(nil) {
		t.Fatalf("set(nil) = true, want false")
	}
	if !sel.set(store.Commit("a")) {
		t.Fatalf("set(a) = false, want true")
	}
	if got := sel.commitID(); got != "a" {
		t.Fatalf("commitID() = %q, want %q", got, "a")
	}
	sel.clear()
	if got := sel.commitID(); got != "" {
		t.Fatalf("commitID() after clear = %q, want empty", got)
	}
}
