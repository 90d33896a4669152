package gui

import (
	"sync/atomic"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

type selectionSnapshot struct {
	id  string
	row int
}

// selectionState remembers the selected commit across redraws and reloads.
type selectionState struct {
	snapshot atomic.Pointer[selectionSnapshot]
}

func (s *selectionState) value() selectionSnapshot {
	if snap := s.snapshot.Load(); snap != nil {
		return *snap
	}
	return selectionSnapshot{row: -1}
}

func (s *selectionState) clear() {
	s.snapshot.Store(nil)
}

func (s *selectionState) set(n *graph.Node) bool {
	if n == nil || n.Index() < 0 {
		s.clear()
		return false
	}
	s.snapshot.Store(&selectionSnapshot{id: n.ID, row: n.Index()})
	return true
}

func (s *selectionState) commitID() string {
	return s.value().id
}

// row finds the selected commit in commits, trying the remembered row first.
func (s *selectionState) row(commits []*graph.Node) int {
	snap := s.value()
	if snap.id == "" {
		return -1
	}
	if snap.row >= 0 && snap.row < len(commits) && commits[snap.row].ID == snap.id {
		return snap.row
	}
	for i, n := range commits {
		if n.ID == snap.id {
			return i
		}
	}
	return -1
}
