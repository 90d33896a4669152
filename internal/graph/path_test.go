package graph

import (
	"strings"
	"testing"
)

const glyphAt12x12 = "M 8 12 a 4 4 0 1 0 8 0 a 4 4 0 1 0 -8 0 Z"

func TestPathLinear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddAll(commit("b", 1), commit("a", 2, "b"))
	flush(t, s)

	if got := s.Commit("a").Path().String(); got != glyphAt12x12 {
		t.Fatalf("a path = %q, want %q", got, glyphAt12x12)
	}
	want := "M 12 32 V 16 M 8 36 a 4 4 0 1 0 8 0 a 4 4 0 1 0 -8 0 Z"
	if got := s.Commit("b").Path().String(); got != want {
		t.Fatalf("b path = %q, want %q", got, want)
	}
	if got := s.Commit("b").Position(); got != (Point{X: 12, Y: 36}) {
		t.Fatalf("b.Position() = %v, want {12 36}", got)
	}
}

func TestPathSplit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddAll(commit("s", 1), commit("c2", 2, "s"), commit("c1", 3, "s"))
	flush(t, s)

	p := s.Commit("s").Path()
	want := "M 12 56 V 16 M 16 60 H 16 Q 32 60 32 40 V 40"
	if got := p.EdgeData(); got != want {
		t.Fatalf("s edges = %q, want %q", got, want)
	}

	lines := p.Polylines(4)
	if len(lines) != 2 {
		t.Fatalf("Polylines() = %d lines, want 2", len(lines))
	}
	if got := lines[0]; len(got) != 2 || got[0] != (Point{12, 56}) || got[1] != (Point{12, 16}) {
		t.Fatalf("first polyline = %v", got)
	}
	peel := lines[1]
	if peel[0] != (Point{16, 60}) || peel[len(peel)-1] != (Point{32, 40}) {
		t.Fatalf("peel-off polyline = %v, want from {16 60} to {32 40}", peel)
	}
}

func TestPathHeadMerge(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddAll(commit("p2", 2), commit("p1", 3), commit("m", 4, "p1", "p2"))
	flush(t, s)

	want := "M 32 56 V 32 Q 32 12 16 12 H 16 M 28 60 a 4 4 0 1 0 8 0 a 4 4 0 1 0 -8 0 Z"
	if got := s.Commit("p2").Path().String(); got != want {
		t.Fatalf("p2 path = %q, want %q", got, want)
	}
	if got := s.Commit("p1").Path().EdgeData(); got != "M 12 32 V 16" {
		t.Fatalf("p1 edges = %q, want mainline segment", got)
	}
}

func TestPathStash(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddAll(
		commit("base", 1),
		RawCommit{ID: "stash", Summary: "WIP on main: x", Date: commit("", 2).Date, Parents: []string{"base", "index"}, IsStash: true},
	)
	flush(t, s)

	p := s.Commit("stash").Path()
	if p.Glyph.Kind != GlyphStash || len(p.Segments) != 0 {
		t.Fatalf("stash path = %+v, want stash glyph without edges", p)
	}
	if got, prefix := p.String(), "M 12 7 c-2.765,0,-5,2.235,-5,5s2.235,5,5,5"; !strings.HasPrefix(got, prefix) {
		t.Fatalf("stash path = %q, want prefix %q", got, prefix)
	}
	if got := s.Commit("base").Path().EdgeData(); got != "M 12 32 V 16" {
		t.Fatalf("base edges = %q, want segment to stash", got)
	}
}

func TestScalePathData(t *testing.T) {
	t.Parallel()
	got := scalePathData("m5,13.59l-1.41,1.41z", 0.5)
	if want := "m2.5,6.795l-0.705,0.705z"; got != want {
		t.Fatalf("scalePathData() = %q, want %q", got, want)
	}
}
