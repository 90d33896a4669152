package refs

import (
	"slices"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want Type
		ok   bool
	}{
		{name: "refs/heads/main", want: LocalBranch, ok: true},
		{name: "refs/heads/feature/x", want: LocalBranch, ok: true},
		{name: "refs/remotes/origin/main", want: Remote, ok: true},
		{name: "refs/tags/v1.0.0", want: Tag, ok: true},
		{name: "refs/stash", want: Stash, ok: true},
		{name: "refs/stash/0123abc", want: Stash, ok: true},
		{name: "refs/heads", want: LocalBranch, ok: true},
		{name: "refs/headsup/x", want: Unknown},
		{name: "refs/notes/commits", want: Unknown},
		{name: "HEAD", want: Unknown},
		{name: "", want: Unknown},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Classify(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifyIsExclusive(t *testing.T) {
	t.Parallel()
	for _, typ := range Types() {
		name := typ.Prefix() + "x"
		matches := 0
		for _, other := range Types() {
			if strings.HasPrefix(name, other.Prefix()) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("%q has %d type prefixes, want 1", name, matches)
		}
		if got, _ := Classify(name); got != typ {
			t.Fatalf("Classify(%q) = %v, want %v", name, got, typ)
		}
	}
}

func TestTypeAttributes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typ    Type
		simple string
		order  int
		branch bool
	}{
		{LocalBranch, "heads", 1, true},
		{Remote, "remotes", 2, true},
		{Tag, "tags", 3, false},
		{Stash, "stash", 4, false},
	}
	for _, tt := range tests {
		if got := tt.typ.SimpleName(); got != tt.simple {
			t.Errorf("%v.SimpleName() = %q, want %q", tt.typ, got, tt.simple)
		}
		if got := tt.typ.Order(); got != tt.order {
			t.Errorf("%v.Order() = %d, want %d", tt.typ, got, tt.order)
		}
		if got := tt.typ.IsBranch(); got != tt.branch {
			t.Errorf("%v.IsBranch() = %v, want %v", tt.typ, got, tt.branch)
		}
	}
}

func TestOperationMatrix(t *testing.T) {
	t.Parallel()
	want := map[[2]Type]OpKind{
		{LocalBranch, LocalBranch}: OpMerge,
		{LocalBranch, Remote}:      OpPush,
		{Remote, LocalBranch}:      OpPull,
		{Stash, LocalBranch}:       OpApply,
	}
	for _, from := range Types() {
		for _, to := range Types() {
			got, ok := Operation(from, to)
			exp, expOK := want[[2]Type{from, to}]
			if got != exp || ok != expOK {
				t.Errorf("Operation(%v, %v) = %v, %v, want %v, %v", from, to, got, ok, exp, expOK)
			}
		}
	}
	if Tag.Applicable() {
		t.Fatalf("Tag.Applicable() = true, want false")
	}
	if got, want := LocalBranch.ApplicableTypes(), []Type{LocalBranch, Remote}; !slices.Equal(got, want) {
		t.Fatalf("LocalBranch.ApplicableTypes() = %v, want %v", got, want)
	}
	if got := OpApply.String(); got != "apply" {
		t.Fatalf("OpApply.String() = %q", got)
	}
}
