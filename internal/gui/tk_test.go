package gui

import "testing"

func TestTclList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		items []string
		want  string
	}{
		{items: []string{"a", "b c"}, want: "{a} {b c}"},
		{items: []string{""}, want: "{}"},
		{items: []string{"x}y", `p\q`}, want: `{x\}y} {p\\q}`},
		{items: []string{"{open"}, want: `{\{open}`},
	}
	for _, tt := range tests {
		if got := tclList(tt.items...); got != tt.want {
			t.Fatalf("tclList(%q) = %q, want %q", tt.items, got, tt.want)
		}
	}
}

func TestTkFloat(t *testing.T) {
	t.Parallel()
	if got := tkFloat(" 12.5\n"); got != 12.5 {
		t.Fatalf("tkFloat = %v, want 12.5", got)
	}
	if got := tkFloat("nope"); got != 0 {
		t.Fatalf("tkFloat(nope) = %v, want 0", got)
	}
}
