package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Geometry(); got != graph.DefaultGeometry() {
		t.Fatalf("Geometry() = %+v, want defaults", got)
	}
	if cfg.Layout.PlacementTimeout.Duration != 30*time.Second {
		t.Fatalf("PlacementTimeout = %v, want 30s", cfg.Layout.PlacementTimeout)
	}
	if cfg.UI.StashDisplayName != "Stash" {
		t.Fatalf("StashDisplayName = %q", cfg.UI.StashDisplayName)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[layout]
tick = "5ms"
placement_timeout = "2s"
lane_width = 16

[theme]
mode = "dark"
colors = ["#000", "nope"]
tag_color = "#abc"

[ui]
recents = ["/a", "/b"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Tick.Duration != 5*time.Millisecond || cfg.Layout.PlacementTimeout.Duration != 2*time.Second {
		t.Fatalf("durations = %v, %v", cfg.Layout.Tick, cfg.Layout.PlacementTimeout)
	}
	geom := cfg.Geometry()
	if geom.LaneWidth != 16 || geom.RowHeight != graph.DefaultGeometry().RowHeight {
		t.Fatalf("Geometry() = %+v", geom)
	}
	if !cfg.Dark() {
		t.Fatalf("Dark() = false for mode dark")
	}
	p := cfg.Palette(true)
	if p.LaneColor(0) != "#000" || p.LaneColor(1) != graph.FallbackColor || p.TagColor() != "#abc" {
		t.Fatalf("Palette() = %+v", p)
	}
	if p.LaneColor(2) != graph.DefaultPalette(true).LaneColor(2) {
		t.Fatalf("unset palette entry changed")
	}
	if got, want := cfg.UI.Recents, []string{"/a", "/b"}; !slices.Equal(got, want) {
		t.Fatalf("Recents = %v, want %v", got, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\ntick = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load() error = nil, want parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.AddRecent("/repo")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(got.UI.Recents, []string{"/repo"}) || got.Layout.Tick != cfg.Layout.Tick {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestAddRecent(t *testing.T) {
	t.Parallel()
	var cfg Config
	for i := range 10 {
		cfg.AddRecent(string(rune('a' + i)))
	}
	cfg.AddRecent("e")
	want := []string{"e", "j", "i", "h", "g", "f", "d", "c"}
	if !slices.Equal(cfg.UI.Recents, want) {
		t.Fatalf("Recents = %v, want %v", cfg.UI.Recents, want)
	}
}

func TestDarkAuto(t *testing.T) {
	orig := detectDarkMode
	t.Cleanup(func() { detectDarkMode = orig })

	cfg := Default()
	detectDarkMode = func() (bool, error) { return true, nil }
	if !cfg.Dark() {
		t.Fatalf("Dark() = false, want detected dark")
	}
	detectDarkMode = func() (bool, error) { return true, errors.New("no desktop") }
	if cfg.Dark() {
		t.Fatalf("Dark() = true on detection error")
	}
	cfg.Theme.Mode = "LIGHT"
	if cfg.Dark() {
		t.Fatalf("Dark() = true for light mode")
	}
}
