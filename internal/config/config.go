// Package config loads the gitlanes settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

// MaxRecents caps the recent repositories list.
const MaxRecents = 8

type Config struct {
	Layout Layout `toml:"layout"`
	Theme  Theme  `toml:"theme"`
	UI     UI     `toml:"ui"`
}

type Layout struct {
	Tick             Duration `toml:"tick"`
	PlacementTimeout Duration `toml:"placement_timeout"`
	RowHeight        float64  `toml:"row_height"`
	LaneWidth        float64  `toml:"lane_width"`
	Radius           float64  `toml:"radius"`
	LabelGap         float64  `toml:"label_gap"`
}

type Theme struct {
	Mode     string   `toml:"mode"`
	Colors   []string `toml:"colors"`
	TagColor string   `toml:"tag_color"`
}

type UI struct {
	StashDisplayName string   `toml:"stash_display_name"`
	Recents          []string `toml:"recents"`
}

// Duration is a time.Duration written as a string, e.g. "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() Config {
	geom := graph.DefaultGeometry()
	return Config{
		Layout: Layout{
			Tick:             Duration{graph.DefaultTick},
			PlacementTimeout: Duration{30 * time.Second},
			RowHeight:        geom.RowHeight,
			LaneWidth:        geom.LaneWidth,
			Radius:           geom.Radius,
			LabelGap:         geom.LabelGap,
		},
		Theme: Theme{Mode: ThemeAuto.String()},
		UI:    UI{StashDisplayName: "Stash"},
	}
}

// DefaultPath is config.toml below the user configuration directory
// ($XDG_CONFIG_HOME on Linux).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "gitlanes", "config.toml"), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.UI.Recents) > MaxRecents {
		cfg.UI.Recents = cfg.UI.Recents[:MaxRecents]
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// AddRecent moves path to the front of the recent repositories.
func (c *Config) AddRecent(path string) {
	recents := slices.DeleteFunc(slices.Clone(c.UI.Recents), func(p string) bool { return p == path })
	recents = append([]string{path}, recents...)
	if len(recents) > MaxRecents {
		recents = recents[:MaxRecents]
	}
	c.UI.Recents = recents
}

// Geometry converts the layout section; unset values keep their defaults.
func (c Config) Geometry() graph.Geometry {
	def := graph.DefaultGeometry()
	g := graph.Geometry{
		RowHeight: c.Layout.RowHeight,
		LaneWidth: c.Layout.LaneWidth,
		Radius:    c.Layout.Radius,
		LabelGap:  c.Layout.LabelGap,
	}
	if g.RowHeight <= 0 {
		g.RowHeight = def.RowHeight
	}
	if g.LaneWidth <= 0 {
		g.LaneWidth = def.LaneWidth
	}
	if g.Radius <= 0 {
		g.Radius = def.Radius
	}
	if g.LabelGap <= 0 {
		g.LabelGap = def.LabelGap
	}
	return g
}

// Palette builds the lane palette. Configured colours replace the defaults
// entry by entry; malformed entries fall back when drawn.
func (c Config) Palette(dark bool) graph.Palette {
	p := graph.DefaultPalette(dark)
	for i, color := range c.Theme.Colors {
		if i >= graph.LaneColors {
			break
		}
		p.Lanes[i] = color
	}
	if c.Theme.TagColor != "" {
		p.Tag = c.Theme.TagColor
	}
	return p
}
