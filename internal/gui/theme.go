package gui

import (
	"log/slog"

	. "modernc.org/tk9.0"
	_ "modernc.org/tk9.0/themes/azure" // load theme
)

type colorPalette struct {
	ThemeName  string
	Background string
	Text       string
	Selection  string
	GroupRow   string
}

var (
	lightPalette = colorPalette{
		ThemeName:  "azure light",
		Background: "#ffffff",
		Text:       "#333333",
		Selection:  "#cfe7ff",
		GroupRow:   "#e4e4e4",
	}
	darkPalette = colorPalette{
		ThemeName:  "azure dark",
		Background: "#1e1e1e",
		Text:       "#dddddd",
		Selection:  "#253446",
		GroupRow:   "#2f2f2f",
	}
)

func paletteFor(dark bool) colorPalette {
	if dark {
		return darkPalette
	}
	return lightPalette
}

func (p colorPalette) activate() {
	if p.ThemeName == "" {
		return
	}
	if err := ActivateTheme(p.ThemeName); err != nil {
		slog.Error("activate theme",
			slog.String("theme", p.ThemeName),
			slog.Any("error", err),
		)
	}
}
