package graph

import "regexp"

// FallbackColor replaces palette entries that are not colour literals.
const FallbackColor = "#fff"

// LaneColors is the number of distinct lane colours; lanes wrap around it.
const LaneColors = 8

var colorLiteral = regexp.MustCompile(`(?i)^#([a-f0-9]{3}){1,2}$`)

// ValidColor reports whether s is a #rgb or #rrggbb literal.
func ValidColor(s string) bool {
	return colorLiteral.MatchString(s)
}

// Palette colours lanes and reference tags.
type Palette struct {
	Lanes []string
	Tag   string
}

var (
	lightLanes = []string{"#1e88e5", "#43a047", "#e53935", "#8e24aa", "#fb8c00", "#00897b", "#6d4c41", "#3949ab"}
	darkLanes  = []string{"#64b5f6", "#81c784", "#ef5350", "#ce93d8", "#ffb74d", "#4db6ac", "#bcaaa4", "#7986cb"}
)

func DefaultPalette(dark bool) Palette {
	if dark {
		return Palette{Lanes: append([]string(nil), darkLanes...), Tag: "#b0bec5"}
	}
	return Palette{Lanes: append([]string(nil), lightLanes...), Tag: "#78909c"}
}

// LaneColor returns the colour of lane, falling back to FallbackColor for
// missing or malformed entries.
func (p Palette) LaneColor(lane int) string {
	if lane < 0 {
		return FallbackColor
	}
	i := lane % LaneColors
	if i >= len(p.Lanes) || !ValidColor(p.Lanes[i]) {
		return FallbackColor
	}
	return p.Lanes[i]
}

// TagColor is the colour of non-branch reference labels.
func (p Palette) TagColor() string {
	if !ValidColor(p.Tag) {
		return FallbackColor
	}
	return p.Tag
}
