package channelstatus

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Color is a display colour token: a hex RGB value or a named neutral.
type Color string

// DefaultColor is used for any status outside the palette.
const DefaultColor Color = "grey"

var palette = map[string]Color{
	"excellent": "#00B26A",
	"good":      "#3EC7A6",
	"fair":      "#FFC247",
	"poor":      "#F77F00",
	"offline":   "#D7263D",
}

// ColorOf looks the status up case-insensitively and never fails.
func ColorOf(status Status) Color {
	if c, ok := palette[strings.ToLower(string(status))]; ok {
		return c
	}
	return DefaultColor
}

// RGB splits a hex colour token. Named colours report ok=false.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// TerminalColors approximates the palette with ANSI colours for tables.
func TerminalColors(status Status) text.Colors {
	switch strings.ToLower(string(status)) {
	case "excellent":
		return text.Colors{text.FgHiGreen}
	case "good":
		return text.Colors{text.FgGreen}
	case "fair":
		return text.Colors{text.FgHiYellow}
	case "poor":
		return text.Colors{text.FgYellow}
	case "offline":
		return text.Colors{text.FgHiRed}
	default:
		return text.Colors{text.FgHiBlack}
	}
}
