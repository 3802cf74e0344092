package notifications

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

var severityGlyphs = map[Severity]string{
	SeverityInfo:    "ℹ",
	SeveritySuccess: "✔",
	SeverityWarning: "⚠",
	SeverityError:   "✖",
}

var severityColors = map[Severity]text.Colors{
	SeverityInfo:    {text.FgHiBlue},
	SeveritySuccess: {text.FgHiGreen},
	SeverityWarning: {text.FgHiYellow},
	SeverityError:   {text.FgHiRed, text.Bold},
}

type consoleService struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsole prints notices to out, one per line. Colour is enabled only
// when out is a terminal.
func NewConsole(out io.Writer) Service {
	if out == nil {
		out = os.Stderr
	}
	return &consoleService{out: out, color: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *consoleService) Publish(_ context.Context, message string, severity Severity) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	glyph, ok := severityGlyphs[severity]
	if !ok {
		glyph = severityGlyphs[SeverityInfo]
	}
	line := glyph + " " + message
	if c.color {
		if colors, ok := severityColors[severity]; ok {
			line = colors.Sprint(line)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.out, line); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	return nil
}
