// Package render formats habit data for the terminal.
package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 80

// Renderer holds the styles and width used for one output stream.
// Colour is decided by lipgloss from the writer, so buffers get plain text.
type Renderer struct {
	lg    *lipgloss.Renderer
	width int

	title  lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	levels [5]lipgloss.Style
}

type Option func(*Renderer)

// WithWidth fixes the output width instead of asking the terminal
func WithWidth(w int) Option {
	return func(r *Renderer) {
		if w > 0 {
			r.width = w
		}
	}
}

func New(out io.Writer, opts ...Option) *Renderer {
	lg := lipgloss.NewRenderer(out)
	r := &Renderer{
		lg:     lg,
		width:  terminalWidth(out),
		title:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")),
		muted:  lg.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
		accent: lg.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		good:   lg.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		warn:   lg.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
	for i, c := range []string{"#2D333B", "#0E4429", "#006D32", "#26A641", "#39D353"} {
		r.levels[i] = lg.NewStyle().Foreground(lipgloss.Color(c))
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Width() int {
	return r.width
}

func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// bar draws a fixed-width progress bar for a 0..1 fraction.
func bar(fraction float64, width int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func habitLabel(emoji, name string) string {
	if emoji == "" {
		return name
	}
	return emoji + " " + name
}
