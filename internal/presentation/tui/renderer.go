package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// RenderFunc turns node text into terminal output.
type RenderFunc func(text string) (string, error)

// PlainRenderer returns text unchanged.
func PlainRenderer(text string) (string, error) { return text, nil }

// NewRenderer renders node text as markdown with glamour.
// Width 0 keeps glamour's default word wrap.
func NewRenderer(width int) (RenderFunc, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return func(text string) (string, error) {
		out, err := r.Render(text)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(out, "\n"), nil
	}, nil
}

// Styles colours the console's own messages. Without a colour terminal they print plain.
type Styles struct {
	out *termenv.Output
}

// NewStyles detects the colour profile of w.
func NewStyles(w io.Writer) *Styles {
	return &Styles{out: termenv.NewOutput(w)}
}

// Title styles the system name line.
func (s *Styles) Title(text string) string {
	return s.out.String(text).Bold().Foreground(s.out.Color("#38bdf8")).String()
}

// Hint styles input instructions.
func (s *Styles) Hint(text string) string {
	return s.out.String(text).Faint().String()
}

// Result styles the final answer.
func (s *Styles) Result(text string) string {
	return s.out.String(text).Bold().Foreground(s.out.Color("#34d399")).String()
}

// Error styles rejected input.
func (s *Styles) Error(text string) string {
	return s.out.String(text).Foreground(s.out.Color("#f87171")).String()
}
