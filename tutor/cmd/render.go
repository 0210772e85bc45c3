package main

import (
	"strings"

	"historytutor/tutor/utils/types"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("178")).
	Padding(0, 1)

// wrapWidth stands in for the font size: larger text, shorter lines.
func wrapWidth(size types.FontSize) int {
	switch size {
	case types.FontLarge:
		return 64
	case types.FontMedium:
		return 80
	default:
		return 100
	}
}

type renderer struct {
	enabled bool
	tr      *glamour.TermRenderer
}

func newRenderer(enabled bool, size types.FontSize) (*renderer, error) {
	r := &renderer{enabled: enabled}
	if !enabled {
		return r, nil
	}
	return r, r.resize(size)
}

func (r *renderer) resize(size types.FontSize) error {
	if !r.enabled {
		return nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth(size)),
	)
	if err != nil {
		return err
	}
	r.tr = tr
	return nil
}

// Markdown renders replies; on failure the raw text is returned.
func (r *renderer) Markdown(md string) string {
	if r.tr == nil {
		return md
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func box(lines ...string) string {
	return headerStyle.Render(strings.Join(lines, "\n"))
}
