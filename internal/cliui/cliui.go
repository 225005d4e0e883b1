// Package cliui renders answers for terminal output.
package cliui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"groundqa/internal/domain"
)

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	CitedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// RenderMarkdown renders md for a terminal of the given width. A non-positive
// width disables wrapping.
func RenderMarkdown(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// RenderSources lists sources one per line, marking the ones the answer cites.
func RenderSources(sources []domain.Source) string {
	if len(sources) == 0 {
		return DimStyle.Render("(sem fontes)")
	}
	lines := make([]string, 0, len(sources))
	for i, s := range sources {
		marker := DimStyle.Render(" ○")
		if s.Cited {
			marker = CitedStyle.Render(" ●")
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			marker,
			DimStyle.Render(fmt.Sprintf("[%d]", i+1)),
			HeaderStyle.Render(s.Title),
			AccentStyle.Render(s.URL),
		))
	}
	return strings.Join(lines, "\n")
}

// RenderAnswer formats an answer with its sources. Markdown rendering errors
// fall back to the plain answer text.
func RenderAnswer(a domain.Answer, width int) string {
	body, err := RenderMarkdown(a.Answer, width)
	if err != nil {
		body = a.Answer
	}
	return body + "\n\n" + RenderSources(a.Sources)
}
