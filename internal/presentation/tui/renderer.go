package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// DefaultStepLimit caps how many generator steps are rendered.
const DefaultStepLimit = 16

// NewRenderer returns a function that renders markdown using glamour in the
// light or dark standard style.
func NewRenderer(dark bool, width int) func(string) (string, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StepsMarkdown formats at most limit steps as a markdown table.
// A limit <= 0 renders every step.
func StepsMarkdown(steps []domain.Step, limit int) string {
	if len(steps) == 0 {
		return ""
	}
	shown := steps
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var b strings.Builder
	b.WriteString("| n | xn | bit |\n|---:|---:|:---:|\n")
	for _, s := range shown {
		fmt.Fprintf(&b, "| %d | %s | %d |\n", s.N, s.Xn, s.Bit)
	}
	if hidden := len(steps) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "\n_%d more steps not shown_\n", hidden)
	}
	return b.String()
}
