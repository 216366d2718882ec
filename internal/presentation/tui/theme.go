package tui

import (
	"sync/atomic"

	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	colorIndigo lipgloss.Color = "#818cf8"
	colorViolet lipgloss.Color = "#a78bfa"
	colorPink   lipgloss.Color = "#f472b6"
	colorRed    lipgloss.Color = "#ef4444"
	colorGreen  lipgloss.Color = "#22c55e"
	colorAmber  lipgloss.Color = "#f59e0b"

	colorInkDark  lipgloss.Color = "#e5e7eb"
	colorMuteDark lipgloss.Color = "#6b7280"
	colorSurfDark lipgloss.Color = "#1f2937"

	colorInkLight  lipgloss.Color = "#111827"
	colorMuteLight lipgloss.Color = "#9ca3af"
	colorSurfLight lipgloss.Color = "#e5e7eb"
)

// Styles is the lipgloss palette for one theme.
type Styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Label     lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Slot      lipgloss.Style
	SlotHot   lipgloss.Style
	SlotPick  lipgloss.Style
	SlotWin   lipgloss.Style
	Box       lipgloss.Style
}

func newStyles(dark bool) Styles {
	ink, mute, surf := colorInkLight, colorMuteLight, colorSurfLight
	if dark {
		ink, mute, surf = colorInkDark, colorMuteDark, colorSurfDark
	}
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorViolet),
		Tab:       lipgloss.NewStyle().Foreground(mute).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(ink).Background(surf).Padding(0, 1),
		Label:     lipgloss.NewStyle().Foreground(ink),
		Muted:     lipgloss.NewStyle().Foreground(mute),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(colorRed),
		Success:   lipgloss.NewStyle().Foreground(colorGreen),
		Slot:      lipgloss.NewStyle().Foreground(mute),
		SlotHot:   lipgloss.NewStyle().Bold(true).Foreground(colorAmber),
		SlotPick:  lipgloss.NewStyle().Underline(true).Foreground(colorIndigo),
		SlotWin:   lipgloss.NewStyle().Bold(true).Foreground(colorPink),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mute).Padding(0, 1),
	}
}

var _ ports.ThemeApplier = (*Theme)(nil)

// Theme tracks the active palette. The settings store switches it through
// ApplyTheme; the UI reads it on every frame.
type Theme struct {
	dark  atomic.Bool
	light Styles
	night Styles
}

// NewTheme returns a light theme.
func NewTheme() *Theme {
	return &Theme{
		light: newStyles(false),
		night: newStyles(true),
	}
}

// ApplyTheme switches between the dark and light palettes.
func (t *Theme) ApplyTheme(dark bool) {
	t.dark.Store(dark)
}

// Dark reports whether the dark palette is active.
func (t *Theme) Dark() bool {
	return t.dark.Load()
}

// Styles returns the active palette.
func (t *Theme) Styles() Styles {
	if t.Dark() {
		return t.night
	}
	return t.light
}

// PrefersDark reports whether the terminal background is dark. It is used
// to resolve theme=auto.
func PrefersDark() bool {
	return termenv.HasDarkBackground()
}
