package domain

import "fmt"

// Theme selects the presentation palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Themes lists the selectable themes in display order.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeAuto}

// ParseTheme converts user text into a Theme.
func ParseTheme(s string) (Theme, error) {
	for _, t := range Themes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or auto)", s)
}

// Settings holds the client preferences shared by every workflow.
type Settings struct {
	AutoCopy  bool   `json:"autoCopy"`
	ShowSteps bool   `json:"showSteps"`
	Theme     Theme  `json:"theme"`
	ActiveTab string `json:"activeTab"`
}

// DefaultSettings returns the static defaults used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		AutoCopy:  true,
		ShowSteps: true,
		Theme:     ThemeLight,
		ActiveTab: "encryption",
	}
}

// Patch is a partial Settings update. Nil fields are left untouched.
type Patch struct {
	AutoCopy  *bool
	ShowSteps *bool
	Theme     *Theme
	ActiveTab *string
}

// Apply returns s with every non-nil field of p merged in.
func (p Patch) Apply(s Settings) Settings {
	if p.AutoCopy != nil {
		s.AutoCopy = *p.AutoCopy
	}
	if p.ShowSteps != nil {
		s.ShowSteps = *p.ShowSteps
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.ActiveTab != nil {
		s.ActiveTab = *p.ActiveTab
	}
	return s
}
