package ports

import "github.com/aretw0/bbsdemo/pkg/domain"

// Clipboard copies text for the user. Errors are not reported: copying is a
// fire-and-forget side effect.
type Clipboard interface {
	Copy(text string)
}

// ClipboardFunc adapts a function to the Clipboard interface.
type ClipboardFunc func(text string)

// Copy calls f(text).
func (f ClipboardFunc) Copy(text string) { f(text) }

// ThemeApplier switches the presentation between dark and light palettes.
type ThemeApplier interface {
	ApplyTheme(dark bool)
}

// ThemeApplierFunc adapts a function to the ThemeApplier interface.
type ThemeApplierFunc func(dark bool)

// ApplyTheme calls f(dark).
func (f ThemeApplierFunc) ApplyTheme(dark bool) { f(dark) }

// SettingsReader gives workflows read access to the shared settings.
// *settings.Store implements it.
type SettingsReader interface {
	Get() domain.Settings
}
