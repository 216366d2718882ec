package tui

import (
	"io"

	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/muesli/termenv"
)

var _ ports.Clipboard = (*Clipboard)(nil)

// Clipboard copies text to the system clipboard through the OSC 52 escape
// sequence, which most terminal emulators (and tmux) forward.
type Clipboard struct {
	out *termenv.Output
}

// NewClipboard writes OSC 52 sequences to w.
func NewClipboard(w io.Writer) *Clipboard {
	return &Clipboard{out: termenv.NewOutput(w)}
}

// Copy places text on the clipboard.
func (c *Clipboard) Copy(text string) {
	c.out.Copy(text)
}
