package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/aretw0/bbsdemo/pkg/wheel"
	"github.com/charmbracelet/lipgloss"
)

// stepsCache keeps the last rendered step table per tab, since glamour is
// too slow to run on every frame.
type stepsCache struct {
	mu      sync.Mutex
	entries map[string]stepsEntry
}

type stepsEntry struct {
	key string
	out string
}

func (c *stepsCache) render(tab string, steps []domain.Step, dark bool, width int) string {
	if len(steps) == 0 {
		return ""
	}
	key := fmt.Sprintf("%t|%d|%d|%p", dark, width, len(steps), &steps[0])

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[tab]; ok && e.key == key {
		return e.out
	}
	md := StepsMarkdown(steps, DefaultStepLimit)
	out, err := NewRenderer(dark, width)(md)
	if err != nil {
		out = md
	}
	if c.entries == nil {
		c.entries = make(map[string]stepsEntry)
	}
	c.entries[tab] = stepsEntry{key: key, out: out}
	return out
}

func (m Model) View() string {
	st := m.theme.Styles()
	var b strings.Builder

	b.WriteString(st.Title.Render("BBS demo"))
	b.WriteString("\n")
	b.WriteString(m.tabBar(st))
	b.WriteString("\n\n")

	tab := m.Tab()
	if tab != TabSettings {
		params := make([]string, len(m.params))
		for i := range m.params {
			params[i] = m.params[i].View()
		}
		b.WriteString(strings.Join(params, "  "))
		b.WriteString("\n")
	}

	switch tab {
	case TabEncryption:
		b.WriteString(m.cipherView(st, tab, "Ciphertext (hex)"))
	case TabDecryption:
		b.WriteString(m.cipherView(st, tab, "Plaintext"))
	case TabRoulette:
		b.WriteString(m.wheelView(st))
	case TabCards:
		b.WriteString(m.cardsView(st))
	case TabSettings:
		b.WriteString(m.settingsView(st))
	}

	if fb := m.feedbackFor(tab); fb != nil {
		if line := m.feedbackLine(st, fb.State()); line != "" {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(st.Success.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.helpLine(st))
	b.WriteString("\n")
	return b.String()
}

func (m Model) tabBar(st Styles) string {
	tabs := make([]string, len(Tabs))
	for i, t := range Tabs {
		if i == m.active {
			tabs[i] = st.ActiveTab.Render(t)
		} else {
			tabs[i] = st.Tab.Render(t)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) feedbackFor(tab string) *feedback.Channel {
	switch tab {
	case TabEncryption:
		return m.client.Encryption.Feedback()
	case TabDecryption:
		return m.client.Decryption.Feedback()
	case TabRoulette:
		return m.client.Wheel.Feedback()
	case TabCards:
		return m.client.Deck.Feedback()
	}
	return nil
}

// feedbackLine renders the transient error, jittering it sideways while
// the channel shakes.
func (m Model) feedbackLine(st Styles, s feedback.State) string {
	if s.Message == "" {
		return ""
	}
	pad := 0
	if s.Shaking {
		pad = []int{0, 2, 0, 1}[m.frame%4]
	}
	return st.Error.PaddingLeft(pad).Render(s.Message)
}

func (m Model) inputViews(tab string) string {
	extra := m.inputs[tab]
	views := make([]string, len(extra))
	for i := range extra {
		views[i] = extra[i].View()
	}
	return strings.Join(views, "\n")
}

func (m Model) cipherView(st Styles, tab, label string) string {
	var b strings.Builder
	b.WriteString(m.inputViews(tab))
	b.WriteString("\n\n")

	w := m.client.Encryption
	if tab == TabDecryption {
		w = m.client.Decryption
	}
	if w.Busy() {
		b.WriteString(st.Muted.Render("working..."))
		return b.String()
	}
	state := w.State()
	if state.Result == "" {
		b.WriteString(st.Muted.Render("press enter to " + strings.TrimSuffix(tab, "ion")))
		return b.String()
	}
	b.WriteString(st.Label.Render(label + ": "))
	b.WriteString(state.Result)
	if state.StepsVisible && m.prefs.ShowSteps {
		b.WriteString("\n")
		b.WriteString(m.steps.render(tab, state.Steps, m.theme.Dark(), m.width))
	}
	return b.String()
}

func (m Model) wheelView(st Styles) string {
	s := m.client.Wheel.State()
	var b strings.Builder
	b.WriteString(m.inputViews(TabRoulette))
	b.WriteString("\n\n")
	b.WriteString(wheelStrip(st, s))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s $%d   %s $%d   %s %.0f°",
		st.Label.Render("Balance"), s.Balance,
		st.Label.Render("Bet"), s.Bet,
		st.Muted.Render("rotation"), s.RotationDegrees)
	if s.Spinning {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("spinning..."))
	} else if s.Last != nil {
		b.WriteString("\n")
		b.WriteString(st.Label.Render(s.Last.Message()))
	}
	return b.String()
}

// wheelStrip draws the slots in a row, marking the pointer, the player's
// number and the landed result.
func wheelStrip(st Styles, s wheel.State) string {
	cells := make([]string, s.Slots)
	for i := 0; i < s.Slots; i++ {
		style := st.Slot
		switch {
		case s.Spinning && i == s.CurrentSlot:
			style = st.SlotHot
		case s.Result != nil && i == *s.Result:
			style = st.SlotWin
		case s.Selected != nil && i == *s.Selected:
			style = st.SlotPick
		}
		cells[i] = style.Render(fmt.Sprintf("%2d", i))
	}
	return st.Box.Render(strings.Join(cells, " "))
}

func (m Model) cardsView(st Styles) string {
	s := m.client.Deck.State()
	var b strings.Builder
	b.WriteString(m.inputViews(TabCards))
	b.WriteString("\n\n")
	if m.client.Deck.Busy() {
		b.WriteString(st.Muted.Render("shuffling..."))
		b.WriteString("\n")
	}
	if len(s.Shuffled) == 0 && len(s.Hands) == 0 {
		b.WriteString(st.Muted.Render(fmt.Sprintf("%d cards, not shuffled (ctrl+s)", len(s.Deck))))
	} else {
		fmt.Fprintf(&b, "%s %d", st.Label.Render("Remaining"), len(s.Shuffled))
	}
	for i, hand := range s.Hands {
		fmt.Fprintf(&b, "\n%s %s", st.Muted.Render(fmt.Sprintf("hand %d:", i+1)), domain.Hand(hand))
	}
	if m.prefs.ShowSteps && len(s.Steps) > 0 {
		b.WriteString("\n")
		b.WriteString(m.steps.render(TabCards, s.Steps, m.theme.Dark(), m.width))
	}
	return b.String()
}

func (m Model) settingsView(st Styles) string {
	rows := []string{
		fmt.Sprintf("Auto copy results   %s", onOff(m.prefs.AutoCopy)),
		fmt.Sprintf("Show generator steps %s", onOff(m.prefs.ShowSteps)),
		fmt.Sprintf("Theme               %s", m.prefs.Theme),
	}
	for i, r := range rows {
		if i == m.cursor {
			rows[i] = st.ActiveTab.Render("> " + r)
		} else {
			rows[i] = st.Label.Render("  " + r)
		}
	}
	return strings.Join(rows, "\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m Model) helpLine(st Styles) string {
	bindings := m.keys.help(m.Tab())
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return st.Muted.Render(strings.Join(parts, " • "))
}
