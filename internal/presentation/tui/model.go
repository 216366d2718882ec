package tui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/bbsdemo"
	"github.com/aretw0/bbsdemo/internal/logging"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
	"github.com/aretw0/bbsdemo/pkg/wheel"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Tab identifiers, persisted as Settings.ActiveTab.
const (
	TabEncryption = "encryption"
	TabDecryption = "decryption"
	TabRoulette   = "roulette"
	TabCards      = "cards"
	TabSettings   = "settings"
)

// Tabs lists the tabs in display order.
var Tabs = []string{TabEncryption, TabDecryption, TabRoulette, TabCards, TabSettings}

// frameInterval paces redraws while something is moving.
const frameInterval = wheel.TickInterval

const (
	fieldP = iota
	fieldQ
	fieldSeed
	paramFields
)

const (
	rowAutoCopy = iota
	rowShowSteps
	rowTheme
	settingsRows
)

type (
	requestDoneMsg struct {
		tab    string
		result string
		err    error
	}
	frameMsg    struct{}
	settingsMsg struct{}
	landedMsg   wheel.Outcome
)

// Model is the bubbletea model of the demo. Every remote call runs as a
// tea.Cmd; timers surface as frame messages.
type Model struct {
	ctx    context.Context
	client *bbsdemo.Client
	theme  *Theme
	keys   keyMap
	logger *slog.Logger

	active    int
	params    []textinput.Model
	inputs    map[string][]textinput.Model
	focus     int
	cursor    int
	prefs     domain.Settings
	updates   chan struct{}
	unsub     func()
	animating bool
	frame     int
	status    string
	width     int
	steps     *stepsCache
}

// Option configures the Model.
type Option func(*Model)

// WithLogger configures a logger for the Model.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// New builds the model around client. theme must be the applier the
// client's settings store was opened with.
func New(ctx context.Context, client *bbsdemo.Client, theme *Theme, opts ...Option) Model {
	m := Model{
		ctx:     ctx,
		client:  client,
		theme:   theme,
		keys:    defaultKeys(),
		logger:  logging.NewNop(),
		updates: make(chan struct{}, 1),
		steps:   &stepsCache{},
	}
	for _, opt := range opts {
		opt(&m)
	}

	p := client.Params()
	m.params = []textinput.Model{
		newInput("p", p.P, 12),
		newInput("q", p.Q, 12),
		newInput("seed", p.Seed, 12),
	}
	wheelState := client.Wheel.State()
	m.inputs = map[string][]textinput.Model{
		TabEncryption: {newInput("text", "", 0)},
		TabDecryption: {newInput("hex", "", 0)},
		TabRoulette: {
			newInput("number", "", 4),
			newInput("bet", strconv.Itoa(wheelState.Bet), 8),
		},
		TabCards: {newInput("cards", "5", 3)},
	}

	m.prefs = client.Settings.Get()
	m.active = tabIndex(m.prefs.ActiveTab)
	updates := m.updates
	m.unsub = client.Settings.Subscribe(func(domain.Settings) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	if m.Tab() != TabSettings {
		m.focusField(m.lastField())
	}
	return m
}

func newInput(label, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = label + ": "
	in.CharLimit = limit
	in.SetValue(value)
	return in
}

func tabIndex(tab string) int {
	for i, t := range Tabs {
		if t == tab {
			return i
		}
	}
	return 0
}

// Tab returns the active tab identifier.
func (m Model) Tab() string { return Tabs[m.active] }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForSettings(), m.waitForLanding())
}

func (m Model) waitForSettings() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		<-ch
		return settingsMsg{}
	}
}

func (m Model) waitForLanding() tea.Cmd {
	ch := m.client.Wheel.Done()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case out := <-ch:
			return landedMsg(out)
		case <-ctx.Done():
			return nil
		}
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// animate starts the redraw loop unless it is already running.
func (m *Model) animate() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return frame()
}

// moving reports whether anything on screen still changes on its own.
func (m Model) moving() bool {
	c := m.client
	if c.Encryption.Busy() || c.Decryption.Busy() || c.Wheel.Busy() || c.Deck.Busy() {
		return true
	}
	if c.Wheel.State().Spinning {
		return true
	}
	for _, fb := range []*feedback.Channel{
		c.Encryption.Feedback(), c.Decryption.Feedback(),
		c.Wheel.Feedback(), c.Deck.Feedback(),
	} {
		if fb.State().Shaking {
			return true
		}
	}
	return false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case settingsMsg:
		m.prefs = m.client.Settings.Get()
		return m, m.waitForSettings()

	case landedMsg:
		m.status = wheel.Outcome(msg).Message()
		return m, m.waitForLanding()

	case requestDoneMsg:
		switch {
		case errors.Is(msg.err, lifecycle.ErrBusy):
		case msg.err != nil:
			m.status = ""
			m.logger.Debug("request failed", "tab", msg.tab, "err", msg.err)
		default:
			m.status = msg.result
		}
		return m, m.animate()

	case frameMsg:
		m.frame++
		if m.moving() {
			return m, frame()
		}
		m.animating = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTab(-1)
	}

	if m.Tab() == TabSettings {
		return m.handleSettingsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m, m.focusField(m.focus - 1)
	case key.Matches(msg, m.keys.Down):
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.Submit):
		m.syncParams()
		return m, m.submit()
	case key.Matches(msg, m.keys.NewSeed):
		m.params[fieldSeed].SetValue(m.client.ChangeSeed())
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		return m, m.reset()
	case key.Matches(msg, m.keys.Shuffle) && m.Tab() == TabCards:
		m.syncParams()
		return m, tea.Batch(m.request(TabCards, func(ctx context.Context) (string, error) {
			if err := m.client.Shuffle(ctx); err != nil {
				return "", err
			}
			return m.client.Deck.State().Message, nil
		}), m.animate())
	case key.Matches(msg, m.keys.ClearHands) && m.Tab() == TabCards:
		m.client.Deck.ClearHands()
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + settingsRows) % settingsRows
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % settingsRows
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSetting()
	}
	return m, nil
}

func (m *Model) toggleSetting() {
	cur := m.client.Settings.Get()
	var patch domain.Patch
	switch m.cursor {
	case rowAutoCopy:
		v := !cur.AutoCopy
		patch.AutoCopy = &v
	case rowShowSteps:
		v := !cur.ShowSteps
		patch.ShowSteps = &v
	case rowTheme:
		next := domain.Themes[0]
		for i, t := range domain.Themes {
			if t == cur.Theme {
				next = domain.Themes[(i+1)%len(domain.Themes)]
			}
		}
		patch.Theme = &next
	}
	if err := m.client.Settings.Update(m.ctx, patch); err != nil {
		m.status = err.Error()
	}
	m.prefs = m.client.Settings.Get()
}

// switchTab moves delta tabs and persists the new active tab.
func (m *Model) switchTab(delta int) tea.Cmd {
	m.blurAll()
	m.active = (m.active + delta + len(Tabs)) % len(Tabs)
	m.status = ""
	tab := m.Tab()
	if err := m.client.Settings.Update(m.ctx, domain.Patch{ActiveTab: &tab}); err != nil {
		m.status = err.Error()
	}
	m.prefs = m.client.Settings.Get()
	if tab == TabSettings {
		return nil
	}
	return m.focusField(m.lastField())
}

// fields returns the inputs of the active tab, parameters first.
func (m Model) fields() []*textinput.Model {
	out := make([]*textinput.Model, 0, paramFields+2)
	for i := range m.params {
		out = append(out, &m.params[i])
	}
	extra := m.inputs[m.Tab()]
	for i := range extra {
		out = append(out, &extra[i])
	}
	return out
}

func (m Model) lastField() int {
	return paramFields + len(m.inputs[m.Tab()]) - 1
}

func (m *Model) blurAll() {
	for _, f := range m.fields() {
		f.Blur()
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	fields := m.fields()
	if len(fields) == 0 {
		return nil
	}
	m.focus = (i + len(fields)) % len(fields)
	m.blurAll()
	return fields[m.focus].Focus()
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Tab() == TabSettings {
		return m, nil
	}
	fields := m.fields()
	if m.focus >= len(fields) {
		return m, nil
	}
	var cmd tea.Cmd
	*fields[m.focus], cmd = fields[m.focus].Update(msg)
	if m.focus < paramFields {
		m.syncParams()
	}
	return m, cmd
}

func (m *Model) syncParams() {
	m.client.SetParams(domain.Params{
		P:    m.params[fieldP].Value(),
		Q:    m.params[fieldQ].Value(),
		Seed: m.params[fieldSeed].Value(),
	})
}

func (m Model) value(tab string, i int) string {
	return m.inputs[tab][i].Value()
}

func (m Model) request(tab string, fn func(context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		res, err := fn(ctx)
		return requestDoneMsg{tab: tab, result: res, err: err}
	}
}

// submit runs the primary action of the active tab.
func (m *Model) submit() tea.Cmd {
	c := m.client
	switch tab := m.Tab(); tab {
	case TabEncryption:
		text := m.value(tab, 0)
		return tea.Batch(m.request(tab, func(ctx context.Context) (string, error) {
			if _, err := c.Encrypt(ctx, text); err != nil {
				return "", err
			}
			return copiedNote(c.Settings.Get(), "Encrypted"), nil
		}), m.animate())

	case TabDecryption:
		hex := m.value(tab, 0)
		return tea.Batch(m.request(tab, func(ctx context.Context) (string, error) {
			if _, err := c.Decrypt(ctx, hex); err != nil {
				return "", err
			}
			return copiedNote(c.Settings.Get(), "Decrypted"), nil
		}), m.animate())

	case TabRoulette:
		if err := m.placeBet(); err != nil {
			c.Wheel.Feedback().Trigger(err.Error())
			return m.animate()
		}
		return tea.Batch(m.request(tab, func(ctx context.Context) (string, error) {
			if err := c.Spin(ctx); err != nil {
				return "", err
			}
			return "Spinning...", nil
		}), m.animate())

	case TabCards:
		n, err := strconv.Atoi(strings.TrimSpace(m.value(tab, 0)))
		if err != nil {
			c.Deck.Feedback().Trigger("enter how many cards to draw")
			return m.animate()
		}
		hand, err := c.Deck.Draw(n)
		if err == nil {
			m.status = "Drew " + domain.Hand(hand)
		}
		return m.animate()
	}
	return nil
}

// placeBet pushes the number and bet fields into the wheel.
func (m *Model) placeBet() error {
	slot, err := strconv.Atoi(strings.TrimSpace(m.value(TabRoulette, 0)))
	if err != nil {
		return wheel.ErrNoSelection
	}
	bet, err := strconv.Atoi(strings.TrimSpace(m.value(TabRoulette, 1)))
	if err != nil {
		return wheel.ErrInvalidBet
	}
	if err := m.client.Wheel.Select(slot); err != nil {
		return err
	}
	m.status = "Selected number " + strconv.Itoa(slot)
	return m.client.Wheel.SetBet(bet)
}

func (m *Model) reset() tea.Cmd {
	m.status = ""
	switch m.Tab() {
	case TabEncryption:
		m.client.Encryption.Clear()
	case TabDecryption:
		m.client.Decryption.Clear()
	case TabRoulette:
		if err := m.client.Wheel.Reset(); err != nil {
			m.client.Wheel.Feedback().Trigger(err.Error())
			return m.animate()
		}
		m.inputs[TabRoulette][0].SetValue("")
	case TabCards:
		m.client.Deck.Reset()
	}
	return nil
}

func copiedNote(prefs domain.Settings, verb string) string {
	if prefs.AutoCopy {
		return verb + " and copied to clipboard"
	}
	return verb
}

// Close releases the settings subscription. Workflow timers belong to the
// client and are stopped by its owner.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}
