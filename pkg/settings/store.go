package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/bbsdemo/internal/logging"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/ports"
)

type subscriber struct {
	id uint64
	fn func(domain.Settings)
}

// Store is the shared settings store.
type Store struct {
	kv          ports.KeyValueStore
	key         string
	theme       ports.ThemeApplier
	prefersDark func() bool
	logger      *slog.Logger

	// updateMu serializes Update and Subscribe so every subscriber observes
	// snapshots in one total order.
	updateMu sync.Mutex

	mu      sync.RWMutex
	current domain.Settings
	subs    []subscriber
	nextID  uint64
}

// Option configures the Store.
type Option func(*Store)

// WithThemeApplier sets the presentation hook run when the theme changes.
func WithThemeApplier(t ports.ThemeApplier) Option {
	return func(s *Store) {
		s.theme = t
	}
}

// WithDarkPreference sets how theme "auto" resolves (e.g. terminal background detection).
func WithDarkPreference(fn func() bool) Option {
	return func(s *Store) {
		s.prefersDark = fn
	}
}

// WithLogger configures a logger for the Store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithKey overrides the storage key (default domain.SettingsKey).
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// Open loads the persisted settings once and applies the initial theme.
// A missing or corrupt blob falls back to the defaults; it is never an error.
func Open(ctx context.Context, kv ports.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:          kv,
		key:         domain.SettingsKey,
		prefersDark: func() bool { return false },
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.current = s.load(ctx)
	s.applyTheme(s.current.Theme)
	return s
}

func (s *Store) load(ctx context.Context) domain.Settings {
	defaults := domain.DefaultSettings()
	if s.kv == nil {
		return defaults
	}

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.logger.Warn("Settings unreadable, using defaults", "key", s.key, "err", err)
		}
		return defaults
	}

	// Decode over the defaults so fields missing from older blobs keep their default.
	loaded := defaults
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Debug("Settings blob corrupt, using defaults", "key", s.key, "err", err)
		return defaults
	}
	if _, err := domain.ParseTheme(string(loaded.Theme)); err != nil {
		loaded.Theme = defaults.Theme
	}
	return loaded
}

// Get returns the current snapshot.
func (s *Store) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Value returns a single setting by its persisted key
// ("autoCopy", "showSteps", "theme", "activeTab").
func (s *Store) Value(key string) (any, bool) {
	cur := s.Get()
	switch key {
	case "autoCopy":
		return cur.AutoCopy, true
	case "showSteps":
		return cur.ShowSteps, true
	case "theme":
		return cur.Theme, true
	case "activeTab":
		return cur.ActiveTab, true
	}
	return nil, false
}

// Update merges patch, publishes the new snapshot to every subscriber,
// persists it, and applies the theme if the patch set one.
// A persistence failure is returned after publication; the in-memory value stays updated.
func (s *Store) Update(ctx context.Context, patch domain.Patch) error {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	next := patch.Apply(s.current)
	s.current = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}

	err := s.persist(ctx, next)

	if patch.Theme != nil {
		s.applyTheme(*patch.Theme)
	}
	return err
}

func (s *Store) persist(ctx context.Context, snapshot domain.Settings) error {
	if s.kv == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("Failed to persist settings", "key", s.key, "err", err)
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	s.logger.Debug("settings saved", "key", s.key)
	return nil
}

// Subscribe registers fn. It is called immediately with the current snapshot
// and then once per Update, in update order. The returned function removes
// the subscription; calling it more than once is safe.
func (s *Store) Subscribe(fn func(domain.Settings)) (unsubscribe func()) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	cur := s.current
	s.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Store) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// IsDark resolves a theme to the dark/light flag used by presentations.
func (s *Store) IsDark(theme domain.Theme) bool {
	return theme == domain.ThemeDark || (theme == domain.ThemeAuto && s.prefersDark())
}

func (s *Store) applyTheme(theme domain.Theme) {
	if s.theme == nil {
		return
	}
	s.theme.ApplyTheme(s.IsDark(theme))
}
