// Package feedback implements the transient "shake and message" error
// presentation shared by every workflow.
package feedback

import (
	"sync"
	"time"
)

// DefaultShakeDuration is how long the shaking flag stays set after a trigger.
const DefaultShakeDuration = 500 * time.Millisecond

// State is a snapshot of the channel.
type State struct {
	Message string
	Shaking bool
}

// Channel holds at most one active transient error.
// Safe for concurrent use.
type Channel struct {
	mu       sync.Mutex
	state    State
	timer    *time.Timer
	gen      uint64
	duration time.Duration
	onChange func(State)
}

// Option configures a Channel.
type Option func(*Channel)

// WithShakeDuration overrides the shake auto-clear delay.
func WithShakeDuration(d time.Duration) Option {
	return func(c *Channel) {
		c.duration = d
	}
}

// WithOnChange registers a callback invoked with every new state.
// The callback runs outside the channel lock.
func WithOnChange(fn func(State)) Option {
	return func(c *Channel) {
		c.onChange = fn
	}
}

// New creates an idle channel.
func New(opts ...Option) *Channel {
	c := &Channel{duration: DefaultShakeDuration}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger shows message and starts shaking. The shake stops after the
// configured delay measured from this call; a later Trigger restarts it.
func (c *Channel) Trigger(message string) {
	c.mu.Lock()
	c.state = State{Message: message, Shaking: true}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.duration, func() { c.stopShaking(gen) })
	s := c.state
	c.mu.Unlock()

	c.notify(s)
}

// stopShaking ignores timers that were superseded by a newer Trigger.
func (c *Channel) stopShaking(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.state.Shaking {
		c.mu.Unlock()
		return
	}
	c.state.Shaking = false
	s := c.state
	c.mu.Unlock()

	c.notify(s)
}

// Clear removes the message immediately. A pending shake timeout still fires.
func (c *Channel) Clear() {
	c.mu.Lock()
	c.state.Message = ""
	s := c.state
	c.mu.Unlock()

	c.notify(s)
}

// State returns the current snapshot.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stop cancels any pending timer. Used when the owning workflow is torn down.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Channel) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
