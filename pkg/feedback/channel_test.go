package feedback_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/stretchr/testify/assert"
)

func TestTrigger_SetsMessageAndShakes(t *testing.T) {
	c := feedback.New(feedback.WithShakeDuration(20 * time.Millisecond))
	defer c.Stop()

	c.Trigger("p must be a prime number")
	s := c.State()
	assert.Equal(t, "p must be a prime number", s.Message)
	assert.True(t, s.Shaking)

	assert.Eventually(t, func() bool { return !c.State().Shaking }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "p must be a prime number", c.State().Message, "message outlives the shake")
}

func TestTrigger_DefaultDuration(t *testing.T) {
	c := feedback.New()
	defer c.Stop()

	start := time.Now()
	c.Trigger("boom")
	assert.Eventually(t, func() bool { return !c.State().Shaking }, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), feedback.DefaultShakeDuration)
}

func TestTrigger_SecondTriggerResetsTimer(t *testing.T) {
	d := 200 * time.Millisecond
	c := feedback.New(feedback.WithShakeDuration(d))
	defer c.Stop()

	c.Trigger("first")
	time.Sleep(120 * time.Millisecond)
	second := time.Now()
	c.Trigger("second")

	// The first timer would have fired by now; the second trigger superseded it.
	time.Sleep(120 * time.Millisecond)
	assert.True(t, c.State().Shaking, "shake must be measured from the latest trigger")
	assert.Equal(t, "second", c.State().Message)

	assert.Eventually(t, func() bool { return !c.State().Shaking }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(second), d)
}

func TestClear_KeepsPendingShake(t *testing.T) {
	c := feedback.New(feedback.WithShakeDuration(30 * time.Millisecond))
	defer c.Stop()

	c.Trigger("oops")
	c.Clear()

	s := c.State()
	assert.Empty(t, s.Message)
	assert.True(t, s.Shaking, "clear does not cancel the shake timeout")

	assert.Eventually(t, func() bool { return !c.State().Shaking }, time.Second, 5*time.Millisecond)
}

func TestOnChange(t *testing.T) {
	var mu sync.Mutex
	var seen []feedback.State
	c := feedback.New(
		feedback.WithShakeDuration(10*time.Millisecond),
		feedback.WithOnChange(func(s feedback.State) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, s)
		}),
	)
	defer c.Stop()

	c.Trigger("x")
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, feedback.State{Message: "x", Shaking: true}, seen[0])
	assert.Equal(t, feedback.State{Message: "x", Shaking: false}, seen[1])
}

func TestStop_CancelsPendingShake(t *testing.T) {
	c := feedback.New(feedback.WithShakeDuration(10 * time.Millisecond))
	c.Trigger("x")
	c.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.True(t, c.State().Shaking, "stopped channel no longer schedules changes")
}
