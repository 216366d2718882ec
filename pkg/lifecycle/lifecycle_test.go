package lifecycle_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/feedback"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
	"github.com/aretw0/bbsdemo/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var good = domain.Params{P: " 61 ", Q: "53", Seed: "12"}

func TestRun_Success(t *testing.T) {
	fb := feedback.New()
	defer fb.Stop()
	l := lifecycle.New("cipher", fb)

	var applied string
	var seen domain.Params
	res, err := lifecycle.Run(context.Background(), l, lifecycle.Job[string]{
		Params: good,
		Call: func(ctx context.Context, p domain.Params) (string, error) {
			seen = p
			assert.Equal(t, lifecycle.PhaseBusy, l.Phase())
			assert.True(t, l.Busy())
			return "abcd", nil
		},
		OnSuccess: func(s string) { applied = s },
	})

	require.NoError(t, err)
	assert.Equal(t, "abcd", res)
	assert.Equal(t, "abcd", applied)
	assert.Equal(t, "61", seen.P, "call receives sanitized params")
	assert.Equal(t, lifecycle.PhaseIdle, l.Phase())
	assert.False(t, l.Busy())
	assert.Empty(t, fb.State().Message)
}

func TestRun_ValidationRejectsWithoutCall(t *testing.T) {
	fb := feedback.New()
	defer fb.Stop()
	l := lifecycle.New("deck", fb)

	called := false
	_, err := lifecycle.Run(context.Background(), l, lifecycle.Job[int]{
		Params: domain.Params{P: "", Q: "4", Seed: "1"},
		Call: func(context.Context, domain.Params) (int, error) {
			called = true
			return 0, nil
		},
	})

	require.ErrorIs(t, err, validator.ErrMissingField)
	assert.False(t, called)
	assert.Equal(t, "please enter P, Q and Seed values", fb.State().Message)
	assert.True(t, fb.State().Shaking)
	assert.False(t, l.Busy())
}

func TestRun_PrecheckRunsBeforeValidation(t *testing.T) {
	fb := feedback.New()
	defer fb.Stop()
	l := lifecycle.New("wheel", fb)
	errNoSlot := errors.New("please select a number first")

	_, err := lifecycle.Run(context.Background(), l, lifecycle.Job[int]{
		Precheck: func() error { return errNoSlot },
		Params:   domain.Params{},
		Call: func(context.Context, domain.Params) (int, error) {
			t.Fatal("call must not run")
			return 0, nil
		},
	})

	require.ErrorIs(t, err, errNoSlot)
	assert.Equal(t, errNoSlot.Error(), fb.State().Message)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"remote", &domain.RemoteError{Operation: domain.OpEncrypt, Message: "p and q must be congruent to 3 mod 4"}, "p and q must be congruent to 3 mod 4"},
		{"unreachable", &domain.TransportError{Operation: domain.OpEncrypt, Err: fmt.Errorf("%w: dial tcp: refused", domain.ErrServerUnreachable)}, "server unreachable"},
		{"transport", &domain.TransportError{Operation: domain.OpEncrypt, Err: errors.New("unexpected status 500")}, "unexpected status 500"},
		{"timeout", context.DeadlineExceeded, "server did not answer in time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := feedback.New()
			defer fb.Stop()
			l := lifecycle.New("cipher", fb)

			applied := false
			_, err := lifecycle.Run(context.Background(), l, lifecycle.Job[string]{
				Params:    good,
				Call:      func(context.Context, domain.Params) (string, error) { return "", tt.err },
				OnSuccess: func(string) { applied = true },
			})

			require.Error(t, err)
			assert.False(t, applied)
			assert.Equal(t, tt.want, fb.State().Message)
			assert.False(t, l.Busy())
			assert.Equal(t, lifecycle.PhaseIdle, l.Phase())
		})
	}
}

func TestRun_SecondRequestWhileBusyIsDropped(t *testing.T) {
	l := lifecycle.New("deck", nil)

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := lifecycle.Run(context.Background(), l, lifecycle.Job[int]{
			Params: good,
			Call: func(context.Context, domain.Params) (int, error) {
				calls.Add(1)
				close(started)
				<-release
				return 1, nil
			},
		})
		assert.NoError(t, err)
	}()

	<-started
	_, err := lifecycle.Run(context.Background(), l, lifecycle.Job[int]{
		Params: good,
		Call: func(context.Context, domain.Params) (int, error) {
			calls.Add(1)
			return 2, nil
		},
	})
	assert.ErrorIs(t, err, lifecycle.ErrBusy)

	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())

	// The slot is free again once the first request resolved.
	_, err = lifecycle.Run(context.Background(), l, lifecycle.Job[int]{
		Params: good,
		Call:   func(context.Context, domain.Params) (int, error) { return 3, nil },
	})
	assert.NoError(t, err)
}

func TestRun_Hooks(t *testing.T) {
	var events []*domain.RequestEvent
	var mu sync.Mutex
	record := func(_ context.Context, e *domain.RequestEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}
	l := lifecycle.New("wheel", nil, lifecycle.WithLifecycleHooks(domain.LifecycleHooks{
		OnRequestStart: record,
		OnRequestEnd:   record,
	}))

	_, err := lifecycle.Run(context.Background(), l, lifecycle.Job[int]{
		Params: good,
		Call: func(context.Context, domain.Params) (int, error) {
			time.Sleep(time.Millisecond)
			return 7, nil
		},
	})
	require.NoError(t, err)

	_, err = lifecycle.Run(context.Background(), l, lifecycle.Job[int]{Params: domain.Params{P: "4", Q: "5", Seed: "1"},
		Call: func(context.Context, domain.Params) (int, error) { return 0, nil },
	})
	require.ErrorIs(t, err, validator.ErrNotPrime)

	require.Len(t, events, 3)
	assert.Equal(t, domain.EventRequestStart, events[0].Type)
	assert.Equal(t, domain.EventRequestEnd, events[1].Type)
	assert.Equal(t, domain.OutcomeSucceeded, events[1].Outcome)
	assert.Equal(t, events[0].RequestID, events[1].RequestID)
	assert.NotEmpty(t, events[0].RequestID)
	assert.Positive(t, events[1].Duration)
	assert.Equal(t, domain.EventRequestRejected, events[2].Type)
	assert.Equal(t, domain.OutcomeRejected, events[2].Outcome)
	assert.Equal(t, "wheel", events[2].Workflow)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", lifecycle.Message(nil))
	assert.Equal(t, "request cancelled", lifecycle.Message(fmt.Errorf("wrap: %w", context.Canceled)))
	assert.Equal(t, "encrypt failed", lifecycle.Message(&domain.RemoteError{Operation: domain.OpEncrypt}))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "busy", lifecycle.PhaseBusy.String())
	assert.Equal(t, "unknown", lifecycle.Phase(42).String())
}
