package wheel_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/bbsdemo/internal/testutils"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/wheel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, gen *testutils.FakeGenerator, opts ...wheel.Option) *wheel.Simulation {
	t.Helper()
	opts = append([]wheel.Option{wheel.WithTickInterval(time.Millisecond)}, opts...)
	s := wheel.New(gen, opts...)
	t.Cleanup(s.Close)
	return s
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSpin_WinPaysThirtySixTimes(t *testing.T) {
	gen := &testutils.FakeGenerator{}
	var ticks atomic.Int32
	s := newTable(t, gen, wheel.WithOnChange(func(wheel.State) { ticks.Add(1) }))
	require.NoError(t, s.Select(7))

	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))
	out, err := s.Wait(waitCtx(t))
	require.NoError(t, err)

	assert.True(t, out.Won)
	assert.Equal(t, 360, out.Delta)
	assert.Equal(t, 1360, out.Balance)
	assert.Eventually(t, func() bool { return ticks.Load() == 67 }, time.Second, time.Millisecond)

	st := s.State()
	assert.False(t, st.Spinning)
	assert.Equal(t, 7, st.CurrentSlot)
	require.NotNil(t, st.Result)
	assert.Equal(t, 7, *st.Result)
	assert.Equal(t, 1360, st.Balance)
	assert.InDelta(t, wheel.FinalRotation(20, 7), st.RotationDegrees, 1e-9)
}

func TestSpin_LossDebitsBet(t *testing.T) {
	gen := &testutils.FakeGenerator{}
	s := newTable(t, gen, wheel.WithSlots(10), wheel.WithBet(25))
	require.NoError(t, s.Select(3))

	var gotSlots int
	gen.SpinFn = func(_ domain.Params, slots int) (domain.SpinResult, error) {
		gotSlots = slots
		return domain.SpinResult{WinningNumber: 4}, nil
	}
	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))
	out, err := s.Wait(waitCtx(t))
	require.NoError(t, err)

	assert.Equal(t, 10, gotSlots)
	assert.False(t, out.Won)
	assert.Equal(t, 975, s.State().Balance)
}

func TestSpin_Preconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*wheel.Simulation)
		want  error
	}{
		{"no selection", func(*wheel.Simulation) {}, wheel.ErrNoSelection},
		{"bet above balance", func(s *wheel.Simulation) {
			_ = s.Select(1)
			_ = s.SetBet(1001)
		}, wheel.ErrInvalidBet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &testutils.FakeGenerator{}
			s := newTable(t, gen)
			tt.setup(s)

			// Invalid params too: preconditions are reported first.
			err := s.Spin(context.Background(), domain.Params{})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want.Error(), s.Feedback().State().Message)
			assert.Zero(t, gen.Calls(domain.OpRoulette))
		})
	}
}

func TestSpin_WagerLockedWhileInFlight(t *testing.T) {
	gen := &testutils.FakeGenerator{
		Gate:    make(chan struct{}),
		Entered: make(chan domain.Operation, 1),
	}
	s := newTable(t, gen, wheel.WithSlots(10), wheel.WithBet(100))
	require.NoError(t, s.Select(3))

	errs := make(chan error, 1)
	go func() { errs <- s.Spin(context.Background(), domain.DefaultParams()) }()
	<-gen.Entered

	assert.ErrorIs(t, s.SetBet(5000), wheel.ErrSpinning)
	assert.ErrorIs(t, s.Select(7), wheel.ErrSpinning)
	assert.ErrorIs(t, s.Reset(), wheel.ErrSpinning)

	close(gen.Gate)
	require.NoError(t, <-errs)
	out, err := s.Wait(waitCtx(t))
	require.NoError(t, err)

	assert.Equal(t, 3, out.Selected)
	assert.Equal(t, 100, out.Bet)
	assert.Equal(t, 900, out.Balance)
	assert.Equal(t, 100, s.State().Bet)
}

func TestSelectAndBetValidation(t *testing.T) {
	s := newTable(t, &testutils.FakeGenerator{})
	assert.ErrorIs(t, s.Select(20), wheel.ErrSlotOutOfRange)
	assert.ErrorIs(t, s.Select(-1), wheel.ErrSlotOutOfRange)
	assert.ErrorIs(t, s.SetBet(0), wheel.ErrInvalidBet)
	require.NoError(t, s.SetBet(50))
	assert.Equal(t, 50, s.State().Bet)
}

func TestSpin_OutOfRangeWinningFails(t *testing.T) {
	gen := &testutils.FakeGenerator{
		SpinFn: func(domain.Params, int) (domain.SpinResult, error) {
			return domain.SpinResult{WinningNumber: 20}, nil
		},
	}
	s := newTable(t, gen)
	require.NoError(t, s.Select(0))

	err := s.Spin(context.Background(), domain.DefaultParams())
	assert.ErrorIs(t, err, wheel.ErrWinningOutOfRange)
	assert.False(t, s.State().Spinning)
	assert.Equal(t, 1000, s.State().Balance)
}

func TestSpin_RemoteFailureLeavesBalance(t *testing.T) {
	gen := &testutils.FakeGenerator{
		SpinFn: func(domain.Params, int) (domain.SpinResult, error) {
			return domain.SpinResult{}, &domain.RemoteError{Operation: domain.OpRoulette, Message: "Error: seed out of range"}
		},
	}
	s := newTable(t, gen)
	require.NoError(t, s.Select(0))

	require.Error(t, s.Spin(context.Background(), domain.DefaultParams()))
	assert.Equal(t, "Error: seed out of range", s.Feedback().State().Message)
	assert.Equal(t, 1000, s.State().Balance)
	assert.Nil(t, s.State().Result)
}

func TestSpin_RejectedWhileSpinning(t *testing.T) {
	gen := &testutils.FakeGenerator{}
	s := newTable(t, gen, wheel.WithTickInterval(time.Hour))
	require.NoError(t, s.Select(7))

	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))
	assert.True(t, s.State().Spinning)

	err := s.Spin(context.Background(), domain.DefaultParams())
	assert.ErrorIs(t, err, wheel.ErrSpinning)
	assert.ErrorIs(t, s.Select(1), wheel.ErrSpinning)
	assert.Equal(t, 1, gen.Calls(domain.OpRoulette))
}

func TestClose_CancelsAnimation(t *testing.T) {
	gen := &testutils.FakeGenerator{}
	s := wheel.New(gen, wheel.WithTickInterval(time.Hour))
	require.NoError(t, s.Select(7))
	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.Wait(context.Background())
		assert.ErrorIs(t, err, wheel.ErrSpinCancelled)
	}()

	s.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Close")
	}
	assert.False(t, s.State().Spinning)
	assert.Equal(t, 1000, s.State().Balance, "cancelled spins are not settled")
}

func TestReset(t *testing.T) {
	gen := &testutils.FakeGenerator{}
	s := newTable(t, gen)
	require.NoError(t, s.Select(3))
	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))
	_, err := s.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Equal(t, 990, s.State().Balance)

	require.NoError(t, s.Reset())
	st := s.State()
	assert.Equal(t, 1000, st.Balance)
	assert.Nil(t, st.Selected)
	assert.Nil(t, st.Result)
	assert.Nil(t, st.Last)
	assert.Equal(t, 0, st.CurrentSlot)
	assert.Equal(t, 10, st.Bet, "bet survives a reset")
}

func TestWait_ReturnsLastOutcome(t *testing.T) {
	s := newTable(t, &testutils.FakeGenerator{})
	_, err := s.Wait(context.Background())
	assert.ErrorIs(t, err, wheel.ErrSpinCancelled)

	require.NoError(t, s.Select(7))
	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))
	first, err := s.Wait(waitCtx(t))
	require.NoError(t, err)

	again, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestDone_KeepsLatestOutcome(t *testing.T) {
	winning := 7
	gen := &testutils.FakeGenerator{
		SpinFn: func(domain.Params, int) (domain.SpinResult, error) {
			return domain.SpinResult{WinningNumber: winning}, nil
		},
	}
	s := newTable(t, gen)
	require.NoError(t, s.Select(7))

	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))
	_, err := s.Wait(waitCtx(t))
	require.NoError(t, err)

	winning = 2
	require.NoError(t, s.Spin(context.Background(), domain.DefaultParams()))
	_, err = s.Wait(waitCtx(t))
	require.NoError(t, err)

	select {
	case out := <-s.Done():
		assert.Equal(t, 2, out.Winning)
		assert.False(t, out.Won)
		assert.Equal(t, 1360-10, out.Balance)
	case <-time.After(time.Second):
		t.Fatal("no outcome delivered")
	}
	select {
	case out := <-s.Done():
		t.Fatalf("unexpected second outcome %+v", out)
	default:
	}
}
