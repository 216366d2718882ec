package wheel

import (
	"testing"
	"time"

	"github.com/aretw0/bbsdemo/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_AbandonsPreviousSpin(t *testing.T) {
	s := New(&testutils.FakeGenerator{}, WithTickInterval(time.Hour))
	t.Cleanup(s.Close)

	require.NoError(t, s.start(20, 3, wager{selected: 3, bet: 10}))
	s.mu.Lock()
	first := s.current
	s.mu.Unlock()
	require.NotNil(t, first)

	require.NoError(t, s.start(20, 5, wager{selected: 1, bet: 10}))
	s.mu.Lock()
	second := s.current
	s.mu.Unlock()

	assert.NotSame(t, first, second)
	select {
	case <-first.settled:
	default:
		t.Fatal("previous spin still pending")
	}
	select {
	case <-first.task.Done():
	default:
		t.Fatal("previous ticker still running")
	}
	assert.Nil(t, first.outcome)

	st := s.State()
	assert.True(t, st.Spinning)
	assert.Equal(t, 1000, st.Balance)
}
