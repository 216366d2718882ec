package schedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/bbsdemo/pkg/schedule"
	"github.com/stretchr/testify/assert"
)

func TestEvery_StopsWhenFnReturnsFalse(t *testing.T) {
	var n atomic.Int32
	task := schedule.Every(context.Background(), time.Millisecond, func() bool {
		return n.Add(1) < 5
	})

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish")
	}
	assert.Equal(t, int32(5), n.Load())
}

func TestEvery_Cancel(t *testing.T) {
	var n atomic.Int32
	task := schedule.Every(context.Background(), time.Millisecond, func() bool {
		n.Add(1)
		return true
	})

	assert.Eventually(t, func() bool { return n.Load() > 0 }, time.Second, time.Millisecond)
	task.Cancel()
	task.Cancel()
	task.Wait()

	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, n.Load(), "no ticks after cancel")
}

func TestEvery_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := schedule.Every(ctx, time.Hour, func() bool { return true })
	cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task ignored context cancellation")
	}
}

func TestNilTask(t *testing.T) {
	var task *schedule.Task
	assert.NotPanics(t, func() {
		task.Cancel()
		task.Wait()
	})
}
