package jobs

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Topo-Jon/Pagos/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Setup("test")
	os.Exit(m.Run())
}

func TestEnqueue_ProcessesJob(t *testing.T) {
	w := NewWorker(1)
	done := make(chan struct{})

	w.Enqueue(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job never ran")
	}
	w.Shutdown()

	stats := w.GetStats()
	assert.EqualValues(t, 1, stats.CompletedJobs)
	assert.EqualValues(t, 0, stats.FailedJobs)
}

func TestEnqueueAsync_ShutdownWaitsForInflightJob(t *testing.T) {
	w := NewWorker(1)
	var done atomic.Bool

	w.EnqueueAsync(func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
		return nil
	})

	w.Shutdown()

	assert.True(t, done.Load(), "shutdown returned before the async job finished")
}

func TestEnqueueAsync_FailureTracked(t *testing.T) {
	w := NewWorker(1)

	w.EnqueueAsync(func(ctx context.Context) error {
		return assert.AnError
	})
	w.Shutdown()

	stats := w.GetStats()
	assert.EqualValues(t, 1, stats.FailedJobs)
}
