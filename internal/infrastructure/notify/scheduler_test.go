package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/pkg/logger"
)

// blockingDispatcher parks ProcessBatch until released so tests can
// hold a drain open.
type blockingDispatcher struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func newBlockingDispatcher() *blockingDispatcher {
	return &blockingDispatcher{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (d *blockingDispatcher) ProcessBatch(ctx context.Context) (int, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()

	close(d.started)
	<-d.release
	return 0, nil
}

func (d *blockingDispatcher) PurgeSent(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func (d *blockingDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func TestDrainOutboxSkipsOverlappingRuns(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "error"})
	require.NoError(t, err)

	dispatcher := newBlockingDispatcher()
	scheduler := NewScheduler(dispatcher, nil, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.drainOutbox()
	}()

	// Wait until the first drain is inside ProcessBatch, then tick
	// again as cron would after a minute.
	<-dispatcher.started
	scheduler.drainOutbox()
	assert.Equal(t, 1, dispatcher.callCount(), "overlapping drain must be skipped")

	close(dispatcher.release)
	<-done

	// Once the held drain finishes, the next tick runs normally.
	second := newBlockingDispatcher()
	close(second.release)
	fresh := NewScheduler(second, nil, log)
	fresh.drainOutbox()
	assert.Equal(t, 1, second.callCount())
}
