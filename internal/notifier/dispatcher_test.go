package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
)

// recordingSender captures delivered leads and can be told to fail the first
// N attempts.
type recordingSender struct {
	mu        sync.Mutex
	delivered []int64
	failFirst int
	attempts  int
	done      chan struct{}
}

func newRecordingSender(failFirst int) *recordingSender {
	return &recordingSender{failFirst: failFirst, done: make(chan struct{}, 16)}
}

func (s *recordingSender) NotifyLeadCreated(_ context.Context, lead *domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failFirst {
		return errors.New("transient delivery failure")
	}
	s.delivered = append(s.delivered, lead.ID)
	s.done <- struct{}{}
	return nil
}

func (s *recordingSender) deliveredIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.delivered))
	copy(out, s.delivered)
	return out
}

func testDispatcherConfig() Config {
	cfg := DefaultConfig()
	cfg.WorkerCount = 1
	cfg.RetryDelay = time.Millisecond
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func waitDelivered(t *testing.T, sender *recordingSender) {
	t.Helper()
	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestDispatcher_DeliversSubmittedLead(t *testing.T) {
	sender := newRecordingSender(0)
	d := NewDispatcher(sender, zap.NewNop(), testDispatcherConfig())
	require.NoError(t, d.Start())
	defer d.Stop()

	require.NoError(t, d.Submit(&domain.Lead{ID: 42}))
	waitDelivered(t, sender)

	assert.Equal(t, []int64{42}, sender.deliveredIDs())
}

func TestDispatcher_RetriesTransientFailures(t *testing.T) {
	sender := newRecordingSender(2)
	d := NewDispatcher(sender, zap.NewNop(), testDispatcherConfig())
	require.NoError(t, d.Start())
	defer d.Stop()

	require.NoError(t, d.Submit(&domain.Lead{ID: 7}))
	waitDelivered(t, sender)

	assert.Equal(t, []int64{7}, sender.deliveredIDs())
	sender.mu.Lock()
	assert.Equal(t, 3, sender.attempts)
	sender.mu.Unlock()
}

func TestDispatcher_SubmitBeforeStart(t *testing.T) {
	d := NewDispatcher(newRecordingSender(0), zap.NewNop(), testDispatcherConfig())
	err := d.Submit(&domain.Lead{ID: 1})
	assert.Error(t, err)
}

func TestDispatcher_QueueFullDoesNotBlock(t *testing.T) {
	cfg := testDispatcherConfig()
	cfg.WorkerCount = 0 // nothing drains the queue
	cfg.BufferSize = 1

	d := NewDispatcher(newRecordingSender(0), zap.NewNop(), cfg)
	require.NoError(t, d.Start())
	defer d.Stop()

	require.NoError(t, d.Submit(&domain.Lead{ID: 1}))

	done := make(chan error, 1)
	go func() { done <- d.Submit(&domain.Lead{ID: 2}) }()

	select {
	case err := <-done:
		assert.Error(t, err, "a full queue must reject, not block")
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
}

// gatedSender blocks every delivery until the gate is opened, letting tests
// pile events up in the queue.
type gatedSender struct {
	recordingSender
	gate chan struct{}
}

func (s *gatedSender) NotifyLeadCreated(ctx context.Context, lead *domain.Lead) error {
	<-s.gate
	return s.recordingSender.NotifyLeadCreated(ctx, lead)
}

func TestDispatcher_StopDrainsBufferedEvents(t *testing.T) {
	sender := &gatedSender{
		recordingSender: recordingSender{done: make(chan struct{}, 16)},
		gate:            make(chan struct{}),
	}
	cfg := testDispatcherConfig()
	cfg.BufferSize = 8

	d := NewDispatcher(sender, zap.NewNop(), cfg)
	require.NoError(t, d.Start())

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, d.Submit(&domain.Lead{ID: i}))
	}

	stopped := make(chan error, 1)
	go func() { stopped <- d.Stop() }()

	// Releasing the gate while Stop is waiting must let the workers empty the
	// queue before shutdown completes.
	close(sender.gate)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the queue drained")
	}

	assert.Equal(t, []int64{1, 2, 3}, sender.deliveredIDs())
}

func TestDispatcher_GracefulStop(t *testing.T) {
	sender := newRecordingSender(0)
	d := NewDispatcher(sender, zap.NewNop(), testDispatcherConfig())
	require.NoError(t, d.Start())

	require.NoError(t, d.Submit(&domain.Lead{ID: 5}))
	waitDelivered(t, sender)

	assert.NoError(t, d.Stop())
	assert.Error(t, d.Stop(), "second stop reports not started")
}
