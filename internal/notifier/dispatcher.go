// Package notifier delivers "lead created" domain events to the outbound
// messaging boundary. The core's obligation ends at a successful enqueue;
// delivery, retries and failures stay on this side of the channel and never
// touch the request that created the lead.
package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
)

// Sender delivers one lead notification. Implementations own their transport
// concerns; the dispatcher only drives retries around them.
type Sender interface {
	NotifyLeadCreated(ctx context.Context, lead *domain.Lead) error
}

// Config holds configuration for the notification dispatcher.
type Config struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the event queue buffer
	RetryAttempts   int           // Number of retry attempts for failed deliveries
	RetryDelay      time.Duration // Base delay between retries
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
	SendTimeout     time.Duration // Per-attempt delivery timeout
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     2,
		BufferSize:      256,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		ShutdownTimeout: 30 * time.Second,
		SendTimeout:     15 * time.Second,
	}
}

// Dispatcher fans lead-created events out to the Sender asynchronously.
type Dispatcher struct {
	config  Config
	sender  Sender
	log     *zap.Logger
	queue   chan *domain.Lead
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(sender Sender, log *zap.Logger, config Config) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		config: config,
		sender: sender,
		log:    log,
		queue:  make(chan *domain.Lead, config.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return fmt.Errorf("dispatcher already started")
	}

	d.log.Info("starting notification dispatcher",
		zap.Int("workers", d.config.WorkerCount),
		zap.Int("buffer_size", d.config.BufferSize))

	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.started = true
	return nil
}

// Stop gracefully shuts down the dispatcher, draining buffered and in-flight
// work. The queue is closed first and workers keep delivering until it is
// empty; only when the shutdown timeout expires are remaining deliveries
// aborted via context cancellation.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return fmt.Errorf("dispatcher not started")
	}

	d.log.Info("stopping notification dispatcher")
	d.started = false
	close(d.queue)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.log.Info("notification dispatcher stopped gracefully")
	case <-time.After(d.config.ShutdownTimeout):
		d.cancel()
		d.log.Warn("notification dispatcher shutdown timeout reached, aborting pending deliveries")
		return fmt.Errorf("shutdown timeout reached")
	}

	return nil
}

// Submit enqueues a created lead for asynchronous notification. A full queue
// drops the event with an error rather than blocking the submitting request.
func (d *Dispatcher) Submit(lead *domain.Lead) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.started {
		return fmt.Errorf("dispatcher not started")
	}

	select {
	case d.queue <- lead:
		d.log.Debug("lead notification enqueued", zap.Int64("lead_id", lead.ID))
		return nil
	case <-d.ctx.Done():
		return fmt.Errorf("dispatcher is shutting down")
	default:
		d.log.Error("notification queue is full, dropping lead event",
			zap.Int64("lead_id", lead.ID),
			zap.Int("queue_size", len(d.queue)))
		return fmt.Errorf("notification queue is full")
	}
}

// worker delivers queued events with retry logic.
func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()

	log := d.log.With(zap.Int("worker_id", workerID))
	log.Info("notification worker started")

	for {
		select {
		case lead := <-d.queue:
			if lead == nil {
				// Channel closed, worker should exit.
				log.Info("notification worker stopped")
				return
			}
			d.deliverWithRetry(log, lead)

		case <-d.ctx.Done():
			log.Info("notification worker received shutdown signal")
			return
		}
	}
}

// deliverWithRetry attempts delivery with exponential backoff.
func (d *Dispatcher) deliverWithRetry(log *zap.Logger, lead *domain.Lead) {
	var lastErr error

	for attempt := 1; attempt <= d.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(d.ctx, d.config.SendTimeout)
		err := d.sender.NotifyLeadCreated(ctx, lead)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info("lead notification succeeded after retry",
					zap.Int64("lead_id", lead.ID),
					zap.Int("attempt", attempt))
			}
			return
		}

		lastErr = err
		log.Warn("lead notification failed",
			zap.Int64("lead_id", lead.ID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", d.config.RetryAttempts),
			zap.Error(err))

		if attempt == d.config.RetryAttempts {
			break
		}

		delay := d.config.RetryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-d.ctx.Done():
			log.Info("worker shutdown during retry delay")
			return
		}
	}

	log.Error("lead notification failed after all retries",
		zap.Int64("lead_id", lead.ID),
		zap.Int("attempts", d.config.RetryAttempts),
		zap.Error(lastErr))
}
