package actions

import (
	"context"
	"sync"
	"time"
)

// DefaultSendTimeout bounds one delivery attempt so a hung transport cannot
// pin a worker forever.
var DefaultSendTimeout = 30 * time.Second

// Dispatcher fans mail out to a fixed-size worker pool over a bounded
// queue. Enqueueing never blocks the request path: a full queue surfaces as
// ErrMailQueueFull instead of an unbounded pile of goroutines.
type Dispatcher struct {
	sender  Sender
	queue   chan *MailMessage
	wg      sync.WaitGroup
	logger  Logger
	timeout time.Duration

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewDispatcher creates a dispatcher with the given pool and queue sizes.
// Non-positive sizes fall back to one worker and a queue of 16.
func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}

	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan *MailMessage, queueSize),
		logger:  defLogger{},
		timeout: DefaultSendTimeout,
	}

	d.start(workers)
	return d
}

// NewDispatcherWithConfig sizes the pool and queue from the shared config.
func NewDispatcherWithConfig(cfg Config, sender Sender) *Dispatcher {
	return NewDispatcher(sender, cfg.GetMailWorkers(), cfg.GetMailQueueSize())
}

// WithLogger overrides the logger used by the dispatcher workers.
func (d *Dispatcher) WithLogger(logger Logger) *Dispatcher {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// WithSendTimeout overrides the per-delivery timeout.
func (d *Dispatcher) WithSendTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

func (d *Dispatcher) start(workers int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return
	}
	d.started = true

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			// fire-and-forget: delivery failures are logged, never surfaced
			d.logger.Error("mail delivery failed to=%s: %v", msg.To, err)
		}
		cancel()
	}
}

// Dispatch enqueues a message without blocking. Returns ErrMailQueueFull
// when the queue is at capacity so callers can shed load explicitly.
func (d *Dispatcher) Dispatch(msg *MailMessage) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrMailQueueFull
	}

	select {
	case d.queue <- msg:
		d.mu.Unlock()
		return nil
	default:
		d.mu.Unlock()
		return ErrMailQueueFull
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
