package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Options 分发器参数
type Options struct {
	QueueSize   int
	Workers     int
	SinkTimeout time.Duration
}

func (o *Options) withDefaults() {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.SinkTimeout <= 0 {
		o.SinkTimeout = 5 * time.Second
	}
}

// Dispatcher queues events and fans them out to sinks on worker goroutines.
// Notify never blocks: when the queue is full the event is dropped and logged.
type Dispatcher struct {
	queue   chan Event
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

// NewDispatcher creates a dispatcher and starts its workers
func NewDispatcher(logger *zap.Logger, opts Options, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.withDefaults()

	d := &Dispatcher{
		queue:   make(chan Event, opts.QueueSize),
		sinks:   sinks,
		timeout: opts.SinkTimeout,
		logger:  logger,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Notify enqueues an event
func (d *Dispatcher) Notify(_ context.Context, event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}
	select {
	case d.queue <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Dropped returns how many events were discarded
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close stops accepting events and waits for queued ones to be delivered
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for event := range d.queue {
		for _, sink := range d.sinks {
			d.deliver(sink, event)
		}
	}
}

func (d *Dispatcher) deliver(sink Sink, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification sink panicked",
				zap.String("sink", sink.Name()),
				zap.String("event", event.Type),
				zap.Any("panic", r))
		}
	}()

	if err := sink.Deliver(ctx, event); err != nil {
		d.logger.Warn("notification sink failed",
			zap.String("sink", sink.Name()),
			zap.String("event", event.Type),
			zap.String("quotation_id", event.QuotationID),
			zap.Error(err))
	}
}

func (d *Dispatcher) drop(event Event, reason string) {
	d.dropped.Add(1)
	d.logger.Warn("notification dropped",
		zap.String("reason", reason),
		zap.String("event", event.Type),
		zap.String("quotation_id", event.QuotationID))
}
