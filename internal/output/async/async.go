// Package async detaches document delivery from extraction. Slow sinks —
// a webhook behind a flaky link, a store on network storage — otherwise
// stall the whole run between files; here the pipeline drops each document
// into a buffer and moves on while a background goroutine delivers.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/stepwise/internal/model"
	"github.com/crimson-sun/stepwise/internal/output"
)

const (
	defaultBufferSize   = 64
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an async Output.
type Option func(*Output)

// WithBufferSize sets how many documents may queue before Write blocks
// (or drops, under WithDropOnFull). Default: 64.
func WithBufferSize(n int) Option {
	return func(o *Output) { o.bufSize = n }
}

// WithOnError sets the callback for delivery failures. Delivery happens
// after Write has returned, so the error cannot reach the caller; the
// default logs a warning.
func WithOnError(f func(error)) Option {
	return func(o *Output) { o.errFunc = f }
}

// WithDropOnFull drops the document instead of blocking when the queue is
// full. Only for sinks that tolerate loss.
func WithDropOnFull() Option {
	return func(o *Output) { o.dropOnFull = true }
}

// Output queues documents for background delivery to a wrapped sink.
type Output struct {
	inner      output.Output
	ch         chan model.Document
	done       chan struct{}
	errFunc    func(error)
	bufSize    int
	dropOnFull bool
	closeOnce  sync.Once
}

// New starts the delivery goroutine and returns the queueing Output.
func New(inner output.Output, opts ...Option) *Output {
	o := &Output{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: func(err error) { slog.Warn("async delivery failed", "error", err) },
	}
	for _, opt := range opts {
		opt(o)
	}
	o.ch = make(chan model.Document, o.bufSize)
	o.done = make(chan struct{})
	go o.deliver()
	return o
}

// Write queues the document. A full queue blocks until the sink catches up,
// unless WithDropOnFull was set.
func (o *Output) Write(_ context.Context, doc model.Document) error {
	if o.dropOnFull {
		select {
		case o.ch <- doc:
		default:
			slog.Warn("async queue full, dropping document",
				"source", doc.Source, "run_id", doc.RunID)
		}
		return nil
	}
	o.ch <- doc
	return nil
}

// Close stops accepting documents, waits for the queue to drain (bounded by
// a timeout), then closes the sink. Safe to call more than once.
func (o *Output) Close() error {
	var err error
	o.closeOnce.Do(func() {
		close(o.ch)
		select {
		case <-o.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("async queue drain timed out")
		}
		err = o.inner.Close()
	})
	return err
}

func (o *Output) deliver() {
	defer close(o.done)
	for doc := range o.ch {
		if err := o.inner.Write(context.Background(), doc); err != nil {
			o.errFunc(err)
		}
	}
}
