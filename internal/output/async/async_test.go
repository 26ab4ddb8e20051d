package async

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/crimson-sun/stepwise/internal/model"
)

type fakeOutput struct {
	mu       sync.Mutex
	docs     []model.Document
	writeErr error
	closed   bool
	block    chan struct{}
}

func (f *fakeOutput) Write(_ context.Context, doc model.Document) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeOutput) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

func TestWriteDeliversThroughDrain(t *testing.T) {
	inner := &fakeOutput{}
	a := New(inner)

	for i := 0; i < 5; i++ {
		if err := a.Write(context.Background(), model.Document{RunID: "run"}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := inner.count(); got != 5 {
		t.Errorf("delivered %d documents, want 5", got)
	}
	if !inner.closed {
		t.Error("Close must close the inner output")
	}
}

func TestWriteErrorsGoToCallback(t *testing.T) {
	boom := errors.New("sink down")
	inner := &fakeOutput{writeErr: boom}

	var mu sync.Mutex
	var seen []error
	a := New(inner, WithOnError(func(err error) {
		mu.Lock()
		seen = append(seen, err)
		mu.Unlock()
	}))

	if err := a.Write(context.Background(), model.Document{}); err != nil {
		t.Fatalf("Write must not surface inner errors, got %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || !errors.Is(seen[0], boom) {
		t.Errorf("callback saw %v, want the sink error once", seen)
	}
}

func TestDropOnFull(t *testing.T) {
	block := make(chan struct{})
	inner := &fakeOutput{block: block}
	a := New(inner, WithBufferSize(1), WithDropOnFull())

	// First write may be picked up by the drain goroutine; fill the buffer
	// past capacity so later writes have nowhere to go.
	for i := 0; i < 4; i++ {
		if err := a.Write(context.Background(), model.Document{RunID: "run"}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	close(block)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := inner.count(); got >= 4 {
		t.Errorf("delivered %d documents, expected drops", got)
	}
}

func TestCloseIdempotent(t *testing.T) {
	a := New(&fakeOutput{})
	if err := a.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
