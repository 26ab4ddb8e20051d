package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/crimson-sun/stepwise/internal/model"
)

type fakeOutput struct {
	writeErr error
	closeErr error
	docs     []model.Document
	closed   bool
}

func (f *fakeOutput) Write(_ context.Context, doc model.Document) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeOutput) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteFansOut(t *testing.T) {
	a, b := &fakeOutput{}, &fakeOutput{}
	m := New(a, b)

	doc := model.Document{RunID: "run-1"}
	if err := m.Write(context.Background(), doc); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(a.docs) != 1 || len(b.docs) != 1 {
		t.Errorf("deliveries = (%d, %d), want (1, 1)", len(a.docs), len(b.docs))
	}
}

func TestWriteContinuesPastFailure(t *testing.T) {
	boom := errors.New("sink down")
	a := &fakeOutput{writeErr: boom}
	b := &fakeOutput{}
	m := New(a, b)

	err := m.Write(context.Background(), model.Document{RunID: "run-1"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the sink error", err)
	}
	if len(b.docs) != 1 {
		t.Error("second output must still receive the document")
	}
}

func TestCloseClosesAll(t *testing.T) {
	boom := errors.New("close failed")
	a := &fakeOutput{closeErr: boom}
	b := &fakeOutput{}
	m := New(a, b)

	err := m.Close()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the close error", err)
	}
	if !a.closed || !b.closed {
		t.Error("every output must be closed")
	}
}
