package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/crimson-sun/stepwise/internal/model"
)

func doc() model.Document {
	return model.Document{
		RunID:  "run-1",
		Source: "run.pytestlog.json",
		Steps: model.StepList{
			{Step: "setup", Entries: []model.CommandEntry{
				{Commands: []string{"system-view"}, ExecRes: "PASS", Expect: []string{}},
			}},
		},
	}
}

func TestWriteDelivers(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	o := New(srv.URL)
	if err := o.Write(context.Background(), doc()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	var delivered model.Document
	if err := json.Unmarshal(gotBody, &delivered); err != nil {
		t.Fatalf("body is not a document: %v", err)
	}
	if delivered.RunID != "run-1" {
		t.Errorf("RunID = %q", delivered.RunID)
	}
}

func TestWriteSendsCustomHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	o := New(srv.URL, WithHeaders(map[string]string{"Authorization": "Bearer tok"}))
	if err := o.Write(context.Background(), doc()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestWriteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	o := New(srv.URL)
	if err := o.Write(context.Background(), doc()); err != nil {
		t.Fatalf("Write after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
}

func TestWriteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	o := New(srv.URL)
	err := o.Write(context.Background(), doc())
	if err == nil {
		t.Fatal("expected error for HTTP 422")
	}
	if !strings.Contains(err.Error(), "422") {
		t.Errorf("err = %v, want the status code", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (no retry on 4xx)", got)
	}
}

func TestWriteCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	o := New(srv.URL)
	go func() { done <- o.Write(ctx, doc()) }()
	cancel()

	if err := <-done; err == nil {
		t.Fatal("expected an error after cancellation")
	}
}
