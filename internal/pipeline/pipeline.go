// Package pipeline turns a session log file into a command info document:
// read → decode → segment → arrange. One invocation handles one file; no
// state survives across invocations, so callers may run files in parallel.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/stepwise/internal/decode"
	"github.com/crimson-sun/stepwise/internal/extract"
	"github.com/crimson-sun/stepwise/internal/extract/segment"
	"github.com/crimson-sun/stepwise/internal/model"
	"github.com/crimson-sun/stepwise/internal/output"
)

// ErrLogRead marks missing or unreadable input files. It is a distinct
// error kind so callers can tell "no data to extract" apart from "data was
// malformed" — malformed data never produces an error at all, only a
// degraded document.
var ErrLogRead = errors.New("session log unreadable")

// Option configures a Processor.
type Option func(*Processor)

// WithClock sets the timestamp source. Default: time.Now. Pin it for
// byte-identical reprocessing.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithRunID sets the run-ID generator. Default: random UUIDs.
func WithRunID(gen func() string) Option {
	return func(p *Processor) { p.newID = gen }
}

// Processor is the top-level entry for one session log.
type Processor struct {
	segmenter *segment.Segmenter
	arranger  *extract.Arranger
	now       func() time.Time
	newID     func() string
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		segmenter: segment.New(),
		arranger:  extract.New(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process reads the log at path and produces its command info document.
// Any readable file yields a document, however degraded; only read failures
// return an error, always wrapping ErrLogRead.
func (p *Processor) Process(path string) (model.Document, error) {
	data, err := readLog(path)
	if err != nil {
		return model.Document{}, err
	}

	doc := model.Document{
		RunID:       p.newID(),
		Source:      path,
		ProcessedAt: p.now().UTC(),
	}

	tree, err := decode.Session(data)
	if err != nil {
		// Undecodable content is an extraction anomaly, not an I/O failure:
		// the caller still gets a document, with the anomaly on record.
		doc.Steps = model.StepList{}
		doc.Warnings = []string{err.Error()}
		return doc, nil
	}

	res := p.arranger.Arrange(p.segmenter.Split(tree))
	doc.Steps = res.Steps
	doc.Warnings = res.Warnings
	return doc, nil
}

// Run processes each path and hands the documents to out, continuing past
// per-file failures. The joined per-file errors are returned at the end.
func (p *Processor) Run(ctx context.Context, paths []string, out output.Output) error {
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := p.Process(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := out.Write(ctx, doc); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// readLog reads the whole file, releasing the handle on every exit path.
func readLog(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogRead, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLogRead, path, err)
	}
	return data, nil
}
