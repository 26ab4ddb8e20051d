package stepwise

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/stepwise/internal/pipeline"
	"github.com/crimson-sun/stepwise/internal/source"
	"github.com/crimson-sun/stepwise/internal/source/dir"
)

// ErrLogRead marks missing or unreadable session log files. Malformed
// content never produces this error — it degrades to a document carrying
// warnings instead.
var ErrLogRead = pipeline.ErrLogRead

// Extractor turns session logs into command info documents.
// Safe for concurrent use.
type Extractor struct {
	processor *pipeline.Processor
	suffix    string
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Extractor{
		processor: pipeline.New(o.pipeline...),
		suffix:    o.suffix,
	}
}

// FromFile extracts the command info document from a single session log.
func (x *Extractor) FromFile(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	doc, err := x.processor.Process(path)
	if err != nil {
		return Document{}, err
	}
	return fromModel(doc), nil
}

// FromDir extracts a document for every session log under root, in sorted
// path order. Extraction continues past unreadable files; their errors are
// joined and returned alongside the documents that did succeed.
func (x *Extractor) FromDir(ctx context.Context, root string) ([]Document, error) {
	var src dir.Source
	paths, err := src.Discover(ctx, source.Config{Path: root, Suffix: x.suffix})
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(paths))
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		doc, err := x.FromFile(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errors.Join(errs...)
}
