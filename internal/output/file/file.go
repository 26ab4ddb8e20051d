package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/stepwise/internal/model"
	"github.com/crimson-sun/stepwise/internal/output"
)

const defaultSuffix = ".commands.json"

// Option configures a file Output.
type Option func(*Output)

// WithSuffix sets the artifact filename suffix. Default: ".commands.json".
func WithSuffix(s string) Option {
	return func(o *Output) { o.suffix = s }
}

// WithCompact disables pretty-printing of artifact files.
func WithCompact() Option {
	return func(o *Output) { o.compact = true }
}

// Output writes each document as a sibling artifact file in a directory:
// the command info for <dir>/x.pytestlog.json lands in
// <outdir>/x.commands.json. One artifact per source log, overwritten on
// reprocessing so reruns converge on identical files.
type Output struct {
	dir       string
	suffix    string
	compact   bool
	verbosity output.Verbosity
}

// New creates a file output rooted at dir, creating it if needed.
func New(dir string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{
		dir:       dir,
		suffix:    defaultSuffix,
		verbosity: verbosity,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("file output: mkdir %s: %w", dir, err)
	}
	return o, nil
}

// Write JSON-encodes the document into its artifact file.
func (o *Output) Write(_ context.Context, doc model.Document) error {
	formatted := output.FormatDocument(doc, o.verbosity)

	var data []byte
	var err error
	if o.compact {
		data, err = json.Marshal(formatted)
	} else {
		data, err = json.MarshalIndent(formatted, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(o.dir, o.artifactName(doc))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("file output: write %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; every Write is self-contained.
func (o *Output) Close() error {
	return nil
}

// artifactName derives the artifact filename from the source log path,
// falling back to the run ID for documents without one.
func (o *Output) artifactName(doc model.Document) string {
	base := filepath.Base(doc.Source)
	if base == "." || base == string(filepath.Separator) {
		return doc.RunID + o.suffix
	}
	base = strings.TrimSuffix(base, ".pytestlog.json")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + o.suffix
}
