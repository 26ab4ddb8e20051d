// Package multi fans documents out to several destinations at once, so one
// extraction run can both print to stdout and archive to the store.
package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/stepwise/internal/model"
	"github.com/crimson-sun/stepwise/internal/output"
)

// Output delivers every document to each wrapped destination in turn.
// A failing destination never starves the ones after it; their errors are
// joined and reported together.
type Output struct {
	outputs []output.Output
}

// New creates a fan-out over the given destinations.
func New(outputs ...output.Output) *Output {
	return &Output{outputs: outputs}
}

// Write hands the document to every destination, collecting failures.
func (o *Output) Write(ctx context.Context, doc model.Document) error {
	var errs []error
	for _, out := range o.outputs {
		if err := out.Write(ctx, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every destination, collecting failures.
func (o *Output) Close() error {
	var errs []error
	for _, out := range o.outputs {
		if err := out.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
