package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/stepwise/internal/model"
	"github.com/crimson-sun/stepwise/internal/output"
)

// Output writes JSON-encoded command info documents to stdout.
type Output struct {
	enc       *json.Encoder
	verbosity output.Verbosity
}

// New creates a stdout Output with verbosity-aware field stripping and
// optional pretty-printed JSON.
func New(verbosity output.Verbosity, pretty bool) *Output {
	return newTo(os.Stdout, verbosity, pretty)
}

func newTo(w io.Writer, verbosity output.Verbosity, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, verbosity: verbosity}
}

func (o *Output) Write(_ context.Context, doc model.Document) error {
	formatted := output.FormatDocument(doc, o.verbosity)
	if err := o.enc.Encode(formatted); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
