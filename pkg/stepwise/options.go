package stepwise

import (
	"time"

	"github.com/crimson-sun/stepwise/internal/pipeline"
	"github.com/crimson-sun/stepwise/internal/source"
)

type options struct {
	suffix   string
	pipeline []pipeline.Option
}

// Option configures an Extractor.
type Option func(*options)

// WithSuffix sets the file name suffix FromDir matches.
// Default: ".pytestlog.json".
func WithSuffix(suffix string) Option {
	return func(o *options) {
		o.suffix = suffix
	}
}

// WithClock sets the timestamp source for Document.ProcessedAt.
// Default: time.Now. Pin it for byte-identical reprocessing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.pipeline = append(o.pipeline, pipeline.WithClock(now))
	}
}

// WithRunID sets the generator for Document.RunID. Default: random UUIDs.
func WithRunID(gen func() string) Option {
	return func(o *options) {
		o.pipeline = append(o.pipeline, pipeline.WithRunID(gen))
	}
}

func defaultOptions() options {
	return options{
		suffix: source.DefaultSuffix,
	}
}
