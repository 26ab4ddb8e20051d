package output

import (
	"context"

	"github.com/crimson-sun/stepwise/internal/model"
)

// Output defines the interface for command info document destinations.
type Output interface {
	Write(ctx context.Context, doc model.Document) error
	Close() error
}
