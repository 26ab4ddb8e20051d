// Package file provides the single-log source: one explicit path.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/crimson-sun/stepwise/internal/source"
)

func init() {
	source.Register("file", func() source.Source { return &Source{} })
}

// Source resolves exactly the configured path.
type Source struct{}

// Discover stats the configured path and returns it. A missing file is an
// error here rather than downstream, so discovery failures read as such.
func (s *Source) Discover(_ context.Context, cfg source.Config) ([]string, error) {
	info, err := os.Stat(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("file source: %s is a directory, want a log file", cfg.Path)
	}
	return []string{cfg.Path}, nil
}
