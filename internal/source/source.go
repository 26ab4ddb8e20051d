// Package source locates the session logs a processing run should cover.
package source

import "context"

// Source discovers session log paths. Implementations must return paths in
// a stable order so repeated runs process files identically.
type Source interface {
	Discover(ctx context.Context, cfg Config) ([]string, error)
}

// Config holds provider-specific discovery settings.
type Config struct {
	Provider string
	Path     string
	Suffix   string // log filename suffix for directory scans
}

// DefaultSuffix is the session log filename suffix test runners produce.
const DefaultSuffix = ".pytestlog.json"
