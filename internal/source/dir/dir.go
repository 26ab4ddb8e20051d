// Package dir provides the directory source: a recursive walk collecting
// every session log under a root, the way test runners drop one log per
// executed script into a results tree.
package dir

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crimson-sun/stepwise/internal/source"
)

func init() {
	source.Register("dir", func() source.Source { return &Source{} })
}

// Source walks a directory tree for session logs.
type Source struct{}

// Discover returns every file under the root whose name ends with the
// configured suffix, in sorted order for run-to-run stability.
func (s *Source) Discover(ctx context.Context, cfg source.Config) ([]string, error) {
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = source.DefaultSuffix
	}

	var paths []string
	err := filepath.WalkDir(cfg.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dir source: walk %s: %w", cfg.Path, err)
	}
	sort.Strings(paths)
	return paths, nil
}
