package core

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Ponnammaah123/test-agent/schema"
)

// AllFiles fetches the branch's full file tree with content. Individual
// fetch failures skip the file; only the tree listing itself is fatal.
func (a *Analyzer) AllFiles(ctx context.Context, branch string) (map[string]*schema.CachedFile, error) {
	paths, err := a.host.ListTree(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree for '%s': %w", branch, err)
	}

	var mu sync.Mutex
	result := make(map[string]*schema.CachedFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for _, path := range paths {
		g.Go(func() error {
			content, err := a.host.FileContent(gctx, path, branch)
			if err != nil {
				a.logger.Warn().Err(err).Str("path", path).Msg("File fetch failed; skipping")
				return nil
			}
			file := schema.NewCachedFile(path, schema.StatusExisting, content, nil, nil, 0, 0)
			mu.Lock()
			result[path] = file
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}
