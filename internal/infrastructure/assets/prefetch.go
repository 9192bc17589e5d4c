package assets

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

// DefaultPrefetchConcurrency bounds parallel warm-up requests.
const DefaultPrefetchConcurrency = 4

// Prefetch fetches every reference through f, at most limit at a time, so a
// caching fetcher is warm before the user starts switching models. The first
// failure cancels the remaining requests and is returned.
func Prefetch(ctx context.Context, f ports.Fetcher, refs []string, limit int) error {
	if limit <= 0 {
		limit = DefaultPrefetchConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			_, err := f.Fetch(gctx, ref)
			return err
		})
	}
	return g.Wait()
}
