package engine

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// Traversals issue one store read per neighbor; cap how many run at once.
const maxStoreFanOut = 8

// newProfileLoader batches the point reads of one traversal. A fresh loader is
// created per call so its cache never outlives the request.
func newProfileLoader(s store.ProfileStore) *dataloader.Loader[int, *store.Profile] {
	return dataloader.NewBatchedLoader(profileBatchFn(s),
		dataloader.WithWait[int, *store.Profile](2*time.Millisecond))
}

func profileBatchFn(s store.ProfileStore) dataloader.BatchFunc[int, *store.Profile] {
	return func(ctx context.Context, keys []int) []*dataloader.Result[*store.Profile] {
		results := make([]*dataloader.Result[*store.Profile], len(keys))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxStoreFanOut)
		for i, id := range keys {
			i, id := i, id
			g.Go(func() error {
				p, err := s.Get(gctx, id)
				results[i] = &dataloader.Result[*store.Profile]{Data: p, Error: err}
				return nil
			})
		}
		_ = g.Wait()
		return results
	}
}
