package engine

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// countingStore counts reads so tests can assert which traversals were (not)
// issued.
type countingStore struct {
	store.ProfileStore
	gets     atomic.Int64
	searches atomic.Int64
}

func (c *countingStore) Get(ctx context.Context, id int) (*store.Profile, error) {
	c.gets.Add(1)
	return c.ProfileStore.Get(ctx, id)
}

func (c *countingStore) Search(ctx context.Context, q store.Query) ([]*store.Profile, error) {
	c.searches.Add(1)
	return c.ProfileStore.Search(ctx, q)
}

func single(id int, following ...int) *store.Profile {
	return &store.Profile{ID: id, Gender: store.GenderFemale, Status: store.StatusSingle, Following: following}
}

func married(id int, following ...int) *store.Profile {
	return &store.Profile{ID: id, Gender: store.GenderMale, Status: store.StatusMarried, Following: following}
}

func seed(t *testing.T, profiles ...*store.Profile) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	for _, p := range profiles {
		require.NoError(t, m.Put(context.Background(), p))
	}
	return m
}

func profileIDs(profiles []*store.Profile) []int {
	ids := make([]int, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}
