package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

func TestMatchesGateForNonSingles(t *testing.T) {
	m := seed(t, married(1), single(2))
	cs := &countingStore{ProfileStore: m}
	e := NewMatchEngine(cs)

	got, err := e.Matches(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int64(0), cs.searches.Load())
}

func TestMatchesUnknownUser(t *testing.T) {
	e := NewMatchEngine(seed(t))
	_, err := e.Matches(context.Background(), 1)
	assert.True(t, store.IsNotFound(err))
}

func TestMatchesInterestsBeatDistance(t *testing.T) {
	requester := single(1)
	requester.Interests = []string{"reading", "hiking"}

	// X shares two interests but sits a degree away; Y shares one interest
	// right next door. X must still rank first.
	x := single(2)
	x.Interests = []string{"reading", "hiking", "cooking"}
	x.Location = store.Position{Lon: 0, Lat: 1}

	y := single(3)
	y.Interests = []string{"hiking"}
	y.Location = store.Position{Lon: 0, Lat: 0.01}

	m := seed(t, requester, x, y)
	e := NewMatchEngine(m)

	got, err := e.Matches(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, profileIDs(got))
}

func TestMatchesDistanceBreaksInterestTies(t *testing.T) {
	requester := single(1)
	requester.Interests = []string{"reading"}

	far := single(2)
	far.Interests = []string{"reading"}
	far.Location = store.Position{Lon: 0, Lat: 2}

	near := single(3)
	near.Interests = []string{"reading"}
	near.Location = store.Position{Lon: 0, Lat: 1}

	m := seed(t, requester, far, near)
	e := NewMatchEngine(m)

	got, err := e.Matches(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, profileIDs(got))
}

func TestMatchesFullTiesKeepStoreOrder(t *testing.T) {
	requester := single(1)
	// Identical interests and locations for both candidates: the store's id
	// order must survive the sort.
	a := single(2)
	b := single(3)

	m := seed(t, requester, b, a)
	e := NewMatchEngine(m)

	got, err := e.Matches(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, profileIDs(got))
}

func TestMatchesExcludesSelfAndNonSingles(t *testing.T) {
	m := seed(t, single(1), married(2), single(3))
	e := NewMatchEngine(m)

	got, err := e.Matches(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, profileIDs(got))
}

func TestMatchesScoredMetadata(t *testing.T) {
	requester := single(1)
	requester.Interests = []string{"reading", "hiking"}

	candidate := single(2)
	// Duplicate tags count once toward the overlap.
	candidate.Interests = []string{"hiking", "hiking", "cooking"}
	candidate.Location = store.Position{Lon: 1, Lat: 0}

	m := seed(t, requester, candidate)
	e := NewMatchEngine(m)

	scored, err := e.MatchesScored(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, 2, scored[0].Profile.ID)
	assert.Equal(t, 1, scored[0].CommonInterests)
	assert.InDelta(t, 111.19, scored[0].DistanceKm, 0.01)
}

func TestMatchesNoOverlapScoresZero(t *testing.T) {
	requester := single(1)
	requester.Interests = []string{"reading"}
	candidate := single(2)
	candidate.Interests = []string{"sailing"}

	e := NewMatchEngine(seed(t, requester, candidate))
	scored, err := e.MatchesScored(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, 0, scored[0].CommonInterests)
}
