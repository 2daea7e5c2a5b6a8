package engine

import (
	"context"
	"sort"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// Match pairs a candidate profile with its scoring metadata. The plain
// Matches result carries profiles only; callers that need the score ask for
// MatchesScored instead.
type Match struct {
	Profile         *store.Profile
	CommonInterests int
	DistanceKm      float64
}

// MatchEngine ranks single profiles for a single requester by shared-interest
// overlap, then geographic proximity.
type MatchEngine struct {
	store store.ProfileStore
}

func NewMatchEngine(s store.ProfileStore) *MatchEngine {
	return &MatchEngine{store: s}
}

// Matches returns the ranked candidate profiles for userID.
func (e *MatchEngine) Matches(ctx context.Context, userID int) ([]*store.Profile, error) {
	scored, err := e.MatchesScored(ctx, userID)
	if err != nil {
		return nil, err
	}
	profiles := make([]*store.Profile, len(scored))
	for i, m := range scored {
		profiles[i] = m.Profile
	}
	return profiles, nil
}

// MatchesScored is Matches with the per-candidate score attached. A requester
// who is not single gets an empty result without a search being issued.
func (e *MatchEngine) MatchesScored(ctx context.Context, userID int) ([]Match, error) {
	user, err := e.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != store.StatusSingle {
		return []Match{}, nil
	}

	mine := make(map[string]struct{}, len(user.Interests))
	for _, interest := range user.Interests {
		mine[interest] = struct{}{}
	}

	candidates, err := e.store.Search(ctx, store.Query{
		Filter: store.Filter{Status: store.StatusSingle, ExcludeID: &userID},
		Limit:  store.MaxSearchResults,
	})
	if err != nil {
		return nil, err
	}

	scored := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Match{
			Profile:         c,
			CommonInterests: commonInterests(mine, c.Interests),
			DistanceKm:      user.Location.DistanceKm(c.Location),
		})
	}

	// Descending common interests, then ascending distance. The sort must be
	// stable: candidates equal on both keys keep the store's order.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].CommonInterests != scored[j].CommonInterests {
			return scored[i].CommonInterests > scored[j].CommonInterests
		}
		return scored[i].DistanceKm < scored[j].DistanceKm
	})
	return scored, nil
}

// commonInterests counts the set intersection; duplicate tags on the
// candidate side count once.
func commonInterests(mine map[string]struct{}, theirs []string) int {
	counted := make(map[string]struct{}, len(theirs))
	common := 0
	for _, interest := range theirs {
		if _, dup := counted[interest]; dup {
			continue
		}
		counted[interest] = struct{}{}
		if _, ok := mine[interest]; ok {
			common++
		}
	}
	return common
}
