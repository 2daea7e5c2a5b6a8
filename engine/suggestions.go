package engine

import (
	"context"
	"sort"

	"github.com/graph-gophers/dataloader/v7"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// SuggestionEngine computes friend-of-friend suggestions: everyone followed by
// someone the user follows, minus the user and their first-degree follows.
//
// With singleOnly set, suggestions are restricted to single profiles and a
// non-single requester gets an empty result without any traversal.
type SuggestionEngine struct {
	store      store.ProfileStore
	singleOnly bool
}

func NewSuggestionEngine(s store.ProfileStore, singleOnly bool) *SuggestionEngine {
	return &SuggestionEngine{store: s, singleOnly: singleOnly}
}

// Suggestions returns the second-degree profiles for userID in ascending id
// order. A NotFoundError is returned only for userID itself; neighbors and
// candidates deleted mid-traversal are silently dropped.
func (e *SuggestionEngine) Suggestions(ctx context.Context, userID int) ([]*store.Profile, error) {
	user, err := e.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if e.singleOnly && user.Status != store.StatusSingle {
		return []*store.Profile{}, nil
	}
	if len(user.Following) == 0 {
		return []*store.Profile{}, nil
	}

	loader := newProfileLoader(e.store)

	// Union the following sets of every first-degree neighbor. The candidate
	// set is a set: reaching a profile through several paths counts once.
	firsts := make([]dataloader.Thunk[*store.Profile], len(user.Following))
	for i, id := range user.Following {
		firsts[i] = loader.Load(ctx, id)
	}
	candidates := make(map[int]struct{})
	for _, thunk := range firsts {
		p, err := thunk()
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		for _, id := range p.Following {
			candidates[id] = struct{}{}
		}
	}

	delete(candidates, userID)
	for _, id := range user.Following {
		delete(candidates, id)
	}

	ids := make([]int, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	// Candidates are validated again on materialization; one deleted between
	// discovery and fetch is dropped, not an error.
	thunks := make([]dataloader.Thunk[*store.Profile], len(ids))
	for i, id := range ids {
		thunks[i] = loader.Load(ctx, id)
	}
	suggestions := make([]*store.Profile, 0, len(ids))
	for _, thunk := range thunks {
		p, err := thunk()
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if e.singleOnly && p.Status != store.StatusSingle {
			continue
		}
		suggestions = append(suggestions, p)
	}
	return suggestions, nil
}
