// Package engine implements the graph-and-ranking core of the profile
// directory: the follow mutation protocol, friend-of-friend suggestions, and
// compatibility-ranked matches. It holds no state of its own beyond
// per-follower locks; every profile lives in the ProfileStore it is given.
package engine

import (
	"context"
	"errors"
	"sync"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// ErrSelfFollow is returned when a profile tries to follow itself.
var ErrSelfFollow = errors.New("cannot follow self")

// FollowManager mutates following sets with idempotent add/remove semantics.
//
// The store's read-modify-write is not atomic, so two overlapping calls for
// the same follower could lose an update. Mutations are therefore linearized
// through one mutex per follower id; unrelated followers never contend.
type FollowManager struct {
	store store.ProfileStore

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewFollowManager(s store.ProfileStore) *FollowManager {
	return &FollowManager{store: s, locks: make(map[int]*sync.Mutex)}
}

func (m *FollowManager) followerLock(id int) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Follow adds targetID to the follower's following set and returns the
// post-mutation set. Adding an id that is already present is a no-op: no
// write is issued and no error is returned.
func (m *FollowManager) Follow(ctx context.Context, followerID, targetID int) ([]int, error) {
	if followerID == targetID {
		return nil, ErrSelfFollow
	}

	l := m.followerLock(followerID)
	l.Lock()
	defer l.Unlock()

	if err := m.checkExists(ctx, targetID); err != nil {
		return nil, err
	}
	p, err := m.store.Get(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if p.Follows(targetID) {
		return p.Following, nil
	}
	next := append(append([]int(nil), p.Following...), targetID)
	if err := m.store.PatchFollowing(ctx, followerID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Unfollow removes targetID from the follower's following set and returns the
// post-mutation set. Removing an absent id succeeds; the patch is issued
// either way.
func (m *FollowManager) Unfollow(ctx context.Context, followerID, targetID int) ([]int, error) {
	l := m.followerLock(followerID)
	l.Lock()
	defer l.Unlock()

	if err := m.checkExists(ctx, targetID); err != nil {
		return nil, err
	}
	p, err := m.store.Get(ctx, followerID)
	if err != nil {
		return nil, err
	}
	next := make([]int, 0, len(p.Following))
	for _, id := range p.Following {
		if id != targetID {
			next = append(next, id)
		}
	}
	if err := m.store.PatchFollowing(ctx, followerID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (m *FollowManager) checkExists(ctx context.Context, id int) error {
	ok, err := m.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &store.NotFoundError{ID: id}
	}
	return nil
}
