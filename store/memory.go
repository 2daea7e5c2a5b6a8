package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is a mutex-guarded in-process ProfileStore. It backs the service when
// no database is configured and doubles as the test double for the engine and
// handler suites.
type Memory struct {
	mu       sync.RWMutex
	profiles map[int]*Profile
}

func NewMemory() *Memory {
	return &Memory{profiles: make(map[int]*Profile)}
}

func (m *Memory) Exists(ctx context.Context, id int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.profiles[id]
	return ok, nil
}

func (m *Memory) Get(ctx context.Context, id int) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return p.Clone(), nil
}

func (m *Memory) Put(ctx context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; ok {
		return &AlreadyExistsError{ID: p.ID}
	}
	m.profiles[p.ID] = p.Clone()
	return nil
}

func (m *Memory) Patch(ctx context.Context, id int, patch *ProfilePatch) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	patch.Apply(p)
	return p.Clone(), nil
}

func (m *Memory) PatchFollowing(ctx context.Context, id int, following []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	p.Following = append([]int(nil), following...)
	return nil
}

func (m *Memory) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(m.profiles, id)
	return nil
}

func (m *Memory) DeleteAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.profiles)
	m.profiles = make(map[int]*Profile)
	return n, nil
}

func (m *Memory) Search(ctx context.Context, q Query) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*Profile
	for _, p := range m.profiles {
		if matchesFilter(p, &q.Filter) {
			matched = append(matched, p.Clone())
		}
	}

	// Ascending id is the store's deterministic base order; a nearest-first
	// query sorts by distance with id as the tie-break.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if q.NearestTo != nil {
		origin := *q.NearestTo
		sort.SliceStable(matched, func(i, j int) bool {
			return origin.DistanceKm(matched[i].Location) < origin.DistanceKm(matched[j].Location)
		})
	}

	limit := q.Limit
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func matchesFilter(p *Profile, f *Filter) bool {
	if f.ExcludeID != nil && p.ID == *f.ExcludeID {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Following != nil && !p.Follows(*f.Following) {
		return false
	}
	if f.Near != nil && f.Near.Center.DistanceKm(p.Location) > f.Near.Km {
		return false
	}
	return true
}
