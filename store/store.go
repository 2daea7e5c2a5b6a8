package store

import (
	"context"
	"errors"
	"fmt"
)

// MaxSearchResults caps how many profiles a single search can return.
const MaxSearchResults = 10000

// ErrUnavailable wraps store round-trips that failed or timed out. Callers
// should treat it as transient; this layer never retries.
var ErrUnavailable = errors.New("profile store unavailable")

// NotFoundError names the id that does not exist in the store.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile %d not found", e.ID)
}

// AlreadyExistsError is returned by Put when the id is already taken.
type AlreadyExistsError struct {
	ID int
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("profile %d already exists", e.ID)
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Filter narrows a search. Zero-valued fields are ignored; pointer fields
// distinguish "unset" from a legitimate zero id.
type Filter struct {
	Name      string  // substring match on name
	Gender    Gender  // exact match
	Status    Status  // exact match
	Following *int    // profiles whose following set contains this id
	Near      *Radius // profiles within Near.Km of Near.Center
	ExcludeID *int    // drop this id from the results
}

// Radius is a geo-distance filter around a reference point.
type Radius struct {
	Center Position
	Km     float64
}

// Query is one Search call: a filter, an optional nearest-first sort origin,
// and a result cap. Limit values outside (0, MaxSearchResults] are clamped to
// MaxSearchResults. Without NearestTo, results come back in ascending id
// order so responses are deterministic.
type Query struct {
	Filter    Filter
	NearestTo *Position
	Limit     int
}

// ProfileStore is the document store the engine runs against. Implementations
// must return NotFoundError/AlreadyExistsError for the cases named below and
// wrap infrastructure failures with ErrUnavailable.
type ProfileStore interface {
	// Exists reports whether a profile with the given id is stored.
	Exists(ctx context.Context, id int) (bool, error)

	// Get returns the profile or a NotFoundError.
	Get(ctx context.Context, id int) (*Profile, error)

	// Put creates the profile; AlreadyExistsError if the id is taken.
	Put(ctx context.Context, p *Profile) error

	// Patch applies a partial update and returns the updated profile, or a
	// NotFoundError.
	Patch(ctx context.Context, id int, patch *ProfilePatch) (*Profile, error)

	// PatchFollowing replaces only the following set, or NotFoundError.
	PatchFollowing(ctx context.Context, id int, following []int) error

	// Delete removes the profile, or NotFoundError.
	Delete(ctx context.Context, id int) error

	// DeleteAll removes every profile and returns how many were deleted.
	DeleteAll(ctx context.Context) (int, error)

	// Search returns the profiles matching the query.
	Search(ctx context.Context, q Query) ([]*Profile, error)
}
