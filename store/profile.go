package store

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Gender of a profile. Only the two enumerated values are accepted.
type Gender string

// Status is the marital status of a profile.
type Status string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"

	StatusSingle  Status = "single"
	StatusMarried Status = "married"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func (s Status) Valid() bool {
	return s == StatusSingle || s == StatusMarried
}

// Position is the canonical location of a profile. Documents written by older
// clients encode it as an {x,y} object or a [lon,lat] pair instead of the
// {lon,lat} object, so decoding accepts all three layouts. Encoding always
// produces {lon,lat}. The zero value (0,0) doubles as the "unknown location"
// sentinel for profiles created without coordinates.
type Position struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("position array must have exactly 2 elements, got %d", len(pair))
		}
		p.Lon, p.Lat = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Lon *float64 `json:"lon"`
		Lat *float64 `json:"lat"`
		X   *float64 `json:"x"`
		Y   *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("malformed position: %w", err)
	}

	switch {
	case obj.Lon != nil && obj.Lat != nil:
		p.Lon, p.Lat = *obj.Lon, *obj.Lat
	case obj.X != nil && obj.Y != nil:
		p.Lon, p.Lat = *obj.X, *obj.Y
	case obj.Lon == nil && obj.Lat == nil && obj.X == nil && obj.Y == nil:
		// Empty object: unknown location.
		p.Lon, p.Lat = 0, 0
	default:
		return fmt.Errorf("malformed position: coordinates must come in pairs")
	}
	return nil
}

// Profile is one document in the directory, keyed by its external integer id.
type Profile struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Gender    Gender   `json:"gender"`
	Status    Status   `json:"status"`
	Location  Position `json:"location"`
	Interests []string `json:"interests"`
	Following []int    `json:"following"`
}

// Validate checks the creation-time invariants: enumerated fields hold
// enumerated values, and the following set contains neither the profile's own
// id nor duplicates.
func (p *Profile) Validate() error {
	if !p.Gender.Valid() {
		return fmt.Errorf("invalid gender %q", p.Gender)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", p.Status)
	}
	seen := make(map[int]struct{}, len(p.Following))
	for _, id := range p.Following {
		if id == p.ID {
			return fmt.Errorf("profile %d cannot follow itself", p.ID)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate id %d in following set", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Follows reports whether id is in the profile's following set.
func (p *Profile) Follows(id int) bool {
	for _, f := range p.Following {
		if f == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate results freely.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Interests = append([]string(nil), p.Interests...)
	c.Following = append([]int(nil), p.Following...)
	return &c
}

// ProfilePatch is a partial update. Nil fields are left untouched.
type ProfilePatch struct {
	Name      *string   `json:"name"`
	Gender    *Gender   `json:"gender"`
	Status    *Status   `json:"status"`
	Location  *Position `json:"location"`
	Interests *[]string `json:"interests"`
	Following *[]int    `json:"following"`
}

// Empty reports whether the patch would change nothing.
func (pp *ProfilePatch) Empty() bool {
	return pp.Name == nil && pp.Gender == nil && pp.Status == nil &&
		pp.Location == nil && pp.Interests == nil && pp.Following == nil
}

// Validate rejects patches that would violate the enum invariants.
func (pp *ProfilePatch) Validate() error {
	if pp.Gender != nil && !pp.Gender.Valid() {
		return fmt.Errorf("invalid gender %q", *pp.Gender)
	}
	if pp.Status != nil && !pp.Status.Valid() {
		return fmt.Errorf("invalid status %q", *pp.Status)
	}
	return nil
}

// Apply copies the patched fields onto p.
func (pp *ProfilePatch) Apply(p *Profile) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Gender != nil {
		p.Gender = *pp.Gender
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
	if pp.Interests != nil {
		p.Interests = append([]string(nil), (*pp.Interests)...)
	}
	if pp.Following != nil {
		p.Following = append([]int(nil), (*pp.Following)...)
	}
}
