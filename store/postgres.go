package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Postgres keeps profile documents in a single table, with the interest and
// following sets as jsonb. Geo filtering and nearest-first ordering are pushed
// into SQL with a haversine expression, so the store honors the same ordering
// contract as the in-memory implementation.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the profiles table if it doesn't exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id        BIGINT PRIMARY KEY,
			name      TEXT NOT NULL,
			gender    TEXT NOT NULL,
			status    TEXT NOT NULL,
			lon       DOUBLE PRECISION NOT NULL DEFAULT 0,
			lat       DOUBLE PRECISION NOT NULL DEFAULT 0,
			interests JSONB NOT NULL DEFAULT '[]',
			following JSONB NOT NULL DEFAULT '[]'
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Postgres) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return exists, nil
}

func (s *Postgres) Get(ctx context.Context, id int) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, gender, status, lon, lat, interests, following
		FROM profiles WHERE id = $1
	`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p, nil
}

func (s *Postgres) Put(ctx context.Context, p *Profile) error {
	interests, following, err := marshalSets(p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, gender, status, lon, lat, interests, following)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.Name, string(p.Gender), string(p.Status), p.Location.Lon, p.Location.Lat, interests, following)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &AlreadyExistsError{ID: p.ID}
	}
	return nil
}

func (s *Postgres) Patch(ctx context.Context, id int, patch *ProfilePatch) (*Profile, error) {
	var updated *Profile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, name, gender, status, lon, lat, interests, following
			FROM profiles WHERE id = $1
			FOR UPDATE
		`, id)
		p, err := scanProfile(row)
		if err == sql.ErrNoRows {
			return &NotFoundError{ID: id}
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		patch.Apply(p)
		interests, following, err := marshalSets(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE profiles
			SET name = $2, gender = $3, status = $4, lon = $5, lat = $6, interests = $7, following = $8
			WHERE id = $1
		`, p.ID, p.Name, string(p.Gender), string(p.Status), p.Location.Lon, p.Location.Lat, interests, following); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Postgres) PatchFollowing(ctx context.Context, id int, following []int) error {
	if following == nil {
		following = []int{}
	}
	raw, err := json.Marshal(following)
	if err != nil {
		return fmt.Errorf("encode following: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET following = $2 WHERE id = $1`, id, raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *Postgres) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles`)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return int(n), nil
}

func (s *Postgres) Search(ctx context.Context, q Query) ([]*Profile, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	f := q.Filter
	if f.Name != "" {
		where = append(where, fmt.Sprintf("name ILIKE '%%' || %s || '%%'", arg(f.Name)))
	}
	if f.Gender != "" {
		where = append(where, fmt.Sprintf("gender = %s", arg(string(f.Gender))))
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = %s", arg(string(f.Status))))
	}
	if f.Following != nil {
		where = append(where, fmt.Sprintf("following @> to_jsonb(%s::int)", arg(*f.Following)))
	}
	if f.ExcludeID != nil {
		where = append(where, fmt.Sprintf("id <> %s", arg(*f.ExcludeID)))
	}
	if f.Near != nil {
		where = append(where, fmt.Sprintf("%s <= %s",
			haversineSQL(arg(f.Near.Center.Lon), arg(f.Near.Center.Lat)), arg(f.Near.Km)))
	}

	query := `SELECT id, name, gender, status, lon, lat, interests, following FROM profiles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if q.NearestTo != nil {
		query += fmt.Sprintf(" ORDER BY %s ASC, id ASC",
			haversineSQL(arg(q.NearestTo.Lon), arg(q.NearestTo.Lat)))
	} else {
		query += " ORDER BY id ASC"
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	query += fmt.Sprintf(" LIMIT %s", arg(limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return profiles, nil
}

// haversineSQL renders the great-circle distance in km between the stored
// (lon, lat) columns and the given placeholder pair.
func haversineSQL(lonPlaceholder, latPlaceholder string) string {
	return fmt.Sprintf(`(2 * 6371.0 * asin(sqrt(
		power(sin(radians(lat - %[2]s) / 2), 2) +
		cos(radians(%[2]s)) * cos(radians(lat)) * power(sin(radians(lon - %[1]s) / 2), 2)
	)))`, lonPlaceholder, latPlaceholder)
}

// withTx wraps fn in a transaction: COMMIT on success, ROLLBACK on error or
// panic.
func (s *Postgres) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var (
		p                  Profile
		gender, status     string
		interests, follows []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &gender, &status, &p.Location.Lon, &p.Location.Lat, &interests, &follows); err != nil {
		return nil, err
	}
	p.Gender = Gender(gender)
	p.Status = Status(status)
	if err := json.Unmarshal(interests, &p.Interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if err := json.Unmarshal(follows, &p.Following); err != nil {
		return nil, fmt.Errorf("decode following: %w", err)
	}
	return &p, nil
}

func marshalSets(p *Profile) (interests, following []byte, err error) {
	in := p.Interests
	if in == nil {
		in = []string{}
	}
	fo := p.Following
	if fo == nil {
		fo = []int{}
	}
	if interests, err = json.Marshal(in); err != nil {
		return nil, nil, fmt.Errorf("encode interests: %w", err)
	}
	if following, err = json.Marshal(fo); err != nil {
		return nil, nil, fmt.Errorf("encode following: %w", err)
	}
	return interests, following, nil
}
