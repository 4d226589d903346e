package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore is the PostgreSQL record store. Friends live in a uuid[] column
// and pending requests in a jsonb array on the recipient's row.
type UserStore struct {
	pool *pgxpool.Pool
}

var (
	_ store.Store    = (*UserStore)(nil)
	_ store.Scanner  = (*UserStore)(nil)
	_ store.Accounts = (*UserStore)(nil)
)

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, email, password, name, bio, avatar, friends, pending_requests, version, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u       models.User
		pending []byte
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.Bio, &u.Avatar,
		&u.Friends, &pending, &u.Version, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	u.PendingRequests = decodePending(pending)
	return &u, nil
}

// CreateUser inserts a new account. u.Password must already be hashed.
func (s *UserStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		u.ID = id
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Version = 1

	q := `INSERT INTO users (id, email, password, name, bio, avatar, version, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			u.ID, u.Email, u.Password, u.Name, u.Bio, u.Avatar, u.Version, u.CreatedAt,
		)
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return store.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *UserStore) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT id FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	return found, rows.Err()
}

// SaveRelationships writes friends and pending_requests only if the row is
// still at u.Version.
func (s *UserStore) SaveRelationships(ctx context.Context, u *models.User) error {
	pending, err := encodePending(u.PendingRequests)
	if err != nil {
		return err
	}
	friends := u.Friends
	if friends == nil {
		friends = []uuid.UUID{}
	}

	q := `
	UPDATE users
	SET friends=$2, pending_requests=$3, version=version+1
	WHERE id=$1 AND version=$4
	RETURNING version
	`
	var next int64
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, q, u.ID, friends, pending, u.Version).Scan(&next)
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, u.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return store.ErrConflict
	})
	if err != nil {
		return err
	}
	u.Version = next
	return nil
}

func (s *UserStore) ListRequestedBy(ctx context.Context, from uuid.UUID) ([]uuid.UUID, error) {
	q := `
	SELECT id FROM users
	WHERE pending_requests @> jsonb_build_array(jsonb_build_object('from', $1::text))
	ORDER BY id
	`
	return s.queryIDs(ctx, q, from.String())
}

func (s *UserStore) ListProfilesExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]models.Profile, error) {
	if exclude == nil {
		exclude = []uuid.UUID{}
	}
	q := `
	SELECT id, name, email, avatar, bio FROM users
	WHERE NOT (id = ANY($1))
	ORDER BY id
	LIMIT $2
	`
	rows, err := s.pool.Query(ctx, q, exclude, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.Bio); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *UserStore) ResolveProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	out := make(map[uuid.UUID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT id, name, email, avatar, bio FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.Bio); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (s *UserStore) ScanUserIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	return s.queryIDs(ctx, `SELECT id FROM users WHERE id > $1 ORDER BY id LIMIT $2`, after, limit)
}

func (s *UserStore) queryIDs(ctx context.Context, q string, args ...any) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// encodePending renders the jsonb column value. A nil list is stored as [].
func encodePending(reqs []models.PendingRequest) ([]byte, error) {
	if reqs == nil {
		reqs = []models.PendingRequest{}
	}
	b, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pending requests: %w", err)
	}
	return b, nil
}

// decodePending parses the jsonb column. Elements that are not objects are
// kept as zero-value requests so that repair drops them. A value that is not
// an array decodes as a single such request, so the repaired record is
// saved back as a proper array.
func decodePending(b []byte) []models.PendingRequest {
	if len(b) == 0 {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return []models.PendingRequest{{}}
	}
	out := make([]models.PendingRequest, 0, len(raw))
	for _, r := range raw {
		var pr models.PendingRequest
		if err := json.Unmarshal(r, &pr); err != nil {
			pr = models.PendingRequest{}
		}
		out = append(out, pr)
	}
	return out
}
