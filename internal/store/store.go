// internal/store/store.go

// Package store defines the record store contract used by the relationship
// engine, plus an in-memory implementation.
package store

import (
	"context"
	"errors"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a user record does not exist.
	ErrNotFound = errors.New("store: user not found")

	// ErrConflict is returned by SaveRelationships when the stored version no
	// longer matches the version the caller read.
	ErrConflict = errors.New("store: version conflict")

	// ErrEmailTaken is returned by CreateUser when the email is registered.
	ErrEmailTaken = errors.New("store: email already registered")
)

// Store is durable storage for user records.
//
// SaveRelationships writes only the Friends and PendingRequests fields. The
// write is conditional on u.Version matching the stored version; on success
// u.Version is advanced to the new stored version.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	SaveRelationships(ctx context.Context, u *models.User) error

	// ListRequestedBy returns the ids of every user holding a pending request
	// from the given sender. Requests are stored recipient-side only, so this
	// is a reverse scan.
	ListRequestedBy(ctx context.Context, from uuid.UUID) ([]uuid.UUID, error)

	// ListProfilesExcluding returns up to limit profiles whose ids are not in
	// exclude.
	ListProfilesExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]models.Profile, error)

	ResolveProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error)
}

// Scanner pages through all user ids in ascending order, starting after the
// given id. uuid.Nil starts from the beginning.
type Scanner interface {
	ScanUserIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

// Accounts creates and looks up accounts for the identity endpoints. The
// password on a created user must already be hashed.
type Accounts interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
