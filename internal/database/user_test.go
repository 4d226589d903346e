// internal/database/user_test.go
package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/deepanshu089/linkedin-lite/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePendingToleratesMalformedEntries(t *testing.T) {
	alice := uuid.New()
	raw := []byte(`[
		{"from": "` + alice.String() + `", "status": "pending", "created_at": "2024-01-02T03:04:05Z"},
		{"status": "pending"},
		{"from": "not-a-uuid", "status": "pending"},
		42
	]`)

	got := decodePending(raw)
	require.Len(t, got, 4)
	assert.Equal(t, alice, got[0].From)
	assert.Equal(t, models.StatusPending, got[0].Status)
	for _, pr := range got[1:] {
		assert.Equal(t, uuid.Nil, pr.From)
	}

	assert.Empty(t, decodePending(nil))
}

func TestDecodePendingNonArrayIsRepairable(t *testing.T) {
	for _, raw := range []string{`{"from": 1}`, `"pending"`, `7`} {
		got := decodePending([]byte(raw))
		require.Len(t, got, 1, raw)

		u := &models.User{ID: uuid.New(), PendingRequests: got}
		fixed, rep := relationship.Repair(u, func(uuid.UUID) bool { return true })
		assert.Equal(t, 1, rep.DanglingRequests, raw)
		assert.Empty(t, fixed.PendingRequests, raw)
	}
}

func TestEncodePendingNilIsEmptyArray(t *testing.T) {
	b, err := encodePending(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	alice := uuid.New()
	pr := models.NewPendingRequest(alice, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	b, err = encodePending([]models.PendingRequest{pr})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"from":"`+alice.String()+`","status":"pending","created_at":"2024-01-02T03:04:05Z"}]`, string(b))
}

// TestUserStoreIntegration runs against a real server when DATABASE_URL is set.
func TestUserStoreIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, ConnectDB(ctx, dsn))
	t.Cleanup(DB.Close)
	require.NoError(t, CreateTables(ctx, DB))

	s := NewUserStore(DB)
	newUser := func(name string) *models.User {
		u := &models.User{Name: name, Email: name + "-" + uuid.NewString() + "@example.com", Password: "x"}
		require.NoError(t, s.CreateUser(ctx, u))
		t.Cleanup(func() { _, _ = DB.Exec(context.Background(), `DELETE FROM users WHERE id=$1`, u.ID) })
		return u
	}
	alice, bob := newUser("alice"), newUser("bob")

	dup := &models.User{Email: alice.Email, Password: "x"}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrEmailTaken)

	b1, err := s.GetUser(ctx, bob.ID)
	require.NoError(t, err)
	b2, err := s.GetUser(ctx, bob.ID)
	require.NoError(t, err)

	b1.PendingRequests = []models.PendingRequest{models.NewPendingRequest(alice.ID, time.Now())}
	require.NoError(t, s.SaveRelationships(ctx, b1))
	assert.Equal(t, b2.Version+1, b1.Version)

	b2.Friends = []uuid.UUID{alice.ID}
	assert.ErrorIs(t, s.SaveRelationships(ctx, b2), store.ErrConflict)
	assert.ErrorIs(t, s.SaveRelationships(ctx, &models.User{ID: uuid.New(), Version: 1}), store.ErrNotFound)

	ids, err := s.ListRequestedBy(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.ID}, ids)

	found, err := s.ExistingIDs(ctx, []uuid.UUID{alice.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{alice.ID: true}, found)

	profiles, err := s.ResolveProfiles(ctx, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, "bob", profiles[bob.ID].Name)

	byEmail, err := s.GetUserByEmail(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = s.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
