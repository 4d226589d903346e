// internal/relationship/sweep_test.go
package relationship

import (
	"context"
	"testing"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBrokenGraph(t *testing.T, s *store.Memory) (owner, alice, bob uuid.UUID) {
	t.Helper()
	owner, alice, bob = seedUser(t, s, "owner"), seedUser(t, s, "alice"), seedUser(t, s, "bob")
	now := time.Now()

	u := getUser(t, s, owner)
	u.PendingRequests = []models.PendingRequest{
		models.NewPendingRequest(alice, now),
		models.NewPendingRequest(alice, now),
		models.NewPendingRequest(uuid.New(), now),
	}
	u.Friends = []uuid.UUID{bob}
	s.Put(u)
	return owner, alice, bob
}

func TestSweepRepairsEveryRecord(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	e := newTestEngine(t, s)
	owner, alice, _ := seedBrokenGraph(t, s)
	for i := 0; i < 5; i++ {
		seedUser(t, s, "filler")
	}

	rep, err := e.Sweep(ctx, s, SweepOptions{BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, rep.Scanned)
	assert.Equal(t, 1, rep.Repaired)
	assert.Equal(t, RepairReport{DanglingRequests: 1, DuplicateRequests: 1}, rep.Dropped)
	assert.Equal(t, 1, rep.Asymmetric, "owner lists bob, bob does not list owner")
	assert.Equal(t, 1, rep.Healed, "bob holds no request from owner")
	assert.Zero(t, rep.Crossed)
	assert.Equal(t, []uuid.UUID{alice}, requesterIDs(getUser(t, s, owner).PendingRequests))
	assert.Empty(t, getUser(t, s, owner).Friends)

	again, err := e.Sweep(ctx, s, SweepOptions{BatchSize: 3})
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Scanned: 8}, again, "a second sweep finds nothing")
}

func TestSweepDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	e := newTestEngine(t, s)
	owner, _, _ := seedBrokenGraph(t, s)
	before := getUser(t, s, owner)

	rep, err := e.Sweep(ctx, s, SweepOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Repaired)
	assert.Equal(t, 1, rep.Asymmetric)
	assert.Zero(t, rep.Healed)
	assert.Equal(t, before, getUser(t, s, owner))
}

func TestSweepResolvesCrossedRequests(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	e := newTestEngine(t, s)
	alice, bob := seedUser(t, s, "alice"), seedUser(t, s, "bob")
	earlier := time.Now().Add(-time.Hour)

	a := getUser(t, s, alice)
	a.PendingRequests = []models.PendingRequest{models.NewPendingRequest(bob, time.Now())}
	s.Put(a)
	b := getUser(t, s, bob)
	b.PendingRequests = []models.PendingRequest{models.NewPendingRequest(alice, earlier)}
	s.Put(b)

	dry, err := e.Sweep(ctx, s, SweepOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, dry.Crossed, "a crossed pair is counted once")
	assert.Len(t, getUser(t, s, alice).PendingRequests, 1)

	rep, err := e.Sweep(ctx, s, SweepOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Crossed)
	assert.Empty(t, getUser(t, s, alice).PendingRequests, "the later request is dropped")
	assert.Equal(t, []uuid.UUID{alice}, requesterIDs(getUser(t, s, bob).PendingRequests))

	again, err := e.Sweep(ctx, s, SweepOptions{})
	require.NoError(t, err)
	assert.Zero(t, again.Crossed)
}

func TestSweepKeepsAsymmetryAcceptCanFinish(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	e := newTestEngine(t, s)
	alice, bob := seedUser(t, s, "alice"), seedUser(t, s, "bob")

	// bob accepted alice's request but only alice's record was written.
	a := getUser(t, s, alice)
	a.Friends = []uuid.UUID{bob}
	s.Put(a)
	b := getUser(t, s, bob)
	b.PendingRequests = []models.PendingRequest{models.NewPendingRequest(alice, time.Now())}
	s.Put(b)

	rep, err := e.Sweep(ctx, s, SweepOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Asymmetric)
	assert.Zero(t, rep.Healed)
	assert.Equal(t, []uuid.UUID{bob}, getUser(t, s, alice).Friends)

	require.NoError(t, e.AcceptRequest(ctx, bob, alice))
	requireSymmetric(t, s, alice, bob, true)
}
