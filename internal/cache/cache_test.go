// internal/cache/cache_test.go
package cache

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	mu       sync.Mutex
	calls    int
	profiles map[uuid.UUID]models.Profile
}

func (r *countingResolver) ResolveProfiles(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := make(map[uuid.UUID]models.Profile)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type ctxResolver struct {
	profiles map[uuid.UUID]models.Profile
	ctxErr   error
}

func (r *ctxResolver) ResolveProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	r.ctxErr = ctx.Err()
	out := make(map[uuid.UUID]models.Profile)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestProfileCacheLoadIgnoresCallerCancel(t *testing.T) {
	// Nothing listens on port 1, so every Redis call fails and the cache
	// falls through to the resolver.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })

	alice := uuid.New()
	next := &ctxResolver{profiles: map[uuid.UUID]models.Profile{alice: {ID: alice, Name: "alice"}}}
	c := NewProfileCache(rdb, next, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := c.ResolveProfiles(ctx, []uuid.UUID{alice})
	require.NoError(t, err)
	assert.Equal(t, "alice", got[alice].Name)
	assert.NoError(t, next.ctxErr, "the shared load does not inherit the caller's cancellation")
}

func TestFlightKeyIgnoresOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, flightKey([]uuid.UUID{a, b}), flightKey([]uuid.UUID{b, a}))
	assert.NotEqual(t, flightKey([]uuid.UUID{a}), flightKey([]uuid.UUID{a, b}))
}

// testRedis connects to REDIS_ADDR or skips.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb, err := ConnectRedis(context.Background(), addr, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestProfileCacheReadThrough(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	alice, ghost := uuid.New(), uuid.New()
	next := &countingResolver{profiles: map[uuid.UUID]models.Profile{alice: {ID: alice, Name: "alice"}}}
	c := NewProfileCache(rdb, next, time.Minute)
	t.Cleanup(func() { rdb.Del(context.Background(), profileKey(alice), profileKey(ghost)) })

	got, err := c.ResolveProfiles(ctx, []uuid.UUID{alice, ghost})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]models.Profile{alice: {ID: alice, Name: "alice"}}, got)
	assert.Equal(t, 1, next.calls)

	got, err = c.ResolveProfiles(ctx, []uuid.UUID{alice})
	require.NoError(t, err)
	assert.Equal(t, "alice", got[alice].Name)
	assert.Equal(t, 1, next.calls, "served from redis")

	require.NoError(t, rdb.Del(ctx, profileKey(alice)).Err())
	_, err = c.ResolveProfiles(ctx, []uuid.UUID{alice})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestEventPublisherPushesJSON(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	queue := "test_relationship_events_" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), queue) })

	p := NewEventPublisher(rdb, queue)
	ev := relationship.Event{
		Type:   relationship.EventRequestSent,
		Actor:  uuid.New(),
		Target: uuid.New(),
		At:     time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, p.Publish(ctx, ev))

	raw, err := rdb.LPop(ctx, queue).Result()
	require.NoError(t, err)
	var got relationship.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, ev, got)
}
