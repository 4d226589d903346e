// internal/cache/profiles.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const profileKeyPrefix = "profile:"

// ProfileCache is a read-through cache in front of a ProfileResolver. Redis
// failures fall back to the resolver.
type ProfileCache struct {
	rdb  redis.Cmdable
	next relationship.ProfileResolver
	ttl  time.Duration

	group singleflight.Group
}

var _ relationship.ProfileResolver = (*ProfileCache)(nil)

func NewProfileCache(rdb redis.Cmdable, next relationship.ProfileResolver, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, next: next, ttl: ttl}
}

func profileKey(id uuid.UUID) string { return profileKeyPrefix + id.String() }

func (c *ProfileCache) ResolveProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	out := make(map[uuid.UUID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		log.WithError(err).Warn("profile cache read failed")
		vals = make([]interface{}, len(ids))
	}

	var missing []uuid.UUID
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var p models.Profile
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		out[ids[i]] = p
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.fetch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, p := range fetched {
		out[id] = p
	}
	return out, nil
}

// fetch loads misses from the resolver, collapsing concurrent loads of the
// same id set, and writes what it found back to Redis. The shared load is
// detached from the first caller's cancellation so its waiters are not
// failed by it.
func (c *ProfileCache) fetch(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	v, err, _ := c.group.Do(flightKey(ids), func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		found, err := c.next.ResolveProfiles(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			pipe := c.rdb.Pipeline()
			for id, p := range found {
				b, err := json.Marshal(p)
				if err != nil {
					continue
				}
				pipe.Set(ctx, profileKey(id), b, c.ttl)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				log.WithError(err).Warn("profile cache write failed")
			}
		}
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	found, ok := v.(map[uuid.UUID]models.Profile)
	if !ok {
		return nil, errors.New("unexpected profile cache result")
	}
	return found, nil
}

func flightKey(ids []uuid.UUID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	sort.Strings(s)
	return strings.Join(s, ",")
}
