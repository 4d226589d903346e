// internal/store/memory.go
package store

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-memory Store. Records are copied on the way in
// and out so callers never share state with the store.
type Memory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

var (
	_ Store    = (*Memory)(nil)
	_ Scanner  = (*Memory)(nil)
	_ Accounts = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{users: make(map[uuid.UUID]*models.User)}
}

// Put inserts or replaces a record unconditionally, assigning an id when the
// record has none.
func (m *Memory) Put(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if cur, ok := m.users[u.ID]; ok {
		u.Version = cur.Version + 1
	} else if u.Version == 0 {
		u.Version = 1
	}
	m.users[u.ID] = u.Clone()
}

// Delete removes a record, leaving any references to it dangling.
func (m *Memory) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Version = 1
	m.users[u.ID] = u.Clone()
	return nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ExistingIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.users[id]; ok {
			found[id] = true
		}
	}
	return found, nil
}

func (m *Memory) SaveRelationships(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != u.Version {
		return ErrConflict
	}

	next := cur.Clone()
	in := u.Clone()
	next.Friends = in.Friends
	next.PendingRequests = in.PendingRequests
	next.Version = cur.Version + 1
	m.users[u.ID] = next

	u.Version = next.Version
	return nil
}

func (m *Memory) ListRequestedBy(_ context.Context, from uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []uuid.UUID
	for id, u := range m.users {
		for _, pr := range u.PendingRequests {
			if pr.From == from {
				ids = append(ids, id)
				break
			}
		}
	}
	sortIDs(ids)
	return ids, nil
}

func (m *Memory) ListProfilesExcluding(_ context.Context, exclude []uuid.UUID, limit int) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	skip := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	ids := make([]uuid.UUID, 0, len(m.users))
	for id := range m.users {
		if _, ok := skip[id]; !ok {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	profiles := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, m.users[id].Profile())
	}
	return profiles, nil
}

func (m *Memory) ResolveProfiles(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[uuid.UUID]models.Profile, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u.Profile()
		}
	}
	return out, nil
}

func (m *Memory) ScanUserIDs(_ context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.users))
	for id := range m.users {
		if bytes.Compare(id[:], after[:]) > 0 {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
