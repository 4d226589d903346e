// internal/relationship/query.go
package relationship

import (
	"context"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
)

// Overview is the read-side view of a user's relationships.
type Overview struct {
	Friends []models.Profile `json:"friends"`
	Pending []models.Profile `json:"pending"`
}

// ListFriendsAndPending repairs self's record, saving it if repair changed
// anything, and returns friend and requester profiles in stored order.
// Requests that already carry the sender's profile are returned as stored;
// the rest are looked up. Ids that no longer resolve are left out.
func (e *Engine) ListFriendsAndPending(ctx context.Context, self uuid.UUID) (*Overview, error) {
	var me *models.User
	err := e.run(ctx, opList, func(ctx context.Context) error {
		u, repaired, err := e.load(ctx, opList, self, UserNotFound)
		if err != nil {
			return err
		}
		if repaired {
			if err := e.save(ctx, opList, u); err != nil {
				return err
			}
		}
		me = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	lookup := make([]uuid.UUID, 0, len(me.Friends)+len(me.PendingRequests))
	lookup = append(lookup, me.Friends...)
	for _, pr := range me.PendingRequests {
		if !pr.Resolved() {
			lookup = append(lookup, pr.From)
		}
	}

	var resolved map[uuid.UUID]models.Profile
	if len(lookup) > 0 {
		resolved, err = e.profiles.ResolveProfiles(ctx, lookup)
		if err != nil {
			return nil, newError(StoreUnavailable, opList, err)
		}
	}

	ov := &Overview{
		Friends: make([]models.Profile, 0, len(me.Friends)),
		Pending: make([]models.Profile, 0, len(me.PendingRequests)),
	}
	for _, id := range me.Friends {
		if p, ok := resolved[id]; ok {
			ov.Friends = append(ov.Friends, p)
		}
	}
	for _, pr := range me.PendingRequests {
		if pr.Resolved() {
			ov.Pending = append(ov.Pending, *pr.Sender)
			continue
		}
		if p, ok := resolved[pr.From]; ok {
			ov.Pending = append(ov.Pending, p)
		}
	}
	return ov, nil
}
