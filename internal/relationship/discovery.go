// internal/relationship/discovery.go
package relationship

import (
	"context"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Discover returns up to one page of users self has no relationship with:
// not self, not a friend, not someone who sent self a request, and not
// someone self sent a request to.
//
// Outbound requests live on the recipients' records, so finding them costs a
// reverse scan of the store.
func (e *Engine) Discover(ctx context.Context, self uuid.UUID) ([]models.Profile, error) {
	var users []models.Profile
	err := e.run(ctx, opDiscover, func(ctx context.Context) error {
		me, _, err := e.load(ctx, opDiscover, self, UserNotFound)
		if err != nil {
			return err
		}
		outbound, err := e.store.ListRequestedBy(ctx, self)
		if err != nil {
			return newError(StoreUnavailable, opDiscover, err)
		}

		exclude := exclusionSet(me, outbound)
		e.log.WithFields(logrus.Fields{
			"user":     self,
			"friends":  len(me.Friends),
			"inbound":  len(me.PendingRequests),
			"outbound": len(outbound),
		}).Debug("computed discovery exclusions")

		users, err = e.store.ListProfilesExcluding(ctx, exclude, e.pageSize)
		if err != nil {
			return newError(StoreUnavailable, opDiscover, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.Profile{}
	}
	return users, nil
}

// exclusionSet lists, without repeats, every id that must not be offered to
// the owner of me.
func exclusionSet(me *models.User, outbound []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	add := func(ids ...uuid.UUID) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	add(me.ID)
	add(me.Friends...)
	add(requesterIDs(me.PendingRequests)...)
	add(outbound...)
	return out
}
