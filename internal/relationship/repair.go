// internal/relationship/repair.go
package relationship

import (
	"context"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RepairReport counts what Repair dropped from a record.
type RepairReport struct {
	DanglingRequests  int
	DuplicateRequests int
	SelfRequests      int
	StaleRequests     int
	DroppedFriends    int
}

// Changed reports whether the repaired record differs from the input.
func (r RepairReport) Changed() bool {
	return r.DanglingRequests+r.DuplicateRequests+r.SelfRequests+r.StaleRequests+r.DroppedFriends > 0
}

// Repair returns a cleaned copy of u. It never mutates u and never fails.
//
// Pending requests are dropped when the sender does not resolve, when the
// sender is the owner, or when they are not in the pending state; duplicate
// requests from one sender collapse to the earliest. Friend ids that are nil,
// the owner, unresolved or repeated are dropped as well.
//
// exists reports whether a user id resolves. Repair is idempotent:
// Repair(Repair(u)) equals Repair(u).
func Repair(u *models.User, exists func(uuid.UUID) bool) (*models.User, RepairReport) {
	var rep RepairReport
	out := u.Clone()

	seen := make(map[uuid.UUID]struct{}, len(u.PendingRequests))
	reqs := make([]models.PendingRequest, 0, len(u.PendingRequests))
	for _, pr := range out.PendingRequests {
		switch {
		case pr.From == uuid.Nil || !exists(pr.From):
			rep.DanglingRequests++
		case pr.From == u.ID:
			rep.SelfRequests++
		case pr.Status != models.StatusPending:
			rep.StaleRequests++
		default:
			if _, dup := seen[pr.From]; dup {
				rep.DuplicateRequests++
				continue
			}
			seen[pr.From] = struct{}{}
			reqs = append(reqs, pr)
		}
	}

	friendSeen := make(map[uuid.UUID]struct{}, len(u.Friends))
	friends := make([]uuid.UUID, 0, len(u.Friends))
	for _, id := range out.Friends {
		if _, dup := friendSeen[id]; dup || id == uuid.Nil || id == u.ID || !exists(id) {
			rep.DroppedFriends++
			continue
		}
		friendSeen[id] = struct{}{}
		friends = append(friends, id)
	}

	if rep.Changed() {
		out.PendingRequests = reqs
		out.Friends = friends
	}
	return out, rep
}

// referencedIDs lists every id a record points at, for a single existence
// lookup ahead of Repair.
func referencedIDs(u *models.User) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Friends)+len(u.PendingRequests))
	ids = append(ids, u.Friends...)
	ids = append(ids, requesterIDs(u.PendingRequests)...)
	return ids
}

// repairLoaded resolves u's references against the store and repairs it.
func (e *Engine) repairLoaded(ctx context.Context, u *models.User) (*models.User, RepairReport, error) {
	found, err := e.store.ExistingIDs(ctx, referencedIDs(u))
	if err != nil {
		return nil, RepairReport{}, err
	}
	fixed, rep := Repair(u, func(id uuid.UUID) bool { return found[id] })
	if rep.Changed() {
		repairsTotal.Inc()
		e.log.WithFields(logrus.Fields{
			"user":               u.ID,
			"dangling_requests":  rep.DanglingRequests,
			"duplicate_requests": rep.DuplicateRequests,
			"self_requests":      rep.SelfRequests,
			"stale_requests":     rep.StaleRequests,
			"dropped_friends":    rep.DroppedFriends,
		}).Debug("repaired relationship record")
	}
	return fixed, rep, nil
}
