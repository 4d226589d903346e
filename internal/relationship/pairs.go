// internal/relationship/pairs.go
package relationship

import (
	"bytes"
	"context"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
)

func requestFrom(reqs []models.PendingRequest, from uuid.UUID) (models.PendingRequest, bool) {
	for _, pr := range reqs {
		if pr.From == from && pr.Status == models.StatusPending {
			return pr, true
		}
	}
	return models.PendingRequest{}, false
}

// crossedLoser picks which of two crossed requests goes: the later one, or
// on a tie the one held by the record with the larger id. a holds a request
// from b and b holds one from a.
func crossedLoser(a, b *models.User) (loser, winner *models.User) {
	onA, _ := requestFrom(a.PendingRequests, b.ID)
	onB, _ := requestFrom(b.PendingRequests, a.ID)
	switch {
	case onA.CreatedAt.Before(onB.CreatedAt):
		return b, a
	case onB.CreatedAt.Before(onA.CreatedAt):
		return a, b
	case bytes.Compare(a.ID[:], b.ID[:]) < 0:
		return b, a
	default:
		return a, b
	}
}

// dropLaterCrossed resolves a pair holding requests in both directions by
// keeping the earliest. The winner is rewritten unchanged first so that the
// drop only lands if the kept request is still there.
func (e *Engine) dropLaterCrossed(ctx context.Context, op string, a, b *models.User) error {
	loser, winner := crossedLoser(a, b)
	e.pairLogger(op, winner.ID, loser.ID).Warn("requests pending in both directions, dropping the later one")

	if err := e.save(ctx, op, winner); err != nil {
		return err
	}
	loser.PendingRequests = withoutRequestsFrom(loser.PendingRequests, winner.ID)
	return e.save(ctx, op, loser)
}

// undoHalfAccept removes me from them's friends when them lists me, me does
// not list them and me holds no request from them. That is what an accept
// leaves behind when its second write loses to a reject. Every operation in
// flight that could pass through this state ends with the pair unfriended,
// so healing toward that is safe.
func (e *Engine) undoHalfAccept(ctx context.Context, op string, me, them *models.User) (bool, error) {
	if !containsID(them.Friends, me.ID) || containsID(me.Friends, them.ID) || hasRequestFrom(me.PendingRequests, them.ID) {
		return false, nil
	}
	e.pairLogger(op, me.ID, them.ID).Warn("undoing half-applied accept")

	if err := e.save(ctx, op, me); err != nil {
		return false, err
	}
	them.Friends = removeID(them.Friends, me.ID)
	if err := e.save(ctx, op, them); err != nil {
		return false, err
	}
	return true, nil
}

// healHalfAccept re-reads the pair and runs undoHalfAccept on fresh records.
// It reports whether a friend entry was removed.
func (e *Engine) healHalfAccept(ctx context.Context, self, other uuid.UUID) (bool, error) {
	var undone bool
	err := e.run(ctx, opUndoAccept, func(ctx context.Context) error {
		undone = false
		me, _, err := e.load(ctx, opUndoAccept, self, UserNotFound)
		if err != nil {
			return notFoundKindAsNil(err)
		}
		them, _, err := e.load(ctx, opUndoAccept, other, UserNotFound)
		if err != nil {
			return notFoundKindAsNil(err)
		}
		undone, err = e.undoHalfAccept(ctx, opUndoAccept, me, them)
		return err
	})
	return undone, err
}

func notFoundKindAsNil(err error) error {
	if KindOf(err) == UserNotFound {
		return nil
	}
	return err
}
