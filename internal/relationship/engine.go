// internal/relationship/engine.go

// Package relationship manages friend requests and friendships between users.
//
// Each user record owns its friend set and the pending requests addressed to
// it, so a friendship lives in two records that cannot be written atomically.
// Every mutation here is an idempotent set operation (add-to-set,
// remove-from-set, filter-out) applied to freshly read and repaired records
// and saved with a conditional write. A conflict restarts the whole operation,
// and a crash between the two writes leaves state that a retry of the same
// operation converges.
package relationship

import (
	"context"
	"errors"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxRetries       = 5
	DefaultOpTimeout        = 5 * time.Second
	DefaultDiscoverPageSize = 10
)

const (
	opSend     = "send_request"
	opAccept   = "accept_request"
	opReject   = "reject_request"
	opRemove   = "remove_friend"
	opIsFriend = "is_friend"
	opDiscover = "discover"
	opList     = "list_friends"
	opRepair   = "repair"

	opUndoAccept = "undo_half_accept"
)

// ProfileResolver turns user ids into profiles. Ids that do not resolve are
// absent from the result.
type ProfileResolver interface {
	ResolveProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error)
}

// Options tunes an Engine. Zero values pick the defaults.
type Options struct {
	MaxRetries       int
	OpTimeout        time.Duration
	DiscoverPageSize int

	// Profiles resolves ids for the read side. Defaults to the store.
	Profiles ProfileResolver
	// Notifier receives an event after every successful mutation.
	Notifier Notifier
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// Engine is the only writer of the friends and pending-request fields.
// It holds no mutable state of its own and is safe for concurrent use.
type Engine struct {
	store      store.Store
	profiles   ProfileResolver
	notifier   Notifier
	log        logrus.FieldLogger
	now        func() time.Time
	maxRetries int
	opTimeout  time.Duration
	pageSize   int
}

func NewEngine(s store.Store, opts Options) *Engine {
	e := &Engine{
		store:      s,
		profiles:   opts.Profiles,
		notifier:   opts.Notifier,
		log:        opts.Logger,
		now:        opts.Now,
		maxRetries: opts.MaxRetries,
		opTimeout:  opts.OpTimeout,
		pageSize:   opts.DiscoverPageSize,
	}
	if e.profiles == nil {
		e.profiles = s
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.maxRetries <= 0 {
		e.maxRetries = DefaultMaxRetries
	}
	if e.opTimeout <= 0 {
		e.opTimeout = DefaultOpTimeout
	}
	if e.pageSize <= 0 {
		e.pageSize = DefaultDiscoverPageSize
	}
	return e
}

// SendRequest records a pending request from self on other's record.
//
// self's record gains nothing but is rewritten unchanged before the target,
// so a concurrent reverse request that lands on it makes this call conflict
// and re-check. At most one direction of a pair can therefore succeed.
func (e *Engine) SendRequest(ctx context.Context, self, other uuid.UUID) error {
	if self == other || other == uuid.Nil {
		return e.finish(opSend, newError(InvalidTarget, opSend, errors.New("cannot send a friend request to yourself")), time.Now())
	}

	err := e.run(ctx, opSend, func(ctx context.Context) error {
		target, _, err := e.load(ctx, opSend, other, InvalidTarget)
		if err != nil {
			return err
		}
		sender, _, err := e.load(ctx, opSend, self, UserNotFound)
		if err != nil {
			return err
		}

		theyList, weList := containsID(target.Friends, self), containsID(sender.Friends, other)
		if theyList && weList {
			return newError(AlreadyFriends, opSend, nil)
		}
		if theyList != weList {
			e.pairLogger(opSend, self, other).Warn("asymmetric friendship, allowing request so accept can restore it")
		}

		outbound := hasRequestFrom(target.PendingRequests, self)
		inbound := hasRequestFrom(sender.PendingRequests, other)
		if outbound && inbound {
			if err := e.dropLaterCrossed(ctx, opSend, sender, target); err != nil {
				return err
			}
		}
		if outbound {
			return newError(DuplicateRequest, opSend, errors.New("friend request already sent"))
		}
		if inbound {
			return newError(DuplicateRequest, opSend, errors.New("a request from this user is already pending"))
		}

		if err := e.save(ctx, opSend, sender); err != nil {
			return err
		}
		target.PendingRequests = withRequest(target.PendingRequests, models.NewPendingRequest(self, e.now()))
		return e.save(ctx, opSend, target)
	})
	if err == nil {
		e.notify(ctx, EventRequestSent, self, other)
	}
	return err
}

// AcceptRequest turns the pending request from other on self's record into a
// symmetric friendship and clears every request between the two.
//
// other's record is written first. If the second write never happens the
// request is still on self's record, so accepting again converges. If the
// request was rejected in between, the first write is undone instead.
func (e *Engine) AcceptRequest(ctx context.Context, self, other uuid.UUID) error {
	if self == other {
		return e.finish(opAccept, newError(RequestNotFound, opAccept, nil), time.Now())
	}

	err := e.run(ctx, opAccept, func(ctx context.Context) error {
		me, _, err := e.load(ctx, opAccept, self, UserNotFound)
		if err != nil {
			return err
		}
		them, _, err := e.load(ctx, opAccept, other, UserNotFound)
		if err != nil {
			if !hasRequestFrom(me.PendingRequests, other) {
				return newError(RequestNotFound, opAccept, nil)
			}
			return err
		}
		if !hasRequestFrom(me.PendingRequests, other) {
			if _, err := e.undoHalfAccept(ctx, opAccept, me, them); err != nil {
				return err
			}
			return newError(RequestNotFound, opAccept, nil)
		}

		them.Friends = addID(them.Friends, self)
		them.PendingRequests = withoutRequestsFrom(them.PendingRequests, self)
		me.Friends = addID(me.Friends, other)
		me.PendingRequests = withoutRequestsFrom(me.PendingRequests, other)

		if err := e.save(ctx, opAccept, them); err != nil {
			return err
		}
		return e.save(ctx, opAccept, me)
	})
	if err == nil {
		e.notify(ctx, EventRequestAccepted, self, other)
	}
	return err
}

// RejectRequest deletes the pending request from other on self's record.
// other's record is only written to undo an accept of the same request that
// reached other's record but not self's.
func (e *Engine) RejectRequest(ctx context.Context, self, other uuid.UUID) error {
	err := e.run(ctx, opReject, func(ctx context.Context) error {
		me, _, err := e.load(ctx, opReject, self, UserNotFound)
		if err != nil {
			return err
		}
		if !hasRequestFrom(me.PendingRequests, other) {
			return newError(RequestNotFound, opReject, nil)
		}
		me.PendingRequests = withoutRequestsFrom(me.PendingRequests, other)
		return e.save(ctx, opReject, me)
	})
	if err != nil {
		return err
	}
	e.notify(ctx, EventRequestRejected, self, other)

	if _, err := e.healHalfAccept(ctx, self, other); err != nil {
		e.pairLogger(opUndoAccept, self, other).WithError(err).Warn("failed to undo half-applied accept")
	}
	return nil
}

// RemoveFriend drops the friendship from both records and sweeps any request
// left between the pair. Removing a friendship that does not exist, or exists
// on one side only, is not an error.
func (e *Engine) RemoveFriend(ctx context.Context, self, other uuid.UUID) error {
	if self == other {
		return e.finish(opRemove, newError(InvalidTarget, opRemove, errors.New("cannot unfriend yourself")), time.Now())
	}

	err := e.run(ctx, opRemove, func(ctx context.Context) error {
		me, _, err := e.load(ctx, opRemove, self, UserNotFound)
		if err != nil {
			return err
		}
		them, _, err := e.load(ctx, opRemove, other, UserNotFound)
		if err != nil {
			return err
		}

		me.Friends = removeID(me.Friends, other)
		me.PendingRequests = withoutRequestsFrom(me.PendingRequests, other)
		them.Friends = removeID(them.Friends, self)
		them.PendingRequests = withoutRequestsFrom(them.PendingRequests, self)

		// Both records are written even when unchanged so that a concurrent
		// accept that read either of them fails its conditional write.
		if err := e.save(ctx, opRemove, me); err != nil {
			return err
		}
		return e.save(ctx, opRemove, them)
	})
	if err == nil {
		e.notify(ctx, EventFriendRemoved, self, other)
	}
	return err
}

// IsFriend reports whether a and b list each other as friends. A friendship
// recorded on only one side does not count. Missing users are not friends.
func (e *Engine) IsFriend(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var friends bool
	err := e.run(ctx, opIsFriend, func(ctx context.Context) error {
		if a == b {
			return nil
		}
		ua, err := e.store.GetUser(ctx, a)
		if err != nil {
			return notFoundAsNil(opIsFriend, err)
		}
		ub, err := e.store.GetUser(ctx, b)
		if err != nil {
			return notFoundAsNil(opIsFriend, err)
		}
		friends = containsID(ua.Friends, b) && containsID(ub.Friends, a)
		return nil
	})
	return friends, err
}

// RepairUser applies Consistency Repair to one stored record and saves it if
// anything changed.
func (e *Engine) RepairUser(ctx context.Context, id uuid.UUID) (RepairReport, error) {
	var report RepairReport
	err := e.run(ctx, opRepair, func(ctx context.Context) error {
		u, err := e.store.GetUser(ctx, id)
		if err != nil {
			return e.storeErr(opRepair, err, UserNotFound)
		}
		fixed, rep, err := e.repairLoaded(ctx, u)
		if err != nil {
			return newError(StoreUnavailable, opRepair, err)
		}
		report = rep
		if !rep.Changed() {
			return nil
		}
		return e.save(ctx, opRepair, fixed)
	})
	return report, err
}

// run bounds fn by the operation timeout and restarts it on version
// conflicts until the retry budget is spent.
func (e *Engine) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.opTimeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if !errors.Is(err, store.ErrConflict) {
			return e.finish(op, err, start)
		}
		if attempt >= e.maxRetries {
			return e.finish(op, newError(ConflictRetryExhausted, op, err), start)
		}
		conflictRetriesTotal.WithLabelValues(op).Inc()
		e.log.WithFields(logrus.Fields{"op": op, "attempt": attempt}).Warn("version conflict, retrying")
	}
}

func (e *Engine) finish(op string, err error, start time.Time) error {
	operationsTotal.WithLabelValues(op, outcomeLabel(err)).Inc()
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return err
}

// load reads and repairs a record. missing is the kind reported when the
// record does not exist. The bool reports whether repair changed anything.
func (e *Engine) load(ctx context.Context, op string, id uuid.UUID, missing Kind) (*models.User, bool, error) {
	u, err := e.store.GetUser(ctx, id)
	if err != nil {
		return nil, false, e.storeErr(op, err, missing)
	}
	fixed, rep, err := e.repairLoaded(ctx, u)
	if err != nil {
		return nil, false, newError(StoreUnavailable, op, err)
	}
	return fixed, rep.Changed(), nil
}

// save writes the relationship fields. Conflicts are returned bare so run can
// restart the operation.
func (e *Engine) save(ctx context.Context, op string, u *models.User) error {
	err := e.store.SaveRelationships(ctx, u)
	if err == nil || errors.Is(err, store.ErrConflict) {
		return err
	}
	return e.storeErr(op, err, UserNotFound)
}

func (e *Engine) storeErr(op string, err error, missing Kind) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(missing, op, err)
	}
	return newError(StoreUnavailable, op, err)
}

func notFoundAsNil(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return newError(StoreUnavailable, op, err)
}

func (e *Engine) pairLogger(op string, self, other uuid.UUID) logrus.FieldLogger {
	return e.log.WithFields(logrus.Fields{"op": op, "self": self, "other": other})
}

func (e *Engine) notify(ctx context.Context, typ EventType, actor, target uuid.UUID) {
	ev := Event{Type: typ, Actor: actor, Target: target, At: e.now().UTC()}
	if err := e.notifier.Publish(ctx, ev); err != nil {
		e.pairLogger(string(typ), actor, target).WithError(err).Warn("failed to publish relationship event")
	}
}
