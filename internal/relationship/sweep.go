// internal/relationship/sweep.go
package relationship

import (
	"bytes"
	"context"
	"errors"

	"github.com/deepanshu089/linkedin-lite/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultSweepBatchSize = 100

type SweepOptions struct {
	BatchSize int
	// DryRun computes repairs without saving them.
	DryRun bool
}

// SweepReport summarizes a pass over every stored record.
type SweepReport struct {
	Scanned  int
	Repaired int
	Dropped  RepairReport

	// Crossed counts pairs holding requests in both directions. The later
	// request of each pair is dropped.
	Crossed int
	// Asymmetric counts friend entries whose other side does not list the
	// owner back. Healed is the part of those left by an accept that lost to
	// a reject, which the sweep unfriends. The rest are reported only.
	Asymmetric int
	Healed     int
}

func (r *RepairReport) add(o RepairReport) {
	r.DanglingRequests += o.DanglingRequests
	r.DuplicateRequests += o.DuplicateRequests
	r.SelfRequests += o.SelfRequests
	r.StaleRequests += o.StaleRequests
	r.DroppedFriends += o.DroppedFriends
}

// Sweep applies Consistency Repair to every record the scanner yields, in id
// order, then resolves crossed requests and half-applied accepts between
// pairs. Each record is saved with the same conditional write the engine
// uses, so it can run against a live service.
func (e *Engine) Sweep(ctx context.Context, scanner store.Scanner, opts SweepOptions) (SweepReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultSweepBatchSize
	}

	var (
		report SweepReport
		after  = uuid.Nil
	)
	for {
		ids, err := scanner.ScanUserIDs(ctx, after, opts.BatchSize)
		if err != nil {
			return report, newError(StoreUnavailable, opRepair, err)
		}
		for _, id := range ids {
			err := e.sweepOne(ctx, id, opts.DryRun, &report)
			if KindOf(err) == UserNotFound {
				continue
			}
			if err != nil {
				return report, err
			}
			report.Scanned++
		}
		if len(ids) < opts.BatchSize {
			return report, nil
		}
		after = ids[len(ids)-1]
		e.log.WithFields(logrus.Fields{"scanned": report.Scanned, "repaired": report.Repaired}).Debug("sweep progress")
	}
}

func (e *Engine) sweepOne(ctx context.Context, id uuid.UUID, dryRun bool, report *SweepReport) error {
	var (
		rep RepairReport
		err error
	)
	if dryRun {
		rep, err = e.inspectUser(ctx, id)
	} else {
		rep, err = e.RepairUser(ctx, id)
	}
	if err != nil {
		return err
	}
	if rep.Changed() {
		report.Repaired++
		report.Dropped.add(rep)
	}

	crossed, err := e.resolveCrossed(ctx, id, dryRun)
	if err != nil {
		return err
	}
	report.Crossed += crossed

	asym, healed, err := e.checkFriends(ctx, id, dryRun)
	report.Asymmetric += asym
	report.Healed += healed
	return err
}

// inspectUser reports what RepairUser would change without writing.
func (e *Engine) inspectUser(ctx context.Context, id uuid.UUID) (RepairReport, error) {
	var report RepairReport
	err := e.run(ctx, opRepair, func(ctx context.Context) error {
		u, err := e.store.GetUser(ctx, id)
		if err != nil {
			return e.storeErr(opRepair, err, UserNotFound)
		}
		found, err := e.store.ExistingIDs(ctx, referencedIDs(u))
		if err != nil {
			return newError(StoreUnavailable, opRepair, err)
		}
		_, report = Repair(u, func(id uuid.UUID) bool { return found[id] })
		return nil
	})
	return report, err
}

// resolveCrossed finds requesters of id that also hold a request from id.
// Each pair is handled from its smaller id so it is counted once.
func (e *Engine) resolveCrossed(ctx context.Context, id uuid.UUID, dryRun bool) (int, error) {
	var n int
	err := e.run(ctx, opRepair, func(ctx context.Context) error {
		n = 0
		u, _, err := e.load(ctx, opRepair, id, UserNotFound)
		if err != nil {
			return err
		}
		for _, from := range requesterIDs(u.PendingRequests) {
			if bytes.Compare(id[:], from[:]) > 0 {
				continue
			}
			other, _, err := e.load(ctx, opRepair, from, UserNotFound)
			if KindOf(err) == UserNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if !hasRequestFrom(other.PendingRequests, id) {
				continue
			}
			n++
			if dryRun {
				continue
			}
			if err := e.dropLaterCrossed(ctx, opRepair, u, other); err != nil {
				return err
			}
		}
		return nil
	})
	return n, err
}

// checkFriends counts friends of id that do not list id back and heals the
// ones an accept left half-applied.
func (e *Engine) checkFriends(ctx context.Context, id uuid.UUID, dryRun bool) (asym, healed int, err error) {
	u, err := e.store.GetUser(ctx, id)
	if err != nil {
		return 0, 0, e.storeErr(opRepair, err, UserNotFound)
	}
	for _, f := range u.Friends {
		other, err := e.store.GetUser(ctx, f)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return asym, healed, newError(StoreUnavailable, opRepair, err)
		}
		if containsID(other.Friends, id) {
			continue
		}
		asym++
		e.pairLogger(opRepair, id, f).Warn("asymmetric friendship")
		if dryRun || hasRequestFrom(other.PendingRequests, id) {
			continue
		}
		undone, err := e.healHalfAccept(ctx, f, id)
		if err != nil {
			return asym, healed, err
		}
		if undone {
			healed++
		}
	}
	return asym, healed, nil
}
