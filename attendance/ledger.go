/*
ledger.go - Break ledger queries

PURPOSE:
  Maintains, per (staff, day), the sequence of break intervals. All
  reads the engine needs for a transition decision come from here,
  gathered before any write is applied.

INVARIANT:
  At most one OPEN interval per (staff, day). The engine enforces this;
  the ledger's OpenBreak query is written to survive an externally
  violated store anyway: if multiple OPEN intervals somehow exist, the
  most recently started one wins, deterministically.

SEE ALSO:
  - storage.go: The BreaksFor primitive this layers on
  - engine.go:  The only caller of the mutating operations
*/
package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BreakLedger answers break-interval queries for the engine.
type BreakLedger struct {
	store Store
}

func NewBreakLedger(store Store) *BreakLedger {
	return &BreakLedger{store: store}
}

// OpenBreak returns the OPEN interval for (staff, day), or nil. If more
// than one exists the latest start wins.
func (l *BreakLedger) OpenBreak(ctx context.Context, staff StaffID, day Day) (*BreakInterval, error) {
	intervals, err := l.store.BreaksFor(ctx, staff, day)
	if err != nil {
		return nil, err
	}
	var open *BreakInterval
	for i := range intervals {
		iv := &intervals[i]
		if iv.Status != BreakOpen {
			continue
		}
		if open == nil || iv.Start.After(open.Start) {
			open = iv
		}
	}
	return open, nil
}

// LastClosedBreak returns the CLOSED interval with the latest end for
// (staff, day), or nil if none has been closed yet.
func (l *BreakLedger) LastClosedBreak(ctx context.Context, staff StaffID, day Day) (*BreakInterval, error) {
	intervals, err := l.store.BreaksFor(ctx, staff, day)
	if err != nil {
		return nil, err
	}
	var last *BreakInterval
	for i := range intervals {
		iv := &intervals[i]
		if iv.Status != BreakClosed || iv.End == nil {
			continue
		}
		if last == nil || iv.End.After(*last.End) {
			last = iv
		}
	}
	return last, nil
}

// ClosedMinutes sums minutes over all CLOSED intervals for (staff, day).
// OPEN intervals contribute nothing.
func (l *BreakLedger) ClosedMinutes(ctx context.Context, staff StaffID, day Day) (int, error) {
	intervals, err := l.store.BreaksFor(ctx, staff, day)
	if err != nil {
		return 0, err
	}
	return SumClosedMinutes(intervals), nil
}

// StartBreak inserts a new OPEN interval starting at the given time.
func (l *BreakLedger) StartBreak(ctx context.Context, staff StaffID, day Day, start time.Time) (BreakInterval, error) {
	interval := BreakInterval{
		ID:      uuid.NewString(),
		StaffID: staff,
		Day:     day,
		Start:   start,
		Status:  BreakOpen,
	}
	if err := l.store.InsertBreak(ctx, interval); err != nil {
		return BreakInterval{}, err
	}
	return interval, nil
}

// CloseBreak closes an open interval at the given end time, deriving
// its duration in whole minutes (rounded).
func (l *BreakLedger) CloseBreak(ctx context.Context, open BreakInterval, end time.Time) (BreakInterval, error) {
	open.End = &end
	open.Minutes = RoundMinutes(end.Sub(open.Start))
	open.Status = BreakClosed
	if err := l.store.CloseBreak(ctx, open); err != nil {
		return BreakInterval{}, err
	}
	return open, nil
}
