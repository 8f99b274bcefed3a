/*
engine.go - Attendance reconciliation state machine

PURPOSE:
  Consumes one normalized event at a time for a (staff, day) key and
  either mutates the daily record and break ledger or rejects the event
  with a typed reason. This is the only writer of attendance state.

TRANSITION RULES:
  IN        Keep the earliest IN of the day. Never rejected.
  OUT       Rejected while a break is open, or if earlier than the last
            closed break's end; otherwise keep the latest OUT of the day.
  BREAK IN  Rejected if a break is already open; otherwise opens one.
  BREAK OUT Rejected with no open break, or if earlier than that break's
            start; otherwise closes it and derives its minutes.
  unknown   Audited to the raw-event trail, no mutation, no error.

SERIALIZATION:
  Processing is single-threaded per (staff, day): a keyed lock is held
  across the whole read-modify-write so two concurrent events for the
  same key cannot interleave. Events for distinct keys run concurrently.
  All reads a decision needs are gathered before any write is applied;
  a transition either fully commits or is fully rejected.

FAILURE POLICY:
  Ordering violations are recovered locally: an ErrorEntry is appended
  and OutcomeRejected returned; HandleEvent does not raise. A non-nil
  error always means the store itself failed; retry policy belongs to
  the host.

SEE ALSO:
  - normalize.go: Raw text to Action
  - ledger.go:    Break queries and mutations
  - aggregate.go: Derived-field recomputation
*/
package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine reconciles incoming events into daily attendance records.
type Engine struct {
	store    Store
	ledger   *BreakLedger
	resolver StaffResolver
	loc      *time.Location

	mu    sync.Mutex
	locks map[staffDayKey]*sync.Mutex
}

type staffDayKey struct {
	Staff StaffID
	Day   Day
}

// NewEngine creates an engine. The location is the single reporting
// time zone used to derive every calendar-day key.
func NewEngine(store Store, resolver StaffResolver, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		store:    store,
		ledger:   NewBreakLedger(store),
		resolver: resolver,
		loc:      loc,
		locks:    make(map[staffDayKey]*sync.Mutex),
	}
}

// Location returns the configured reporting time zone.
func (e *Engine) Location() *time.Location { return e.loc }

// HandleEvent resolves, normalizes, and applies one event.
//
// Unregistered identifiers drop the event before it reaches any table:
// no ErrorEntry, no audit row. Ordering violations append an ErrorEntry
// and leave attendance state untouched. A non-nil error means the store
// failed; the outcome is then meaningless.
func (e *Engine) HandleEvent(ctx context.Context, rawIdentifier, rawAction string, occurredAt time.Time) (Outcome, error) {
	staff, ok := e.resolver.Resolve(rawIdentifier)
	if !ok {
		return Ignored("unregistered identifier"), nil
	}

	at := occurredAt.In(e.loc)
	day := DayOf(at, e.loc)
	action := Normalize(rawAction)

	unlock := e.lockKey(staffDayKey{Staff: staff.ID, Day: day})
	defer unlock()

	if !action.Known() {
		event := RawEvent{
			ID:      uuid.NewString(),
			At:      at,
			StaffID: staff.ID,
			Action:  string(action),
		}
		if err := e.store.AppendRawEvent(ctx, event); err != nil {
			return Outcome{}, err
		}
		return Ignored("unrecognized action"), nil
	}

	record, err := e.loadRecord(ctx, staff.ID, day)
	if err != nil {
		return Outcome{}, err
	}

	if verr := e.apply(ctx, &record, action, at); verr != nil {
		if !IsOrderingViolation(verr) {
			return Outcome{}, verr
		}
		entry := ErrorEntry{
			ID:      uuid.NewString(),
			At:      at,
			StaffID: staff.ID,
			Message: (&RejectionError{StaffID: staff.ID, Day: day, Action: action, At: at, Err: verr}).Error(),
		}
		if err := e.store.AppendError(ctx, entry); err != nil {
			return Outcome{}, err
		}
		return Rejected(entry), nil
	}

	// Derived fields are a pure function of the post-transition state.
	intervals, err := e.store.BreaksFor(ctx, staff.ID, day)
	if err != nil {
		return Outcome{}, err
	}
	record.BreakMinutes, record.NetMinutes = Recompute(intervals, record.FirstIn, record.LastOut)
	record.Present = true

	if err := e.store.UpsertDaily(ctx, record); err != nil {
		return Outcome{}, err
	}
	return Applied(record), nil
}

func (e *Engine) loadRecord(ctx context.Context, staff StaffID, day Day) (DailyRecord, error) {
	existing, err := e.store.FindDaily(ctx, staff, day)
	if err != nil {
		return DailyRecord{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	return DailyRecord{Day: day, StaffID: staff}, nil
}

// apply runs one transition against the record and ledger. Ordering
// violations are returned as sentinel errors; everything else is a
// store failure.
func (e *Engine) apply(ctx context.Context, record *DailyRecord, action Action, at time.Time) error {
	switch action {
	case ActionIn:
		// Keep the earliest IN of the day.
		if record.FirstIn == nil || at.Before(*record.FirstIn) {
			t := at
			record.FirstIn = &t
		}
		return nil

	case ActionOut:
		open, err := e.ledger.OpenBreak(ctx, record.StaffID, record.Day)
		if err != nil {
			return err
		}
		if open != nil {
			return ErrOpenBreakExists
		}
		last, err := e.ledger.LastClosedBreak(ctx, record.StaffID, record.Day)
		if err != nil {
			return err
		}
		if last != nil && at.Before(*last.End) {
			return ErrOutPrecedesBreakOut
		}
		// Keep the latest OUT of the day.
		if record.LastOut == nil || at.After(*record.LastOut) {
			t := at
			record.LastOut = &t
		}
		return nil

	case ActionBreakIn:
		open, err := e.ledger.OpenBreak(ctx, record.StaffID, record.Day)
		if err != nil {
			return err
		}
		if open != nil {
			return ErrBreakAlreadyOpen
		}
		_, err = e.ledger.StartBreak(ctx, record.StaffID, record.Day, at)
		return err

	case ActionBreakOut:
		open, err := e.ledger.OpenBreak(ctx, record.StaffID, record.Day)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrNoOpenBreak
		}
		if at.Before(open.Start) {
			return ErrBreakOutPrecedesBreakIn
		}
		_, err = e.ledger.CloseBreak(ctx, *open, at)
		return err
	}
	return nil
}

// lockKey serializes processing per (staff, day). Lock values are kept
// for the life of the engine; the key space is bounded by active
// staff x days.
func (e *Engine) lockKey(key staffDayKey) func() {
	e.mu.Lock()
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
