/*
Package attendance provides the core attendance and break reconciliation engine.

PURPOSE:
  This package contains the stateful logic that reduces raw clock events
  (IN, OUT, BREAK IN, BREAK OUT) reported by staff into per-(staff, day)
  attendance records: first-in time, last-out time, total break minutes,
  and net worked minutes, with validation of break/clock ordering.

KEY CONCEPTS IN THIS FILE (types.go):
  - Action: A canonical clock action derived from free-text input
  - BreakInterval: One break per staff/day, either OPEN or CLOSED
  - DailyRecord: The materialized attendance state for one (staff, day)
  - ErrorEntry: Append-only record of a rejected event
  - Outcome: The typed result of handling one event

DESIGN PRINCIPLES:
  1. Derived fields are recomputed, never patched: break and net minutes
     are always a pure function of the current ledger state
  2. Monotonicity: first-in only moves earlier, last-out only moves later
  3. One open break: at most one OPEN BreakInterval per (staff, day),
     enforced by the engine, never by the store
  4. Auditability: every rejection lands in an append-only error table

SEE ALSO:
  - normalize.go: Free-text action to canonical Action
  - engine.go:    The reconciliation state machine
  - ledger.go:    Break interval queries
  - aggregate.go: Break/net minute recomputation
*/
package attendance

import (
	"fmt"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string

// Staff is a resolved staff member. Resolution from a raw identifier
// (usually a phone number) is the host's concern; see StaffResolver.
type Staff struct {
	ID   StaffID
	Name string
}

// StaffResolver maps a raw reporting identifier to a registered staff
// member. Unregistered identifiers return ok=false and cause the whole
// event to be dropped before it reaches the engine.
type StaffResolver interface {
	Resolve(raw string) (Staff, bool)
}

// =============================================================================
// ACTION - Canonical clock action
// =============================================================================

// Action is the canonical form of an incoming action string. The four
// named constants form a closed set; anything else is the upper-cased
// original text and is treated as unknown (audited, never applied).
type Action string

const (
	ActionIn       Action = "IN"
	ActionOut      Action = "OUT"
	ActionBreakIn  Action = "BREAK IN"
	ActionBreakOut Action = "BREAK OUT"
)

// Known reports whether the action is one of the closed canonical set.
func (a Action) Known() bool {
	switch a {
	case ActionIn, ActionOut, ActionBreakIn, ActionBreakOut:
		return true
	}
	return false
}

// =============================================================================
// BREAK INTERVAL - One break per staff/day, OPEN or CLOSED
// =============================================================================

type BreakStatus string

const (
	BreakOpen   BreakStatus = "OPEN"
	BreakClosed BreakStatus = "CLOSED"
)

// BreakInterval records one break. Created OPEN on a valid BREAK IN,
// closed (end, minutes, status) on the matching BREAK OUT. Never deleted.
type BreakInterval struct {
	ID      string
	StaffID StaffID
	Day     Day
	Start   time.Time
	End     *time.Time
	Minutes int
	Status  BreakStatus
}

// =============================================================================
// DAILY RECORD - Materialized attendance state for one (staff, day)
// =============================================================================

// DailyRecord is created on the first accepted event of the day for a
// staff member. FirstIn only ever moves earlier and LastOut only ever
// moves later within a day. BreakMinutes and NetMinutes are recomputed
// from the break ledger and the in/out fields on every accepted event.
type DailyRecord struct {
	Day          Day
	StaffID      StaffID
	Present      bool
	FirstIn      *time.Time
	LastOut      *time.Time
	BreakMinutes int
	NetMinutes   int
}

// =============================================================================
// AUDIT TYPES
// =============================================================================

// ErrorEntry records one rejected event. Append-only; a rejection never
// mutates a BreakInterval or DailyRecord.
type ErrorEntry struct {
	ID      string
	At      time.Time
	StaffID StaffID
	Message string
}

// RawEvent records an event whose action could not be recognized.
// Audit trail only; unknown actions cause no state mutation.
type RawEvent struct {
	ID      string
	At      time.Time
	StaffID StaffID
	Action  string
}

// =============================================================================
// OUTCOME - Typed result of handling one event
// =============================================================================

type OutcomeKind string

const (
	// OutcomeIgnored: the event was dropped without touching attendance
	// state (unregistered identifier, or unrecognized action).
	OutcomeIgnored OutcomeKind = "ignored"

	// OutcomeRejected: the event violated an ordering rule; an
	// ErrorEntry was appended and nothing else changed.
	OutcomeRejected OutcomeKind = "rejected"

	// OutcomeApplied: the event mutated the daily record and derived
	// fields were refreshed.
	OutcomeApplied OutcomeKind = "applied"
)

// Outcome communicates how one event was handled. The host's webhook
// layer translates this into a transport response; the engine never
// raises on a rejection.
type Outcome struct {
	Kind      OutcomeKind
	Reason    string       // set for Ignored
	Rejection *ErrorEntry  // set for Rejected
	Record    *DailyRecord // set for Applied
}

func Ignored(reason string) Outcome {
	return Outcome{Kind: OutcomeIgnored, Reason: reason}
}

func Rejected(entry ErrorEntry) Outcome {
	return Outcome{Kind: OutcomeRejected, Rejection: &entry}
}

func Applied(record DailyRecord) Outcome {
	return Outcome{Kind: OutcomeApplied, Record: &record}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeIgnored:
		return fmt.Sprintf("ignored (%s)", o.Reason)
	case OutcomeRejected:
		return fmt.Sprintf("rejected (%s)", o.Rejection.Message)
	case OutcomeApplied:
		return fmt.Sprintf("applied (%s %s)", o.Record.StaffID, o.Record.Day)
	}
	return string(o.Kind)
}
