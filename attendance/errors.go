/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All ordering-violation errors in one place. Each sentinel corresponds
  to one rejection rule in the engine; the message text is what lands in
  the append-only error table.

ERROR CATEGORIES:
  1. Ordering violations - Break/clock sequencing rules (typed, recovered
     locally into an Outcome; never raised to the host)
  2. Store errors - Infrastructure failures (propagated to the host as-is)

USAGE:
  Hosts inspect outcomes, not errors, for rejections. A non-nil error
  from HandleEvent always means infrastructure failure, never a
  validation problem.

SEE ALSO:
  - engine.go: Produces these on rejected transitions
*/
package attendance

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrOpenBreakExists is returned when an OUT arrives while a break
	// is still open.
	ErrOpenBreakExists = errors.New("open break exists")

	// ErrOutPrecedesBreakOut is returned when an OUT is earlier than the
	// end of the most recently closed break.
	ErrOutPrecedesBreakOut = errors.New("OUT precedes last BREAK_OUT")

	// ErrBreakAlreadyOpen is returned when a BREAK_IN arrives while a
	// break is already open.
	ErrBreakAlreadyOpen = errors.New("existing open break")

	// ErrNoOpenBreak is returned when a BREAK_OUT arrives with no open
	// break to close.
	ErrNoOpenBreak = errors.New("no open break")

	// ErrBreakOutPrecedesBreakIn is returned when a BREAK_OUT is earlier
	// than the open break's start.
	ErrBreakOutPrecedesBreakIn = errors.New("BREAK_OUT precedes BREAK_IN")
)

// IsOrderingViolation reports whether err is one of the break/clock
// sequencing rules. These are recovered into OutcomeRejected and never
// surface as errors from HandleEvent.
func IsOrderingViolation(err error) bool {
	return errors.Is(err, ErrOpenBreakExists) ||
		errors.Is(err, ErrOutPrecedesBreakOut) ||
		errors.Is(err, ErrBreakAlreadyOpen) ||
		errors.Is(err, ErrNoOpenBreak) ||
		errors.Is(err, ErrBreakOutPrecedesBreakIn)
}

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RejectionError carries the context of one rejected transition.
type RejectionError struct {
	StaffID StaffID
	Day     Day
	Action  Action
	At      time.Time
	Err     error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s %s at %s: %v", e.StaffID, e.Action, e.At.Format(time.RFC3339), e.Err)
}

func (e *RejectionError) Unwrap() error { return e.Err }
