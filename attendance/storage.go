/*
storage.go - Persistence interface for attendance state

PURPOSE:
  Defines the interface between the reconciliation engine and the
  database. The engine depends only on this abstract read/write
  contract, never on a specific storage technology.

ACCESS DISCIPLINE:
  Every lookup is by key equality (staff + day); the engine never
  assumes row ordering or position. Break intervals and audit rows are
  append-mostly: an interval is inserted OPEN and later closed, never
  deleted; error and raw-event rows are append-only.

IMPLEMENTATIONS:
  - store/sqlite:        Production SQLite store
  - attendance/store:    In-memory store for tests/dev

SEE ALSO:
  - ledger.go: Break queries layered on BreaksFor
  - engine.go: The only writer of daily records
*/
package attendance

import "context"

// Store handles persistence of break intervals, daily records, and the
// audit tables.
type Store interface {
	// InsertBreak persists a new (OPEN) break interval.
	InsertBreak(ctx context.Context, interval BreakInterval) error

	// CloseBreak sets end, minutes, and CLOSED status on an existing
	// interval, identified by interval.ID. The only mutation break
	// intervals ever receive.
	CloseBreak(ctx context.Context, interval BreakInterval) error

	// BreaksFor returns all break intervals for one (staff, day), in no
	// guaranteed order.
	BreaksFor(ctx context.Context, staff StaffID, day Day) ([]BreakInterval, error)

	// FindDaily returns the daily record for one (staff, day), or nil if
	// none exists yet.
	FindDaily(ctx context.Context, staff StaffID, day Day) (*DailyRecord, error)

	// UpsertDaily creates or replaces the daily record for its key.
	UpsertDaily(ctx context.Context, record DailyRecord) error

	// AppendError appends to the error table. Append-only.
	AppendError(ctx context.Context, entry ErrorEntry) error

	// AppendRawEvent appends to the raw audit trail. Append-only.
	AppendRawEvent(ctx context.Context, event RawEvent) error
}

// ReportStore extends Store with the read side consumed by the report
// API. The engine itself never uses these.
type ReportStore interface {
	Store

	// DailyForPeriod returns all daily records for one staff member in a
	// reporting period (YYYY-MM), ordered by day.
	DailyForPeriod(ctx context.Context, staff StaffID, period string) ([]DailyRecord, error)

	// Errors returns the most recent error entries, newest first.
	Errors(ctx context.Context, limit int) ([]ErrorEntry, error)
}
