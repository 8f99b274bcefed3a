/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements attendance.Store / attendance.ReportStore plus the staff
  table used by the admin API. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  break_intervals:  One row per break, inserted OPEN, closed in place
  daily_attendance: One row per (day, staff), keyed by period (YYYY-MM)
  error_log:        Append-only record of rejected events
  raw_events:       Append-only audit of unrecognized actions
  staff:            Registered staff with canonical phone numbers

ACCESS DISCIPLINE:
  All reads and writes are by key equality (staff + day); nothing relies
  on row order or position. error_log and raw_events receive INSERTs
  only; break_intervals receives exactly one UPDATE per row (the close).

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

MIGRATION:
  Schema is created on New(). Table/schema maintenance is entirely a
  host concern; the reconciliation engine never sees it.

SEE ALSO:
  - attendance/storage.go: Interface definitions
  - attendance/store:      In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clockline/attendance-engine/attendance"
)

// Store implements the attendance storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS break_intervals (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		day TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT,
		minutes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_breaks_staff_day
		ON break_intervals(staff_id, day);

	CREATE TABLE IF NOT EXISTS daily_attendance (
		period TEXT NOT NULL,
		day TEXT NOT NULL,
		staff_id TEXT NOT NULL,
		present INTEGER NOT NULL DEFAULT 0,
		first_in TEXT,
		last_out TEXT,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		net_minutes INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (day, staff_id)
	);
	CREATE INDEX IF NOT EXISTS idx_daily_staff_period
		ON daily_attendance(staff_id, period);

	CREATE TABLE IF NOT EXISTS error_log (
		id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		staff_id TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS raw_events (
		id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		staff_id TEXT NOT NULL,
		action TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT UNIQUE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BREAK INTERVALS
// =============================================================================

func (s *Store) InsertBreak(ctx context.Context, interval attendance.BreakInterval) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO break_intervals (id, staff_id, day, start_at, end_at, minutes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		interval.ID,
		string(interval.StaffID),
		interval.Day.String(),
		interval.Start.UTC().Format(time.RFC3339Nano),
		nullTime(interval.End),
		interval.Minutes,
		string(interval.Status),
	)
	if err != nil {
		return fmt.Errorf("insert break: %w", err)
	}
	return nil
}

func (s *Store) CloseBreak(ctx context.Context, interval attendance.BreakInterval) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE break_intervals SET end_at = ?, minutes = ?, status = ?
		WHERE id = ?`,
		nullTime(interval.End),
		interval.Minutes,
		string(interval.Status),
		interval.ID,
	)
	if err != nil {
		return fmt.Errorf("close break: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("close break: interval %s not found", interval.ID)
	}
	return nil
}

func (s *Store) BreaksFor(ctx context.Context, staff attendance.StaffID, day attendance.Day) ([]attendance.BreakInterval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, day, start_at, end_at, minutes, status
		FROM break_intervals WHERE staff_id = ? AND day = ?`,
		string(staff), day.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query breaks: %w", err)
	}
	defer rows.Close()

	var intervals []attendance.BreakInterval
	for rows.Next() {
		var (
			iv         attendance.BreakInterval
			staffID    string
			dayText    string
			startText  string
			endText    sql.NullString
			statusText string
		)
		if err := rows.Scan(&iv.ID, &staffID, &dayText, &startText, &endText, &iv.Minutes, &statusText); err != nil {
			return nil, err
		}
		iv.StaffID = attendance.StaffID(staffID)
		iv.Status = attendance.BreakStatus(statusText)
		if iv.Day, err = attendance.ParseDay(dayText); err != nil {
			return nil, err
		}
		if iv.Start, err = time.Parse(time.RFC3339Nano, startText); err != nil {
			return nil, fmt.Errorf("parse break start: %w", err)
		}
		if endText.Valid {
			end, err := time.Parse(time.RFC3339Nano, endText.String)
			if err != nil {
				return nil, fmt.Errorf("parse break end: %w", err)
			}
			iv.End = &end
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

// =============================================================================
// DAILY ATTENDANCE
// =============================================================================

func (s *Store) FindDaily(ctx context.Context, staff attendance.StaffID, day attendance.Day) (*attendance.DailyRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT day, staff_id, present, first_in, last_out, break_minutes, net_minutes
		FROM daily_attendance WHERE day = ? AND staff_id = ?`,
		day.String(), string(staff),
	)
	record, err := scanDaily(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) UpsertDaily(ctx context.Context, record attendance.DailyRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_attendance
			(period, day, staff_id, present, first_in, last_out, break_minutes, net_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (day, staff_id) DO UPDATE SET
			present = excluded.present,
			first_in = excluded.first_in,
			last_out = excluded.last_out,
			break_minutes = excluded.break_minutes,
			net_minutes = excluded.net_minutes`,
		record.Day.Period(),
		record.Day.String(),
		string(record.StaffID),
		boolInt(record.Present),
		nullTime(record.FirstIn),
		nullTime(record.LastOut),
		record.BreakMinutes,
		record.NetMinutes,
	)
	if err != nil {
		return fmt.Errorf("upsert daily: %w", err)
	}
	return nil
}

func (s *Store) DailyForPeriod(ctx context.Context, staff attendance.StaffID, period string) ([]attendance.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, staff_id, present, first_in, last_out, break_minutes, net_minutes
		FROM daily_attendance WHERE staff_id = ? AND period = ?
		ORDER BY day`,
		string(staff), period,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily: %w", err)
	}
	defer rows.Close()

	var records []attendance.DailyRecord
	for rows.Next() {
		record, err := scanDaily(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanDaily(scan func(dest ...any) error) (attendance.DailyRecord, error) {
	var (
		record  attendance.DailyRecord
		dayText string
		staffID string
		present int
		firstIn sql.NullString
		lastOut sql.NullString
	)
	if err := scan(&dayText, &staffID, &present, &firstIn, &lastOut, &record.BreakMinutes, &record.NetMinutes); err != nil {
		return attendance.DailyRecord{}, err
	}
	var err error
	if record.Day, err = attendance.ParseDay(dayText); err != nil {
		return attendance.DailyRecord{}, err
	}
	record.StaffID = attendance.StaffID(staffID)
	record.Present = present != 0
	if record.FirstIn, err = parseNullTime(firstIn); err != nil {
		return attendance.DailyRecord{}, err
	}
	if record.LastOut, err = parseNullTime(lastOut); err != nil {
		return attendance.DailyRecord{}, err
	}
	return record, nil
}

// =============================================================================
// AUDIT TABLES (append-only)
// =============================================================================

func (s *Store) AppendError(ctx context.Context, entry attendance.ErrorEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO error_log (id, at, staff_id, message) VALUES (?, ?, ?, ?)`,
		entry.ID,
		entry.At.UTC().Format(time.RFC3339Nano),
		string(entry.StaffID),
		entry.Message,
	)
	if err != nil {
		return fmt.Errorf("append error: %w", err)
	}
	return nil
}

func (s *Store) AppendRawEvent(ctx context.Context, event attendance.RawEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO raw_events (id, at, staff_id, action) VALUES (?, ?, ?, ?)`,
		event.ID,
		event.At.UTC().Format(time.RFC3339Nano),
		string(event.StaffID),
		event.Action,
	)
	if err != nil {
		return fmt.Errorf("append raw event: %w", err)
	}
	return nil
}

func (s *Store) Errors(ctx context.Context, limit int) ([]attendance.ErrorEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, at, staff_id, message FROM error_log
		ORDER BY at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query errors: %w", err)
	}
	defer rows.Close()

	var entries []attendance.ErrorEntry
	for rows.Next() {
		var (
			entry   attendance.ErrorEntry
			atText  string
			staffID string
		)
		if err := rows.Scan(&entry.ID, &atText, &staffID, &entry.Message); err != nil {
			return nil, err
		}
		if entry.At, err = time.Parse(time.RFC3339Nano, atText); err != nil {
			return nil, fmt.Errorf("parse error time: %w", err)
		}
		entry.StaffID = attendance.StaffID(staffID)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// =============================================================================
// STAFF
// =============================================================================

// StaffRecord is one registered staff member as persisted.
type StaffRecord struct {
	ID    string
	Name  string
	Phone string
}

func (s *Store) SaveStaff(ctx context.Context, record StaffRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, name, phone) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, phone = excluded.phone`,
		record.ID, record.Name, record.Phone,
	)
	if err != nil {
		return fmt.Errorf("save staff: %w", err)
	}
	return nil
}

func (s *Store) ListStaff(ctx context.Context) ([]StaffRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, COALESCE(phone, '') FROM staff ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var records []StaffRecord
	for rows.Next() {
		var record StaffRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Phone); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse time: %w", err)
	}
	return &t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
