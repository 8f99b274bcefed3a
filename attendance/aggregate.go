/*
aggregate.go - Daily record aggregation

PURPOSE:
  Recomputes the derived fields of a daily record (total break minutes,
  net worked minutes) from the current break ledger and the first-in /
  last-out values. Derived fields are always a pure function of current
  state; they are never incrementally patched, so they cannot drift.

SEE ALSO:
  - engine.go: Invokes Recompute after every accepted mutation
  - clock.go:  Minute/HH:MM conversion helpers
*/
package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// SumClosedMinutes sums minutes over the CLOSED intervals in a slice.
func SumClosedMinutes(intervals []BreakInterval) int {
	total := 0
	for _, iv := range intervals {
		if iv.Status == BreakClosed {
			total += iv.Minutes
		}
	}
	return total
}

// Recompute derives break and net minutes for one (staff, day).
// Net minutes = floor(last-out minus first-in) minus break minutes,
// clamped at zero; zero when either clock time is missing.
func Recompute(intervals []BreakInterval, firstIn, lastOut *time.Time) (breakMinutes, netMinutes int) {
	breakMinutes = SumClosedMinutes(intervals)
	if firstIn == nil || lastOut == nil {
		return breakMinutes, 0
	}
	gross := FloorMinutes(lastOut.Sub(*firstIn))
	netMinutes = gross - breakMinutes
	if netMinutes < 0 {
		netMinutes = 0
	}
	return breakMinutes, netMinutes
}

// =============================================================================
// DAILY SUMMARY - Display form of a daily record
// =============================================================================

// DailySummary is the formatted form of a DailyRecord for reports.
type DailySummary struct {
	Day          Day
	StaffID      StaffID
	Present      bool
	FirstIn      string // HH:MM in the reporting zone, empty if unset
	LastOut      string
	BreakMinutes int
	NetMinutes   int
	BreakHHMM    string
	NetHHMM      string
	NetHours     decimal.Decimal // e.g. 8.5 for an 08:30 day
}

// Summarize formats a record for display. Clock times are rendered in
// the given zone; minute totals render as zero-padded HH:MM.
func Summarize(record DailyRecord, loc *time.Location) DailySummary {
	s := DailySummary{
		Day:          record.Day,
		StaffID:      record.StaffID,
		Present:      record.Present,
		BreakMinutes: record.BreakMinutes,
		NetMinutes:   record.NetMinutes,
		BreakHHMM:    MinutesToHHMM(record.BreakMinutes),
		NetHHMM:      MinutesToHHMM(record.NetMinutes),
		NetHours: decimal.New(int64(record.NetMinutes), 0).
			Div(decimal.New(60, 0)).Round(2),
	}
	if record.FirstIn != nil {
		s.FirstIn = record.FirstIn.In(loc).Format("15:04")
	}
	if record.LastOut != nil {
		s.LastOut = record.LastOut.In(loc).Format("15:04")
	}
	return s
}
