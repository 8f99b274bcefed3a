/*
clock.go - Calendar-day keys and minute/HH:MM arithmetic

PURPOSE:
  Converts absolute timestamps into calendar-day keys in one configured
  time zone, and converts between minute counts and zero-padded HH:MM
  display strings.

TIME ZONE DISCIPLINE:
  The reporting time zone is an explicit value threaded into every
  timestamp-to-day derivation. It is never read from ambient state; two
  events compared by the engine always went through the same zone.

SEE ALSO:
  - engine.go: Uses DayOf to key all state
  - aggregate.go: Uses MinutesToHHMM for display fields
*/
package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY - Calendar-day key
// =============================================================================

// Day is a calendar day in the reporting time zone. It is the unit the
// engine keys all state by, together with StaffID.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayOf derives the calendar-day key for a timestamp in the given zone.
func DayOf(t time.Time, loc *time.Location) Day {
	lt := t.In(loc)
	return Day{Year: lt.Year(), Month: lt.Month(), Date: lt.Day()}
}

func NewDay(year int, month time.Month, date int) Day {
	return Day{Year: year, Month: month, Date: date}
}

// Period returns the reporting-period key (YYYY-MM) this day belongs to.
// Daily records are grouped by period, the keyed equivalent of one
// attendance table per month.
func (d Day) Period() string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

// ParseDay parses a YYYY-MM-DD day key.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}, nil
}

// =============================================================================
// MINUTE ARITHMETIC
// =============================================================================

// RoundMinutes converts a duration to whole minutes, rounding half away
// from zero. Used for closed break durations.
func RoundMinutes(d time.Duration) int {
	seconds := decimal.New(int64(d/time.Second), 0)
	return int(seconds.Div(decimal.New(60, 0)).Round(0).IntPart())
}

// FloorMinutes converts a duration to whole minutes, truncating. Used
// for the gross first-in to last-out span.
func FloorMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// MinutesToHHMM formats a minute count as zero-padded HH:MM. Negative
// inputs clamp to "00:00"; display is never negative.
func MinutesToHHMM(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// HHMMToMinutes parses a zero-padded HH:MM string back to minutes.
// Valid range is [00:00, 99:59]; MinutesToHHMM(HHMMToMinutes(x)) == x
// for every string in that range.
func HHMMToMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid HH:MM %q", s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid HH:MM %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid HH:MM %q: %w", s, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid HH:MM %q: out of range", s)
	}
	return hours*60 + minutes, nil
}
