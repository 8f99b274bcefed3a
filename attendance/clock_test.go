package attendance_test

import (
	"testing"
	"time"

	"github.com/clockline/attendance-engine/attendance"
)

func TestMinutesToHHMM(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{1, "00:01"},
		{59, "00:59"},
		{60, "01:00"},
		{510, "08:30"},
		{59*60 + 59, "59:59"},
		{99*60 + 59, "99:59"},
		{-5, "00:00"}, // display is never negative
	}
	for _, tc := range cases {
		if got := attendance.MinutesToHHMM(tc.minutes); got != tc.want {
			t.Errorf("MinutesToHHMM(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestHHMM_RoundTrip(t *testing.T) {
	// minsToHHMM(hhmmToMins(x)) == x for every valid HH:MM in [00:00, 99:59].
	for minutes := 0; minutes <= 99*60+59; minutes++ {
		s := attendance.MinutesToHHMM(minutes)
		back, err := attendance.HHMMToMinutes(s)
		if err != nil {
			t.Fatalf("HHMMToMinutes(%q): %v", s, err)
		}
		if back != minutes {
			t.Fatalf("round trip %d -> %q -> %d", minutes, s, back)
		}
	}
}

func TestHHMMToMinutes_Invalid(t *testing.T) {
	for _, s := range []string{"", "8:30", "0830", "aa:bb", "00:60", "00:-1", "0:000"} {
		if _, err := attendance.HHMMToMinutes(s); err == nil {
			t.Errorf("HHMMToMinutes(%q): expected error", s)
		}
	}
}

func TestRoundMinutes(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{29 * time.Second, 0},
		{30 * time.Second, 1}, // half rounds up
		{90 * time.Second, 2},
		{30 * time.Minute, 30},
		{30*time.Minute + 29*time.Second, 30},
		{30*time.Minute + 31*time.Second, 31},
	}
	for _, tc := range cases {
		if got := attendance.RoundMinutes(tc.d); got != tc.want {
			t.Errorf("RoundMinutes(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestDayOf_UsesConfiguredZone(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		t.Fatal(err)
	}

	// 23:30 UTC on Jan 1 is already Jan 2 in Zurich (UTC+1 in winter).
	at := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)

	utcDay := attendance.DayOf(at, time.UTC)
	if utcDay.String() != "2025-01-01" {
		t.Errorf("UTC day = %s, want 2025-01-01", utcDay)
	}
	zhDay := attendance.DayOf(at, zurich)
	if zhDay.String() != "2025-01-02" {
		t.Errorf("Zurich day = %s, want 2025-01-02", zhDay)
	}
}

func TestDay_Period(t *testing.T) {
	day := attendance.NewDay(2025, time.March, 7)
	if got := day.Period(); got != "2025-03" {
		t.Errorf("Period() = %q, want 2025-03", got)
	}
	if got := day.String(); got != "2025-03-07" {
		t.Errorf("String() = %q, want 2025-03-07", got)
	}
}

func TestParseDay(t *testing.T) {
	day, err := attendance.ParseDay("2025-12-31")
	if err != nil {
		t.Fatal(err)
	}
	if day != attendance.NewDay(2025, time.December, 31) {
		t.Errorf("ParseDay = %+v", day)
	}
	if _, err := attendance.ParseDay("31/12/2025"); err == nil {
		t.Error("expected error for non-ISO day")
	}
}
