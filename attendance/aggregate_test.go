package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clockline/attendance-engine/attendance"
)

func closedBreak(start time.Time, minutes int) attendance.BreakInterval {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return attendance.BreakInterval{
		ID:      "b",
		StaffID: "anna",
		Day:     testDay,
		Start:   start,
		End:     &end,
		Minutes: minutes,
		Status:  attendance.BreakClosed,
	}
}

func TestRecompute(t *testing.T) {
	firstIn := at(9, 0)
	lastOut := at(18, 0)

	tests := []struct {
		name      string
		intervals []attendance.BreakInterval
		firstIn   *time.Time
		lastOut   *time.Time
		wantBreak int
		wantNet   int
	}{
		{
			name:    "no breaks, full day",
			firstIn: &firstIn, lastOut: &lastOut,
			wantBreak: 0, wantNet: 540,
		},
		{
			name:      "one closed break",
			intervals: []attendance.BreakInterval{closedBreak(at(12, 0), 30)},
			firstIn:   &firstIn, lastOut: &lastOut,
			wantBreak: 30, wantNet: 510,
		},
		{
			name: "open break contributes nothing",
			intervals: []attendance.BreakInterval{
				closedBreak(at(12, 0), 30),
				{ID: "open", StaffID: "anna", Day: testDay, Start: at(15, 0), Status: attendance.BreakOpen, Minutes: 0},
			},
			firstIn: &firstIn, lastOut: &lastOut,
			wantBreak: 30, wantNet: 510,
		},
		{
			name:      "missing first_in means zero net",
			intervals: []attendance.BreakInterval{closedBreak(at(12, 0), 30)},
			lastOut:   &lastOut,
			wantBreak: 30, wantNet: 0,
		},
		{
			name:    "missing last_out means zero net",
			firstIn: &firstIn,
			wantNet: 0,
		},
		{
			name:      "breaks exceeding gross span clamp to zero",
			intervals: []attendance.BreakInterval{closedBreak(at(9, 0), 600)},
			firstIn:   &firstIn, lastOut: &lastOut,
			wantBreak: 600, wantNet: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotBreak, gotNet := attendance.Recompute(tc.intervals, tc.firstIn, tc.lastOut)
			assert.Equal(t, tc.wantBreak, gotBreak)
			assert.Equal(t, tc.wantNet, gotNet)
		})
	}
}

func TestSummarize(t *testing.T) {
	firstIn := at(9, 0)
	lastOut := at(18, 0)
	record := attendance.DailyRecord{
		Day:          testDay,
		StaffID:      "anna",
		Present:      true,
		FirstIn:      &firstIn,
		LastOut:      &lastOut,
		BreakMinutes: 30,
		NetMinutes:   510,
	}

	s := attendance.Summarize(record, time.UTC)
	assert.Equal(t, "09:00", s.FirstIn)
	assert.Equal(t, "18:00", s.LastOut)
	assert.Equal(t, "00:30", s.BreakHHMM)
	assert.Equal(t, "08:30", s.NetHHMM)
	assert.Equal(t, "8.5", s.NetHours.String())
}

func TestSummarize_EmptyTimes(t *testing.T) {
	s := attendance.Summarize(attendance.DailyRecord{Day: testDay, StaffID: "anna"}, time.UTC)
	assert.Empty(t, s.FirstIn)
	assert.Empty(t, s.LastOut)
	assert.Equal(t, "00:00", s.NetHHMM)
	assert.Equal(t, "0", s.NetHours.String())
}
