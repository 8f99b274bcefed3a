package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockline/attendance-engine/attendance"
	"github.com/clockline/attendance-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var day = attendance.NewDay(2025, time.March, 10)

func TestBreakIntervals_InsertCloseQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	interval := attendance.BreakInterval{
		ID:      "b-1",
		StaffID: "anna",
		Day:     day,
		Start:   start,
		Status:  attendance.BreakOpen,
	}
	require.NoError(t, store.InsertBreak(ctx, interval))

	intervals, err := store.BreaksFor(ctx, "anna", day)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, attendance.BreakOpen, intervals[0].Status)
	assert.Nil(t, intervals[0].End)
	assert.True(t, intervals[0].Start.Equal(start))

	// Close it.
	end := start.Add(30 * time.Minute)
	interval.End = &end
	interval.Minutes = 30
	interval.Status = attendance.BreakClosed
	require.NoError(t, store.CloseBreak(ctx, interval))

	intervals, err = store.BreaksFor(ctx, "anna", day)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, attendance.BreakClosed, intervals[0].Status)
	assert.Equal(t, 30, intervals[0].Minutes)
	require.NotNil(t, intervals[0].End)
	assert.True(t, intervals[0].End.Equal(end))

	// Key equality: other keys see nothing.
	other, err := store.BreaksFor(ctx, "marco", day)
	require.NoError(t, err)
	assert.Empty(t, other)
	other, err = store.BreaksFor(ctx, "anna", attendance.NewDay(2025, time.March, 11))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCloseBreak_MissingInterval(t *testing.T) {
	store := newTestStore(t)
	end := time.Now()
	err := store.CloseBreak(context.Background(), attendance.BreakInterval{
		ID: "missing", StaffID: "anna", Day: day, End: &end, Status: attendance.BreakClosed,
	})
	assert.Error(t, err)
}

func TestDaily_UpsertAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	missing, err := store.FindDaily(ctx, "anna", day)
	require.NoError(t, err)
	assert.Nil(t, missing)

	firstIn := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	record := attendance.DailyRecord{
		Day:     day,
		StaffID: "anna",
		Present: true,
		FirstIn: &firstIn,
	}
	require.NoError(t, store.UpsertDaily(ctx, record))

	found, err := store.FindDaily(ctx, "anna", day)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Present)
	require.NotNil(t, found.FirstIn)
	assert.True(t, found.FirstIn.Equal(firstIn))
	assert.Nil(t, found.LastOut)

	// Upsert replaces in place; the key stays unique.
	lastOut := firstIn.Add(9 * time.Hour)
	record.LastOut = &lastOut
	record.BreakMinutes = 30
	record.NetMinutes = 510
	require.NoError(t, store.UpsertDaily(ctx, record))

	found, err = store.FindDaily(ctx, "anna", day)
	require.NoError(t, err)
	assert.Equal(t, 510, found.NetMinutes)
	require.NotNil(t, found.LastOut)
}

func TestDailyForPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []attendance.Day{
		attendance.NewDay(2025, time.March, 12),
		attendance.NewDay(2025, time.March, 10),
		attendance.NewDay(2025, time.April, 1), // other period
	} {
		require.NoError(t, store.UpsertDaily(ctx, attendance.DailyRecord{
			Day: d, StaffID: "anna", Present: true,
		}))
	}
	require.NoError(t, store.UpsertDaily(ctx, attendance.DailyRecord{
		Day: attendance.NewDay(2025, time.March, 11), StaffID: "marco", Present: true,
	}))

	records, err := store.DailyForPeriod(ctx, "anna", "2025-03")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-10", records[0].Day.String())
	assert.Equal(t, "2025-03-12", records[1].Day.String())
}

func TestErrorLog_AppendOnlyNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, store.AppendError(ctx, attendance.ErrorEntry{
			ID:      msg,
			At:      base.Add(time.Duration(i) * time.Minute),
			StaffID: "anna",
			Message: msg,
		}))
	}

	entries, err := store.Errors(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
}

func TestRawEvents_Append(t *testing.T) {
	store := newTestStore(t)
	err := store.AppendRawEvent(context.Background(), attendance.RawEvent{
		ID: "r-1", At: time.Now(), StaffID: "anna", Action: "LUNCH",
	})
	assert.NoError(t, err)
}

func TestStaff_SaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveStaff(ctx, sqlite.StaffRecord{ID: "anna", Name: "Anna", Phone: "+41791234567"}))
	require.NoError(t, store.SaveStaff(ctx, sqlite.StaffRecord{ID: "anna", Name: "Anna Keller", Phone: "+41791234567"}))
	require.NoError(t, store.SaveStaff(ctx, sqlite.StaffRecord{ID: "marco", Name: "Marco", Phone: "+41791234568"}))

	staff, err := store.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, "Anna Keller", staff[0].Name)
}

// The engine must behave identically on the SQLite store.
func TestEngine_OnSQLite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	resolver := staticResolver{"+41791234567": {ID: "anna", Name: "Anna Keller"}}
	engine := attendance.NewEngine(store, resolver, time.UTC)

	at := func(h, m int) time.Time {
		return time.Date(2025, time.March, 10, h, m, 0, 0, time.UTC)
	}

	for _, step := range []struct {
		action string
		when   time.Time
	}{
		{"in", at(9, 0)},
		{"break in", at(12, 0)},
		{"break out", at(12, 30)},
		{"out", at(18, 0)},
	} {
		outcome, err := engine.HandleEvent(ctx, "+41791234567", step.action, step.when)
		require.NoError(t, err)
		require.Equal(t, attendance.OutcomeApplied, outcome.Kind, "step %q", step.action)
	}

	record, err := store.FindDaily(ctx, "anna", day)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 30, record.BreakMinutes)
	assert.Equal(t, 510, record.NetMinutes)
}

type staticResolver map[string]attendance.Staff

func (r staticResolver) Resolve(raw string) (attendance.Staff, bool) {
	staff, ok := r[raw]
	return staff, ok
}
