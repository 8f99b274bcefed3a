// Package store provides an in-memory attendance.Store for tests/dev.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/clockline/attendance-engine/attendance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	breaks map[key][]attendance.BreakInterval
	daily  map[key]attendance.DailyRecord
	errs   []attendance.ErrorEntry
	raw    []attendance.RawEvent
}

type key struct {
	Staff attendance.StaffID
	Day   attendance.Day
}

func NewMemory() *Memory {
	return &Memory{
		breaks: make(map[key][]attendance.BreakInterval),
		daily:  make(map[key]attendance.DailyRecord),
	}
}

func (m *Memory) InsertBreak(_ context.Context, interval attendance.BreakInterval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{Staff: interval.StaffID, Day: interval.Day}
	m.breaks[k] = append(m.breaks[k], interval)
	return nil
}

func (m *Memory) CloseBreak(_ context.Context, interval attendance.BreakInterval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{Staff: interval.StaffID, Day: interval.Day}
	for i := range m.breaks[k] {
		if m.breaks[k][i].ID == interval.ID {
			m.breaks[k][i] = interval
			return nil
		}
	}
	return fmt.Errorf("break interval %s not found", interval.ID)
}

func (m *Memory) BreaksFor(_ context.Context, staff attendance.StaffID, day attendance.Day) ([]attendance.BreakInterval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k := key{Staff: staff, Day: day}
	result := make([]attendance.BreakInterval, len(m.breaks[k]))
	copy(result, m.breaks[k])
	return result, nil
}

func (m *Memory) FindDaily(_ context.Context, staff attendance.StaffID, day attendance.Day) (*attendance.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.daily[key{Staff: staff, Day: day}]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *Memory) UpsertDaily(_ context.Context, record attendance.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.daily[key{Staff: record.StaffID, Day: record.Day}] = record
	return nil
}

func (m *Memory) AppendError(_ context.Context, entry attendance.ErrorEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, entry)
	return nil
}

func (m *Memory) AppendRawEvent(_ context.Context, event attendance.RawEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = append(m.raw, event)
	return nil
}

// =============================================================================
// REPORT QUERIES
// =============================================================================

func (m *Memory) DailyForPeriod(_ context.Context, staff attendance.StaffID, period string) ([]attendance.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []attendance.DailyRecord
	for k, record := range m.daily {
		if k.Staff == staff && k.Day.Period() == period {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.String() < result[j].Day.String()
	})
	return result, nil
}

func (m *Memory) Errors(_ context.Context, limit int) ([]attendance.ErrorEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]attendance.ErrorEntry, len(m.errs))
	copy(result, m.errs)
	// Newest first.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// RawEvents returns the audit trail of unrecognized actions, oldest
// first. Test helper; not part of the Store contract.
func (m *Memory) RawEvents() []attendance.RawEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]attendance.RawEvent, len(m.raw))
	copy(result, m.raw)
	return result
}
