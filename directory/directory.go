/*
Package directory resolves raw reporting identifiers to staff members.

PURPOSE:
  Staff report attendance from their phones; the webhook hands us
  whatever identifier the SMS gateway sends ("+41 79 123 45 67",
  "0791234567"). This package canonicalizes phone numbers and maps them
  (or bare staff IDs) onto registered staff.

RESOLUTION POLICY:
  Unregistered identifiers resolve to nothing, and the host drops the
  event entirely: no error row, no audit row. Non-staff traffic leaves
  no trace.

SEE ALSO:
  - roster.go: YAML roster file loading
*/
package directory

import (
	"strings"
	"sync"

	"github.com/clockline/attendance-engine/attendance"
)

// Member is one roster entry.
type Member struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
}

// Roster is an in-memory directory of registered staff. Safe for
// concurrent use; the webhook path only reads.
type Roster struct {
	mu      sync.RWMutex
	byPhone map[string]attendance.Staff
	byID    map[attendance.StaffID]attendance.Staff
}

func NewRoster() *Roster {
	return &Roster{
		byPhone: make(map[string]attendance.Staff),
		byID:    make(map[attendance.StaffID]attendance.Staff),
	}
}

// Add registers a member, replacing any previous entry with the same ID
// or phone.
func (r *Roster) Add(m Member) {
	staff := attendance.Staff{ID: attendance.StaffID(m.ID), Name: m.Name}
	r.mu.Lock()
	defer r.mu.Unlock()
	if canonical := CanonicalPhone(m.Phone); canonical != "" {
		r.byPhone[canonical] = staff
	}
	r.byID[staff.ID] = staff
}

// Resolve implements attendance.StaffResolver. The raw identifier is
// matched as a phone number first, then as a bare staff ID.
func (r *Roster) Resolve(raw string) (attendance.Staff, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if staff, ok := r.byPhone[CanonicalPhone(raw)]; ok {
		return staff, true
	}
	staff, ok := r.byID[attendance.StaffID(strings.TrimSpace(raw))]
	return staff, ok
}

// Members returns all registered staff, for the admin API.
func (r *Roster) Members() []attendance.Staff {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]attendance.Staff, 0, len(r.byID))
	for _, staff := range r.byID {
		result = append(result, staff)
	}
	return result
}

// CanonicalPhone reduces a phone number to a comparable form: digits
// only, with an international "00" prefix folded into "+". Returns ""
// for input with no digits.
func CanonicalPhone(raw string) string {
	var b strings.Builder
	plus := false
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			plus = true
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "00") {
		plus = true
		digits = digits[2:]
	}
	if plus {
		return "+" + digits
	}
	return digits
}
