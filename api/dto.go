/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/clockline/attendance-engine/attendance"
)

// AckResponse is the body the webhook always returns to the reporting
// device, whatever the engine decided. The SMS gateway treats delivery
// as fire-and-forget; operators diagnose rejections via /api/errors.
type AckResponse struct {
	Status string `json:"status"`
}

// DailyRecordDTO is one (staff, day) attendance row in reports.
type DailyRecordDTO struct {
	Day          string `json:"day"`
	StaffID      string `json:"staff_id"`
	Present      bool   `json:"present"`
	FirstIn      string `json:"first_in,omitempty"`
	LastOut      string `json:"last_out,omitempty"`
	BreakMinutes int    `json:"break_minutes"`
	NetMinutes   int    `json:"net_minutes"`
	BreakHHMM    string `json:"break_hhmm"`
	NetHHMM      string `json:"net_hhmm"`
	NetHours     string `json:"net_hours"`
}

func toDailyRecordDTO(record attendance.DailyRecord, loc *time.Location) DailyRecordDTO {
	s := attendance.Summarize(record, loc)
	return DailyRecordDTO{
		Day:          s.Day.String(),
		StaffID:      string(s.StaffID),
		Present:      s.Present,
		FirstIn:      s.FirstIn,
		LastOut:      s.LastOut,
		BreakMinutes: s.BreakMinutes,
		NetMinutes:   s.NetMinutes,
		BreakHHMM:    s.BreakHHMM,
		NetHHMM:      s.NetHHMM,
		NetHours:     s.NetHours.String(),
	}
}

// ErrorEntryDTO is one row of the rejection log.
type ErrorEntryDTO struct {
	ID      string `json:"id"`
	At      string `json:"at"`
	StaffID string `json:"staff_id"`
	Message string `json:"message"`
}

func toErrorEntryDTO(entry attendance.ErrorEntry) ErrorEntryDTO {
	return ErrorEntryDTO{
		ID:      entry.ID,
		At:      entry.At.Format(time.RFC3339),
		StaffID: string(entry.StaffID),
		Message: entry.Message,
	}
}

// StaffDTO represents a registered staff member.
type StaffDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateStaffRequest registers a staff member with a reporting phone.
type CreateStaffRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
