/*
handlers.go - HTTP handlers for the attendance service

PURPOSE:
  Exposes the reconciliation engine via HTTP. The webhook endpoint is
  the SMS gateway's entry point; the report and admin endpoints serve
  operators.

ENDPOINTS:
  Webhook:
    GET/POST /webhook/sms              Ingest one clock event

  Reports:
    GET  /api/staff/{id}/attendance    Daily records for a period
    GET  /api/errors                   Recent rejections

  Admin:
    GET  /api/staff                    List registered staff
    POST /api/staff                    Register a staff member

  Health:
    GET  /healthz

WEBHOOK CONTRACT:
  Parameters arrive as query or form values (SMS automation gateways
  send both shapes): phone, action, and an optional at timestamp
  (RFC3339 or unix seconds; defaults to server now). The response is
  always a success-shaped acknowledgment, even for rejected events -
  the reporting device never sees the error taxonomy. Outcomes are
  logged distinctly so operators can tell ignored, rejected, and
  applied events apart; rejected events also land in the error table.

ERROR HANDLING:
  Only infrastructure failures produce a 500. Validation problems are
  outcomes, not errors.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clockline/attendance-engine/attendance"
	"github.com/clockline/attendance-engine/directory"
	"github.com/clockline/attendance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *attendance.Engine
	Store  attendance.ReportStore
	Roster *directory.Roster

	// Staff writes also persist here when a sqlite store is wired.
	// Nil when running purely in-memory.
	StaffStore *sqlite.Store
}

func NewHandler(engine *attendance.Engine, store attendance.ReportStore, roster *directory.Roster) *Handler {
	return &Handler{Engine: engine, Store: store, Roster: roster}
}

// =============================================================================
// WEBHOOK
// =============================================================================

// Webhook ingests one clock event from the SMS gateway.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed parameters"})
		return
	}

	phone := firstParam(r, "phone", "from", "sender")
	action := firstParam(r, "action", "message", "text")
	at, err := parseEventTime(firstParam(r, "at", "timestamp"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid timestamp"})
		return
	}

	outcome, err := h.Engine.HandleEvent(r.Context(), phone, action, at)
	if err != nil {
		log.Printf("webhook: store failure: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}

	switch outcome.Kind {
	case attendance.OutcomeIgnored:
		log.Printf("webhook: ignored event (%s)", outcome.Reason)
	case attendance.OutcomeRejected:
		log.Printf("webhook: rejected event: %s", outcome.Rejection.Message)
	case attendance.OutcomeApplied:
		log.Printf("webhook: applied event for %s on %s", outcome.Record.StaffID, outcome.Record.Day)
	}

	// Always acknowledge; the reporting device never sees rejections.
	writeJSON(w, http.StatusOK, AckResponse{Status: "ok"})
}

// parseEventTime accepts RFC3339 or unix seconds; empty means now.
func parseEventTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(unix, 0), nil
}

func firstParam(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.Form.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// REPORTS
// =============================================================================

// GetAttendance returns daily records for one staff member in a period
// (?period=YYYY-MM, default: current month in the reporting zone).
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	staffID := attendance.StaffID(chi.URLParam(r, "id"))
	loc := h.Engine.Location()

	period := r.URL.Query().Get("period")
	if period == "" {
		period = attendance.DayOf(time.Now(), loc).Period()
	}

	records, err := h.Store.DailyForPeriod(r.Context(), staffID, period)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}

	dtos := make([]DailyRecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDailyRecordDTO(record, loc))
	}
	writeJSON(w, http.StatusOK, map[string]any{"period": period, "records": dtos})
}

// GetErrors returns the most recent rejections (?limit=N, default 100).
func (h *Handler) GetErrors(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := h.Store.Errors(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}

	dtos := make([]ErrorEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toErrorEntryDTO(entry))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// STAFF ADMIN
// =============================================================================

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members := h.Roster.Members()
	dtos := make([]StaffDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, StaffDTO{ID: string(m.ID), Name: m.Name})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.ID == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id and name required"})
		return
	}

	if h.StaffStore != nil {
		record := sqlite.StaffRecord{
			ID:    req.ID,
			Name:  req.Name,
			Phone: directory.CanonicalPhone(req.Phone),
		}
		if err := h.StaffStore.SaveStaff(r.Context(), record); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
			return
		}
	}
	h.Roster.Add(directory.Member{ID: req.ID, Name: req.Name, Phone: req.Phone})

	writeJSON(w, http.StatusCreated, StaffDTO{ID: req.ID, Name: req.Name})
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
