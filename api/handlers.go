/*
handlers.go - HTTP API handlers for the building console

PURPOSE:
  Exposes the building Store and the calendar derivations via REST API.
  Handles HTTP request/response, JSON serialization and validation, and
  delegates to the domain packages.

ENDPOINTS:
  Floors:
    GET    /api/building                         Building with summary
    GET    /api/floors                           All floors with counters
    GET    /api/floors/{floor}                   One floor
    GET    /api/floors/{floor}/availability      Slots for ?date=&broker=
    POST   /api/floors/{floor}/move-in           Put a tenant on a vacant floor
    POST   /api/floors/{floor}/move-out          Clear the tenant
    PUT    /api/floors/{floor}/terms             Replace rent/charges
    GET    /api/stats                            Occupancy and pending counts

  Viewings / applications:
    GET|POST /api/viewings                       ?floor=&date= filters on GET
    POST   /api/viewings/{id}/approve|complete|cancel
    DELETE /api/viewings/{id}
    GET|POST /api/tenant-applications
    POST   /api/tenant-applications/{id}/approve|reject
    GET|POST /api/applications
    POST   /api/applications/{id}/approve|reject
    GET    /api/activity                         Newest first

  Calendar / reports:
    GET    /api/calendar/events                  ?date= | ?week= | ?year=&month=
    GET    /api/calendar/grid                    ?year=&month=
    GET    /api/reports/floors.xlsx              ?year=&month=

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Floor, reservation or application not found
  - 409: Status conflicts (invalid transition, occupied/vacant floor)
  - 500: Persistence failures

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/building-console/building"
	"github.com/warp/building-console/calendar"
	"github.com/warp/building-console/factory"
	"github.com/warp/building-console/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *building.Store
	Factory *factory.BuildingFactory
	Logger  *zap.Logger

	// Slot start times offered for viewings.
	Slots []string

	now         func() time.Time
	transformer *calendar.Transformer
	validate    *validator.Validate

	mu              sync.RWMutex
	currentScenario string
}

type Option func(*Handler)

func WithSlots(slots []string) Option { return func(h *Handler) { h.Slots = slots } }

// WithClock sets "now" for default calendar windows and facility date parsing.
func WithClock(now func() time.Time) Option { return func(h *Handler) { h.now = now } }

// NewHandler creates a new handler around store. A nil logger discards logs.
func NewHandler(store *building.Store, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		Store:    store,
		Factory:  factory.NewBuildingFactory(),
		Logger:   logger,
		Slots:    building.DefaultSlotStarts,
		now:      time.Now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.transformer = calendar.NewTransformer(h.now)
	return h
}

// =============================================================================
// FLOOR HANDLERS
// =============================================================================

// GetBuilding returns the building with its summary.
func (h *Handler) GetBuilding(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"building": snap.Building,
		"summary":  building.Summarize(snap),
	})
}

func (h *Handler) ListFloors(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	dtos := make([]FloorDTO, len(snap.Floors))
	for i, f := range snap.Floors {
		dtos[i] = toFloorDTO(f, snap)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetFloor(w http.ResponseWriter, r *http.Request) {
	number, err := floorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid floor number", err)
		return
	}
	f, ok := h.Store.Floor(number)
	if !ok {
		writeError(w, http.StatusNotFound, "Floor not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toFloorDTO(f, h.Store.Snapshot()))
}

// GetAvailability classifies every slot of the floor on ?date= for ?broker=.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	number, err := floorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid floor number", err)
		return
	}
	date, err := building.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if _, ok := h.Store.Floor(number); !ok {
		writeError(w, http.StatusNotFound, "Floor not found", nil)
		return
	}

	broker := strings.TrimSpace(r.URL.Query().Get("broker"))
	slots := building.Availability(date, number, broker, h.Store.Reservations(), h.Slots)
	writeJSON(w, http.StatusOK, AvailabilityResponse{
		FloorNumber:    number,
		Date:           date,
		Broker:         broker,
		Slots:          slots,
		AvailableSlots: building.AvailableSlots(slots),
	})
}

func (h *Handler) MoveIn(w http.ResponseWriter, r *http.Request) {
	number, err := floorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid floor number", err)
		return
	}
	var req MoveInRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := parseOptionalDate(req.ContractStartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract_start_date", err)
		return
	}
	end, err := parseOptionalDate(req.ContractEndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract_end_date", err)
		return
	}
	if start != nil && end != nil && end.Before(*start) {
		writeError(w, http.StatusBadRequest, "contract_end_date is before contract_start_date", nil)
		return
	}

	f, err := h.Store.MoveIn(r.Context(), number, building.MoveInInput{
		TenantID:      req.TenantID,
		TenantName:    req.TenantName,
		Terms:         req.Terms,
		ContractStart: start,
		ContractEnd:   end,
	})
	if err != nil {
		h.writeStoreError(w, "Failed to move tenant in", err)
		return
	}

	h.Logger.Info("tenant moved in", zap.Int("floor", number), zap.String("tenant", f.TenantName))
	writeJSON(w, http.StatusOK, toFloorDTO(f, h.Store.Snapshot()))
}

func (h *Handler) MoveOut(w http.ResponseWriter, r *http.Request) {
	number, err := floorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid floor number", err)
		return
	}
	f, err := h.Store.MoveOut(r.Context(), number)
	if err != nil {
		h.writeStoreError(w, "Failed to move tenant out", err)
		return
	}

	h.Logger.Info("tenant moved out", zap.Int("floor", number))
	writeJSON(w, http.StatusOK, toFloorDTO(f, h.Store.Snapshot()))
}

func (h *Handler) UpdateTerms(w http.ResponseWriter, r *http.Request) {
	number, err := floorParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid floor number", err)
		return
	}
	var terms building.Terms
	if err := json.NewDecoder(r.Body).Decode(&terms); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if terms.Rent.IsNegative() || terms.CommonCharge.IsNegative() || terms.Deposit.IsNegative() || terms.KeyMoney.IsNegative() {
		writeError(w, http.StatusBadRequest, "Terms cannot be negative", nil)
		return
	}

	f, err := h.Store.UpdateTerms(r.Context(), number, terms)
	if err != nil {
		h.writeStoreError(w, "Failed to update terms", err)
		return
	}
	writeJSON(w, http.StatusOK, toFloorDTO(f, h.Store.Snapshot()))
}

// GetStats returns occupancy, pending counts and per-floor counters.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	writeJSON(w, http.StatusOK, StatsResponse{
		Summary: building.Summarize(snap),
		Floors:  building.FloorStats(snap.Floors, snap.Reservations, snap.TenantApplications),
	})
}

// =============================================================================
// VIEWING HANDLERS
// =============================================================================

// ListViewings returns reservations, optionally filtered by ?floor= and ?date=.
func (h *Handler) ListViewings(w http.ResponseWriter, r *http.Request) {
	reservations := h.Store.Reservations()

	if v := r.URL.Query().Get("floor"); v != "" {
		number, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid floor filter", err)
			return
		}
		reservations = slices.DeleteFunc(reservations, func(rv building.ViewingReservation) bool {
			return rv.FloorNumber != number
		})
	}
	if v := r.URL.Query().Get("date"); v != "" {
		date, err := building.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date filter (use YYYY-MM-DD)", err)
			return
		}
		reservations = slices.DeleteFunc(reservations, func(rv building.ViewingReservation) bool {
			return !rv.ReservationDate.Equal(date)
		})
	}

	writeJSON(w, http.StatusOK, nonNil(reservations))
}

// CreateViewing books a slot. Booking a slot another broker already holds is
// accepted and flagged with a Warning header.
func (h *Handler) CreateViewing(w http.ResponseWriter, r *http.Request) {
	var req CreateViewingRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := building.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reservation_date", err)
		return
	}
	slot, err := building.ParseTimeSlot(req.TimeSlot)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time_slot (use HH:MM-HH:MM)", err)
		return
	}

	v, err := h.Store.ReserveViewing(r.Context(), building.ViewingInput{
		FloorNumber:   req.FloorNumber,
		Date:          date,
		TimeSlot:      slot,
		BrokerCompany: req.BrokerCompany,
		ClientName:    req.ClientName,
		Notes:         req.Notes,
	})
	if err != nil {
		h.writeStoreError(w, "Failed to reserve viewing", err)
		return
	}

	fields := []zap.Field{
		zap.String("id", v.ID),
		zap.Int("floor", v.FloorNumber),
		zap.String("date", v.ReservationDate.String()),
		zap.String("slot", v.TimeSlot.String()),
		zap.String("broker", v.BrokerCompany),
	}
	if h.isDoubleBooked(v) {
		h.Logger.Warn("slot double booked", fields...)
		w.Header().Set("Warning", `299 - "slot already booked by another broker"`)
	} else {
		h.Logger.Info("viewing reserved", fields...)
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) isDoubleBooked(v building.ViewingReservation) bool {
	slots := building.Availability(v.ReservationDate, v.FloorNumber, v.BrokerCompany,
		h.Store.Reservations(), []string{v.TimeSlot.Start})
	return len(slots) == 1 && slots[0].Conflict
}

func (h *Handler) ApproveViewing(w http.ResponseWriter, r *http.Request) {
	h.transitionViewing(w, r, "approve", h.Store.ApproveViewing)
}

func (h *Handler) CompleteViewing(w http.ResponseWriter, r *http.Request) {
	h.transitionViewing(w, r, "complete", h.Store.CompleteViewing)
}

func (h *Handler) CancelViewing(w http.ResponseWriter, r *http.Request) {
	h.transitionViewing(w, r, "cancel", h.Store.CancelViewing)
}

func (h *Handler) transitionViewing(w http.ResponseWriter, r *http.Request, verb string,
	fn func(ctx context.Context, id string) (building.ViewingReservation, error)) {
	id := chi.URLParam(r, "id")
	v, err := fn(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, fmt.Sprintf("Failed to %s viewing", verb), err)
		return
	}
	h.Logger.Info("viewing "+verb, zap.String("id", id), zap.String("status", string(v.Status)))
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) DeleteViewing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteViewing(r.Context(), id); err != nil {
		h.writeStoreError(w, "Failed to delete viewing", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TENANT APPLICATION HANDLERS
// =============================================================================

func (h *Handler) ListTenantApplications(w http.ResponseWriter, r *http.Request) {
	apps := h.Store.TenantApplications()
	if status := r.URL.Query().Get("status"); status != "" {
		apps = slices.DeleteFunc(apps, func(a building.TenantApplication) bool {
			return string(a.Status) != status
		})
	}
	writeJSON(w, http.StatusOK, nonNil(apps))
}

func (h *Handler) CreateTenantApplication(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantApplicationRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	moveIn, err := parseOptionalDate(req.DesiredMoveInDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid desired_move_in_date", err)
		return
	}

	a, err := h.Store.SubmitTenantApplication(r.Context(), building.TenantApplicationInput{
		FloorNumber:       req.FloorNumber,
		BrokerCompany:     req.BrokerCompany,
		ApplicantName:     req.ApplicantName,
		CompanyName:       req.CompanyName,
		GuarantorName:     req.GuarantorName,
		DesiredMoveInDate: moveIn,
		Documents:         req.Documents,
	})
	if err != nil {
		h.writeStoreError(w, "Failed to submit tenant application", err)
		return
	}

	h.Logger.Info("tenant application submitted", zap.String("id", a.ID), zap.Int("floor", a.FloorNumber))
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) ApproveTenantApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.Store.ApproveTenantApplication(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, "Failed to approve tenant application", err)
		return
	}
	h.Logger.Info("tenant application approved", zap.String("id", id))
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) RejectTenantApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req RejectRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	a, err := h.Store.RejectTenantApplication(r.Context(), id, strings.TrimSpace(req.Reason))
	if err != nil {
		h.writeStoreError(w, "Failed to reject tenant application", err)
		return
	}
	h.Logger.Info("tenant application rejected", zap.String("id", id))
	writeJSON(w, http.StatusOK, a)
}

// =============================================================================
// GENERIC APPLICATION HANDLERS
// =============================================================================

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps := h.Store.Applications()
	if typ := r.URL.Query().Get("type"); typ != "" {
		apps = slices.DeleteFunc(apps, func(a building.Application) bool {
			return string(a.Type) != typ
		})
	}
	writeJSON(w, http.StatusOK, nonNil(apps))
}

func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicationRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Store.SubmitApplication(r.Context(), building.ApplicationInput{
		Title:     req.Title,
		Type:      building.ApplicationType(req.Type),
		Applicant: req.Applicant,
		Details:   req.Details,
	})
	if err != nil {
		h.writeStoreError(w, "Failed to submit application", err)
		return
	}

	h.Logger.Info("application submitted", zap.String("id", a.ID), zap.String("type", string(a.Type)))
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.Store.ApproveApplication(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, "Failed to approve application", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.Store.RejectApplication(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, "Failed to reject application", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ListActivity returns the activity log newest first, capped by ?limit=.
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	logs := h.Store.ActivityLogs()
	slices.Reverse(logs)

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		if limit < len(logs) {
			logs = logs[:limit]
		}
	}
	writeJSON(w, http.StatusOK, nonNil(logs))
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListEvents derives events from the current state and selects a window:
// ?date= (one day), ?week= (the Sunday..Saturday week of that day), or
// ?year=&month= (defaults to the current month). ?type= filters by kind.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events := h.transformer.All(h.Store.Snapshot())
	if types := q.Get("type"); types != "" {
		wanted := strings.Split(types, ",")
		events = slices.DeleteFunc(events, func(e calendar.Event) bool {
			return !slices.Contains(wanted, string(e.Type))
		})
	}

	var resp EventsResponse
	switch {
	case q.Get("date") != "":
		day, err := building.ParseDate(q.Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
		resp = EventsResponse{From: day, To: day, Events: calendar.EventsForDay(events, day)}

	case q.Get("week") != "":
		day, err := building.ParseDate(q.Get("week"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid week (use YYYY-MM-DD)", err)
			return
		}
		start := calendar.WeekStart(day)
		resp = EventsResponse{From: start, To: start.AddDays(6), Events: calendar.EventsForWeek(events, day)}

	default:
		year, month, err := h.yearMonth(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year/month", err)
			return
		}
		resp = EventsResponse{
			From:   building.StartOfMonth(year, month),
			To:     building.EndOfMonth(year, month),
			Events: calendar.EventsForMonth(events, year, month),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCalendarGrid returns the month grid with events grouped by day.
func (h *Handler) GetCalendarGrid(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.yearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}
	grid := calendar.CalendarGrid(year, month)
	dates := grid.Dates()

	events := h.transformer.All(h.Store.Snapshot())
	visible := slices.DeleteFunc(events, func(e calendar.Event) bool {
		return e.StartDate.Before(dates[0]) || e.StartDate.After(dates[len(dates)-1])
	})
	writeJSON(w, http.StatusOK, GridResponse{Grid: grid, Events: calendar.GroupByDate(visible)})
}

// DownloadFloorReport streams the floor roster and month events as .xlsx.
func (h *Handler) DownloadFloorReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.yearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}
	snap := h.Store.Snapshot()
	data, err := report.Generate(report.Input{
		Snapshot: snap,
		Events:   h.transformer.All(snap),
		Year:     year,
		Month:    month,
	})
	if err != nil {
		h.Logger.Error("report generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate report", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, report.Filename(snap.Building.ID, year, month)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ResetStore discards all records and returns to the configured floors.
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.writeStoreError(w, "Failed to reset store", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	h.Logger.Info("store reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps domain errors to HTTP status codes.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case building.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case building.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, building.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

func floorParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "floor"))
}

func parseOptionalDate(s string) (*building.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := building.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// yearMonth reads ?year=&month=, defaulting to the current month.
func (h *Handler) yearMonth(r *http.Request) (int, time.Month, error) {
	today := building.DateOf(h.now())
	year, month := today.Year(), today.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			return 0, 0, fmt.Errorf("year %q out of range", v)
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("month %q out of range", v)
		}
		month = time.Month(m)
	}
	return year, month, nil
}

func toFloorDTO(f building.Floor, snap building.Snapshot) FloorDTO {
	return FloorDTO{
		Floor:            f,
		Label:            f.Label(),
		ViewingCount:     building.ViewingCount(snap.Reservations, f.Number),
		ApplicationCount: building.ApplicationCount(snap.TenantApplications, f.Number),
	}
}

// nonNil keeps empty lists encoding as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
