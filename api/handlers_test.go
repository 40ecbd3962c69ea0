/*
handlers_test.go - HTTP tests against the full chi router

Tests for:
- Floor listing, availability and move-in/out
- Viewing lifecycle and status code mapping
- Calendar windows and grid
- Excel report download
- Persistence through the SQLite snapshot store
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/building-console/building"
	"github.com/warp/building-console/calendar"
	"github.com/warp/building-console/factory"
	"github.com/warp/building-console/report"
	"github.com/warp/building-console/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// Friday 2025-08-01, 10:00 local.
func testClock() time.Time { return time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC) }

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *building.Store
	db     *sqlite.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b, floors, err := factory.NewBuildingFactory().ParseBuilding(factory.DefaultBuildingJSON)
	require.NoError(t, err)

	ids := 0
	store, err := building.Open(context.Background(), b, floors,
		building.WithPersister(db),
		building.WithClock(testClock),
		building.WithIDGenerator(func() string { ids++; return fmt.Sprintf("id-%d", ids) }),
	)
	require.NoError(t, err)

	h := NewHandler(store, nil, WithClock(testClock))
	return &testServer{t: t, router: NewRouter(h, nil), store: store, db: db}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func viewingBody(floor int, date, slot, broker string) CreateViewingRequest {
	return CreateViewingRequest{FloorNumber: floor, Date: date, TimeSlot: slot, BrokerCompany: broker}
}

// =============================================================================
// FLOORS
// =============================================================================

func TestListFloors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/floors", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	floors := decode[[]FloorDTO](t, rec)
	require.Len(t, floors, 8)
	assert.Equal(t, "1階", floors[0].Label)
	assert.Equal(t, building.FloorVacant, floors[1].Status)
}

func TestGetFloor_NotFound(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/floors/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/floors/abc", nil).Code)
}

func TestMoveInAndOut(t *testing.T) {
	// GIVEN: Floor 2 is vacant, the building is 5 of 8 occupied
	s := newTestServer(t)

	// WHEN: A tenant moves in
	rec := s.do(http.MethodPost, "/api/floors/2/move-in", MoveInRequest{
		TenantName:      "株式会社新規",
		ContractEndDate: "2027-03-31",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: Occupancy becomes 6/8 = 75%
	stats := decode[StatsResponse](t, s.do(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, 75, stats.OccupancyRate)
	assert.Len(t, stats.Floors, 8)

	// AND: Moving in again conflicts
	rec = s.do(http.MethodPost, "/api/floors/2/move-in", MoveInRequest{TenantName: "別会社"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// AND: Moving out restores vacancy
	rec = s.do(http.MethodPost, "/api/floors/2/move-out", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	floor := decode[FloorDTO](t, rec)
	assert.Equal(t, building.FloorVacant, floor.Status)
	assert.Nil(t, floor.ContractEndDate)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/floors/2/move-out", nil).Code)
}

func TestMoveIn_Validation(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/floors/2/move-in", MoveInRequest{}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/floors/2/move-in", MoveInRequest{
		TenantName: "X", ContractEndDate: "2025/12/31",
	}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/floors/2/move-in", MoveInRequest{
		TenantName: "X", ContractStartDate: "2026-01-01", ContractEndDate: "2025-12-31",
	}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/floors/42/move-in", MoveInRequest{TenantName: "X"}).Code)
}

func TestUpdateTerms(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/api/floors/2/terms", map[string]any{"rent": "400000", "common_charge": "50000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	floor := decode[FloorDTO](t, rec)
	require.NotNil(t, floor.Terms)
	assert.Equal(t, "450000", floor.Terms.MonthlyTotal().String())

	rec = s.do(http.MethodPut, "/api/floors/2/terms", map[string]any{"rent": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// VIEWINGS & AVAILABILITY
// =============================================================================

func TestAvailability(t *testing.T) {
	// GIVEN: Broker A holds 10:00 and broker B holds 14:00 on floor 2
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "10:00-11:00", "A不動産")).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "14:00-15:00", "B不動産")).Code)

	// WHEN: Broker A asks for availability
	q := url.Values{"date": {"2025-08-10"}, "broker": {"A不動産"}}
	rec := s.do(http.MethodGet, "/api/floors/2/availability?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AvailabilityResponse](t, rec)

	// THEN: 10:00 is self, 14:00 other, the remaining 7 slots available
	require.Len(t, resp.Slots, 9)
	states := map[string]building.SlotState{}
	for _, slot := range resp.Slots {
		states[slot.SlotStart] = slot.State
	}
	assert.Equal(t, building.SlotBookedBySelf, states["10:00"])
	assert.Equal(t, building.SlotBookedByOther, states["14:00"])
	assert.Equal(t, building.SlotAvailable, states["09:00"])
	assert.Len(t, resp.AvailableSlots, 7)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/floors/2/availability", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/floors/99/availability?date=2025-08-10", nil).Code)
}

func TestCreateViewing_DoubleBookingWarns(t *testing.T) {
	s := newTestServer(t)

	first := s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "14:00-15:00", "A不動産"))
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get("Warning"))

	second := s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "14:00-15:00", "B不動産"))
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Contains(t, second.Header().Get("Warning"), "another broker")
}

func TestCreateViewing_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body CreateViewingRequest
		want int
	}{
		{"missing broker", viewingBody(2, "2025-08-10", "10:00-11:00", ""), http.StatusBadRequest},
		{"bad date", viewingBody(2, "10/08/2025", "10:00-11:00", "A"), http.StatusBadRequest},
		{"bad slot", viewingBody(2, "2025-08-10", "11:00-10:00", "A"), http.StatusBadRequest},
		{"unknown floor", viewingBody(42, "2025-08-10", "10:00-11:00", "A"), http.StatusNotFound},
		{"occupied floor", viewingBody(3, "2025-08-10", "10:00-11:00", "A"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.do(http.MethodPost, "/api/viewings", tt.body).Code)
		})
	}
}

func TestViewingLifecycle(t *testing.T) {
	s := newTestServer(t)
	v := decode[building.ViewingReservation](t,
		s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "10:00-11:00", "A不動産")))
	assert.Equal(t, building.ReservationPending, v.Status)

	// Completing a pending viewing skips approval.
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/viewings/"+v.ID+"/complete", nil).Code)

	rec := s.do(http.MethodPost, "/api/viewings/"+v.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, building.ReservationApproved, decode[building.ViewingReservation](t, rec).Status)

	rec = s.do(http.MethodPost, "/api/viewings/"+v.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, building.ReservationCompleted, decode[building.ViewingReservation](t, rec).Status)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/viewings/"+v.ID+"/cancel", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/viewings/missing/approve", nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/viewings/"+v.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/viewings/"+v.ID, nil).Code)
}

func TestListViewings_Filters(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "10:00-11:00", "A"))
	s.do(http.MethodPost, "/api/viewings", viewingBody(5, "2025-08-10", "10:00-11:00", "A"))
	s.do(http.MethodPost, "/api/viewings", viewingBody(5, "2025-08-11", "10:00-11:00", "A"))

	assert.Len(t, decode[[]building.ViewingReservation](t, s.do(http.MethodGet, "/api/viewings", nil)), 3)
	assert.Len(t, decode[[]building.ViewingReservation](t, s.do(http.MethodGet, "/api/viewings?floor=5", nil)), 2)
	assert.Len(t, decode[[]building.ViewingReservation](t, s.do(http.MethodGet, "/api/viewings?floor=5&date=2025-08-11", nil)), 1)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/viewings?floor=x", nil).Code)
}

// =============================================================================
// APPLICATIONS & ACTIVITY
// =============================================================================

func TestTenantApplications(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/tenant-applications", CreateTenantApplicationRequest{
		FloorNumber: 2, BrokerCompany: "A不動産", CompanyName: "株式会社C", DesiredMoveInDate: "2025-09-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	a := decode[building.TenantApplication](t, rec)
	assert.Equal(t, "2025-08-01", a.ApplicationDate.String())

	rec = s.do(http.MethodPost, "/api/tenant-applications/"+a.ID+"/reject", RejectRequest{Reason: "書類不備"})
	require.Equal(t, http.StatusOK, rec.Code)
	rejected := decode[building.TenantApplication](t, rec)
	assert.Equal(t, building.TenantApplicationRejected, rejected.Status)
	assert.Equal(t, "書類不備", rejected.RejectionReason)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/tenant-applications/"+a.ID+"/approve", nil).Code)

	pending := decode[[]building.TenantApplication](t, s.do(http.MethodGet, "/api/tenant-applications?status=pending", nil))
	assert.Empty(t, pending)

	rec = s.do(http.MethodPost, "/api/tenant-applications", CreateTenantApplicationRequest{FloorNumber: 2, BrokerCompany: "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplications(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/applications", CreateApplicationRequest{
		Title: "会議室利用", Type: "facility", Applicant: "株式会社A", Details: "8月20日 13:00-15:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	a := decode[building.Application](t, rec)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/applications/"+a.ID+"/approve", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/applications/"+a.ID+"/reject", nil).Code)

	rec = s.do(http.MethodPost, "/api/applications", CreateApplicationRequest{Title: "x", Type: "party", Applicant: "y"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Len(t, decode[[]building.Application](t, s.do(http.MethodGet, "/api/applications?type=facility", nil)), 1)
	assert.Empty(t, decode[[]building.Application](t, s.do(http.MethodGet, "/api/applications?type=cleaning", nil)))
}

func TestListActivity_NewestFirst(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/floors/2/move-in", MoveInRequest{TenantName: "First"})
	s.do(http.MethodPost, "/api/floors/5/move-in", MoveInRequest{TenantName: "Second"})

	logs := decode[[]building.ActivityLog](t, s.do(http.MethodGet, "/api/activity", nil))
	require.Len(t, logs, 2)
	assert.Contains(t, logs[0].Description, "Second")

	logs = decode[[]building.ActivityLog](t, s.do(http.MethodGet, "/api/activity?limit=1", nil))
	assert.Len(t, logs, 1)
}

// =============================================================================
// CALENDAR & REPORTS
// =============================================================================

func TestListEvents(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "14:00-15:00", "A"))
	s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "10:00-11:00", "B"))

	// Day window, sorted by time
	rec := s.do(http.MethodGet, "/api/calendar/events?date=2025-08-10&type=viewing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	day := decode[EventsResponse](t, rec)
	require.Len(t, day.Events, 2)
	assert.Equal(t, "10:00", day.Events[0].StartTime)

	// Default month is the clock's month; the viewings plus two activity logs
	month := decode[EventsResponse](t, s.do(http.MethodGet, "/api/calendar/events", nil))
	assert.Equal(t, "2025-08-01", month.From.String())
	assert.Equal(t, "2025-08-31", month.To.String())
	assert.Len(t, month.Events, 4)

	// Contract end of floor 3 (2025-12-31) and its renewal check (2025-09-30)
	dec := decode[EventsResponse](t, s.do(http.MethodGet, "/api/calendar/events?year=2025&month=12&type=tenant", nil))
	ids := []string{}
	for _, e := range dec.Events {
		ids = append(ids, e.ID)
	}
	assert.Contains(t, ids, "contract-end-bldg-nihonbashi-3")

	sep := decode[EventsResponse](t, s.do(http.MethodGet, "/api/calendar/events?year=2025&month=9&type=tenant", nil))
	found := false
	for _, e := range sep.Events {
		if e.ID == "renewal-bldg-nihonbashi-3" {
			found = true
			assert.Equal(t, "2025-09-30", e.StartDate.String())
		}
	}
	assert.True(t, found)

	week := decode[EventsResponse](t, s.do(http.MethodGet, "/api/calendar/events?week=2025-08-13", nil))
	assert.Equal(t, "2025-08-10", week.From.String())
	assert.Equal(t, "2025-08-16", week.To.String())

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/calendar/events?year=2025&month=13", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/calendar/events?date=tomorrow", nil).Code)
}

func TestGetCalendarGrid(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "10:00-11:00", "A"))

	rec := s.do(http.MethodGet, "/api/calendar/grid?year=2025&month=8", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grid := decode[GridResponse](t, rec)

	assert.Len(t, grid.Weeks, 6)
	assert.Len(t, grid.Events["2025-08-10"], 1)
	assert.Equal(t, calendar.TypeViewing, grid.Events["2025-08-10"][0].Type)
}

func TestDownloadFloorReport(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/reports/floors.xlsx?year=2025&month=8", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bldg-nihonbashi-2025-08.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(report.FloorSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1階", v)
}

// =============================================================================
// PERSISTENCE & RESET
// =============================================================================

func TestMutationsPersistToSQLite(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, "/api/viewings", viewingBody(2, "2025-08-10", "10:00-11:00", "A")).Code)

	snap, err := s.db.LoadSnapshot(context.Background(), building.SnapshotKey)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Reservations, 1)
	assert.Len(t, snap.ActivityLogs, 1)
}

func TestReset(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/floors/2/move-in", MoveInRequest{TenantName: "X"})

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/reset", nil).Code)

	stats := decode[StatsResponse](t, s.do(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, 5, stats.OccupiedFloors)
	assert.Empty(t, s.store.ActivityLogs())
}
