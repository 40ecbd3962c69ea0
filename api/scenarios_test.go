package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/building-console/building"
	"github.com/warp/building-console/calendar"
	"github.com/warp/building-console/factory"
)

func TestScenarioBuilders_AllValid(t *testing.T) {
	f := factory.NewBuildingFactory()
	today := building.DateOf(testClock())

	require.Len(t, scenarioBuilders, len(scenarios))
	for _, sc := range scenarios {
		t.Run(sc.ID, func(t *testing.T) {
			build, ok := scenarioBuilders[sc.ID]
			require.True(t, ok)

			snap, err := build(f, today)
			require.NoError(t, err)
			require.NotEmpty(t, snap.Floors)

			// Every generated event id is unique.
			events := calendar.NewTransformer(testClock).All(snap)
			seen := map[string]bool{}
			for _, e := range events {
				assert.False(t, seen[e.ID], e.ID)
				seen[e.ID] = true
			}
		})
	}
}

func TestLoadScenario_LeasingSeason(t *testing.T) {
	// GIVEN: A fresh server
	s := newTestServer(t)

	// WHEN: Loading the leasing season scenario
	rec := s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "leasing-season"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: The store holds its records and the double booking is visible
	assert.Len(t, s.store.Reservations(), 7)
	assert.Len(t, s.store.TenantApplications(), 2)

	tomorrow := building.DateOf(testClock()).AddDays(1)
	slots := building.Availability(tomorrow, 2, "東急リバブル", s.store.Reservations(), nil)
	for _, slot := range slots {
		if slot.SlotStart == "14:00" {
			assert.Equal(t, building.SlotBookedBySelf, slot.State)
			assert.True(t, slot.Conflict)
		}
	}

	// AND: The facility request lands on its parsed day with its time range
	events := decode[EventsResponse](t, s.do(http.MethodGet, "/api/calendar/events?type=facility&year=2025&month=8", nil))
	var facility *calendar.Event
	for i := range events.Events {
		if events.Events[i].ID == "facility-demo-a2" {
			facility = &events.Events[i]
		}
	}
	require.NotNil(t, facility)
	assert.Equal(t, "2025-08-06", facility.StartDate.String())
	assert.Equal(t, "13:00", facility.StartTime)

	current := decode[ScenarioDTO](t, s.do(http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "leasing-season", current.ID)
}

func TestLoadScenario_FullyLeased(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "fully-leased"}).Code)

	stats := decode[StatsResponse](t, s.do(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, 100, stats.OccupancyRate)
	assert.Equal(t, stats.TotalFloors, stats.OccupiedFloors)
}

func TestLoadScenario_Errors(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{}).Code)
}

func TestResetClearsScenario(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "vacant-building"})
	assert.Equal(t, "品川ワープタワー", s.store.Building().Name)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/reset", nil).Code)

	assert.Equal(t, "日本橋ワープビル", s.store.Building().Name)
	current := decode[map[string]any](t, s.do(http.MethodGet, "/api/scenarios/current", nil))
	assert.Nil(t, current["id"])
}
