/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
	Provides pre-built scenarios that replace the store state with realistic
	data for demos. Each scenario builds a complete snapshot (building,
	floors, reservations, applications, activity) dated relative to today,
	so the calendar always has something to show.

AVAILABLE SCENARIOS:
	default-building: The demo building with its tenants and nothing else
	leasing-season:   Viewings across vacant floors (one slot double booked),
	                  tenant applications, facility and maintenance requests
	vacant-building:  A new ten floor building with no tenants
	fully-leased:     Every floor leased, several contracts nearing renewal

USAGE VIA API:
	POST /api/scenarios/load
	{"scenario_id": "leasing-season"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create builder function: xxxScenario(today) (building.Snapshot, error)
 3. Add it to scenarioBuilders

NOTE:
	Loading a scenario overwrites the persisted state. POST /api/reset
	returns to the configured building.

SEE ALSO:
  - handlers.go: Handler
  - factory/building.go: Building JSON presets
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/building-console/building"
	"github.com/warp/building-console/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "default-building",
		Name:        "Default Building",
		Description: "Eight floors, five leased, no open work",
	},
	{
		ID:          "leasing-season",
		Name:        "Leasing Season",
		Description: "Viewings on every vacant floor, applications in flight, one double booking",
	},
	{
		ID:          "vacant-building",
		Name:        "Vacant Building",
		Description: "Newly completed ten floor building with no tenants",
	},
	{
		ID:          "fully-leased",
		Name:        "Fully Leased",
		Description: "100% occupancy with contracts coming up for renewal",
	},
}

type scenarioBuilder func(f *factory.BuildingFactory, today building.Date) (building.Snapshot, error)

var scenarioBuilders = map[string]scenarioBuilder{
	"default-building": defaultBuildingScenario,
	"leasing-season":   leasingSeasonScenario,
	"vacant-building":  vacantBuildingScenario,
	"fully-leased":     fullyLeasedScenario,
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": nil})
}

// LoadScenario replaces the store state with the named scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	build, ok := scenarioBuilders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}
	snap, err := build(h.Factory, building.DateOf(h.now()))
	if err != nil {
		h.Logger.Error("scenario build failed", zap.String("scenario", req.ScenarioID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to build scenario", err)
		return
	}

	h.Store.Restore(snap)
	if err := h.Store.Save(r.Context()); err != nil {
		h.writeStoreError(w, "Failed to persist scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.Logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"scenario": req.ScenarioID,
		"summary":  building.Summarize(h.Store.Snapshot()),
	})
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

func fromJSON(f *factory.BuildingFactory, jsonStr string) (building.Snapshot, error) {
	b, floors, err := f.ParseBuilding(jsonStr)
	if err != nil {
		return building.Snapshot{}, err
	}
	return building.Snapshot{Version: building.SnapshotVersion, Building: b, Floors: floors}, nil
}

func defaultBuildingScenario(f *factory.BuildingFactory, _ building.Date) (building.Snapshot, error) {
	return fromJSON(f, factory.DefaultBuildingJSON)
}

func vacantBuildingScenario(f *factory.BuildingFactory, _ building.Date) (building.Snapshot, error) {
	return fromJSON(f, factory.VacantBuildingJSON("bldg-shinagawa", "品川ワープタワー", 10, decimal.NewFromInt(150)))
}

func leasingSeasonScenario(f *factory.BuildingFactory, today building.Date) (building.Snapshot, error) {
	snap, err := fromJSON(f, factory.DefaultBuildingJSON)
	if err != nil {
		return building.Snapshot{}, err
	}

	slot := func(start, end string) building.TimeSlot { return building.TimeSlot{Start: start, End: end} }
	viewing := func(id string, floor, inDays int, s building.TimeSlot, status building.ReservationStatus, broker, client string) building.ViewingReservation {
		return building.ViewingReservation{
			ID:              id,
			FloorNumber:     floor,
			ReservationDate: today.AddDays(inDays),
			TimeSlot:        s,
			Status:          status,
			BrokerCompany:   broker,
			ClientName:      client,
			CreatedAt:       today.AddDays(-3),
		}
	}

	snap.Reservations = []building.ViewingReservation{
		viewing("demo-v1", 2, 1, slot("10:00", "11:00"), building.ReservationApproved, "三井不動産リアルティ", "株式会社アルファ"),
		viewing("demo-v2", 2, 1, slot("14:00", "15:00"), building.ReservationPending, "東急リバブル", "ベータ合同会社"),
		// Second broker on the same slot: shown as a conflict in availability.
		viewing("demo-v3", 2, 1, slot("14:00", "15:00"), building.ReservationPending, "住友不動産販売", "ガンマ株式会社"),
		viewing("demo-v4", 5, 2, slot("11:00", "12:00"), building.ReservationPending, "三井不動産リアルティ", "デルタ商事"),
		viewing("demo-v5", 8, 3, slot("16:00", "17:00"), building.ReservationApproved, "東急リバブル", "イプシロン株式会社"),
		viewing("demo-v6", 5, -2, slot("13:00", "14:00"), building.ReservationCompleted, "住友不動産販売", "ゼータ株式会社"),
		viewing("demo-v7", 8, -1, slot("09:00", "10:00"), building.ReservationCancelled, "東急リバブル", "エータ株式会社"),
	}

	snap.TenantApplications = []building.TenantApplication{
		{
			ID: "demo-t1", FloorNumber: 5, BrokerCompany: "住友不動産販売",
			ApplicantName: "山田太郎", CompanyName: "ゼータ株式会社", GuarantorName: "ゼータホールディングス",
			DesiredMoveInDate: building.DatePtr(today.AddMonths(1)), ApplicationDate: today.AddDays(-1),
			Status: building.TenantApplicationPending, Documents: []string{"登記簿謄本", "決算書"},
		},
		{
			ID: "demo-t2", FloorNumber: 8, BrokerCompany: "東急リバブル",
			ApplicantName: "佐藤花子", CompanyName: "イータ株式会社",
			DesiredMoveInDate: building.DatePtr(today.AddDays(20)), ApplicationDate: today.AddDays(-10),
			Status: building.TenantApplicationApproved,
		},
	}

	facilityDay := today.AddDays(5)
	snap.Applications = []building.Application{
		{
			ID: "demo-a1", Title: "空調設備 定期点検", Type: building.ApplicationMaintenance,
			Applicant: "ワープ設備サービス", ApplicationDate: today.AddDays(2), Status: building.ApplicationApproved,
		},
		{
			ID: "demo-a2", Title: "会議室 利用申請", Type: building.ApplicationFacility,
			Applicant: "株式会社サンプル商事", ApplicationDate: today, Status: building.ApplicationPending,
			Details: fmt.Sprintf("%d月%d日 13:00-15:00 1階会議室を使用", facilityDay.Month(), facilityDay.Day()),
		},
		{
			ID: "demo-a3", Title: "8階 内装工事", Type: building.ApplicationConstruction,
			Applicant: "ワープ建設", ApplicationDate: today.AddDays(7), Status: building.ApplicationPending,
		},
		{
			ID: "demo-a4", Title: "共用部 窓清掃", Type: building.ApplicationCleaning,
			Applicant: "ワープクリーン", ApplicationDate: today.AddDays(-4), Status: building.ApplicationApproved,
		},
	}

	snap.ActivityLogs = []building.ActivityLog{
		{ID: "demo-l1", Date: today.AddDays(-10), Type: building.ActivityApplication, Description: "イータ株式会社が8階の入居を申し込みました", RelatedID: "demo-t2"},
		{ID: "demo-l2", Date: today.AddDays(-3), Type: building.ActivityViewing, Description: "三井不動産リアルティが2階の内見を予約しました", RelatedID: "demo-v1"},
		{ID: "demo-l3", Date: today.AddDays(-1), Type: building.ActivityApplication, Description: "ゼータ株式会社が5階の入居を申し込みました", RelatedID: "demo-t1"},
	}
	return snap, nil
}

func fullyLeasedScenario(f *factory.BuildingFactory, today building.Date) (building.Snapshot, error) {
	snap, err := fromJSON(f, factory.DefaultBuildingJSON)
	if err != nil {
		return building.Snapshot{}, err
	}

	for i := range snap.Floors {
		fl := &snap.Floors[i]
		if fl.IsOccupied() {
			continue
		}
		fl.Status = building.FloorOccupied
		fl.TenantID = fmt.Sprintf("t-%d", fl.Number)
		fl.TenantName = fmt.Sprintf("%d階テナント株式会社", fl.Number)
		fl.Terms = &building.Terms{
			Rent:         decimal.NewFromInt(500000),
			CommonCharge: decimal.NewFromInt(60000),
			Deposit:      decimal.NewFromInt(3000000),
		}
		fl.ContractStartDate = building.DatePtr(today.AddMonths(-22))
		// Staggered ends so renewal checks land over the next few months.
		fl.ContractEndDate = building.DatePtr(today.AddMonths(2 + i%3))
	}

	snap.ActivityLogs = []building.ActivityLog{
		{ID: "demo-l1", Date: today, Type: building.ActivityTenantMoveIn, Description: "全フロア満室になりました"},
	}
	return snap, nil
}
