package building

import "github.com/shopspring/decimal"

// =============================================================================
// OCCUPANCY & COUNTS - Pure aggregates over the collections
// =============================================================================

var hundred = decimal.NewFromInt(100)

// OccupancyRate is round(100 * occupied / total) as an integer percentage,
// rounding halves away from zero. A building with no floors reports 0, and
// 100 is only reported when every floor is occupied (199 of 200 is 99).
func OccupancyRate(floors []Floor) int {
	total := len(floors)
	if total == 0 {
		return 0
	}
	occupied := OccupiedCount(floors)

	rate := int(decimal.NewFromInt(int64(occupied)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart())

	if rate == 100 && occupied < total {
		return 99
	}
	return rate
}

func OccupiedCount(floors []Floor) int {
	n := 0
	for _, f := range floors {
		if f.IsOccupied() {
			n++
		}
	}
	return n
}

// ViewingCount counts non-cancelled reservations for the floor, all dates.
func ViewingCount(reservations []ViewingReservation, floor int) int {
	n := 0
	for _, r := range reservations {
		if r.FloorNumber == floor && !r.IsCancelled() {
			n++
		}
	}
	return n
}

// ApplicationCount counts tenant applications for the floor, any status.
func ApplicationCount(applications []TenantApplication, floor int) int {
	n := 0
	for _, a := range applications {
		if a.FloorNumber == floor {
			n++
		}
	}
	return n
}

// Pending is implemented by every record with a pending state.
type Pending interface {
	IsPending() bool
}

// CountPending counts records whose status is exactly pending.
func CountPending[T Pending](items []T) int {
	n := 0
	for _, item := range items {
		if item.IsPending() {
			n++
		}
	}
	return n
}

// =============================================================================
// FLOOR STATS - Per-floor rollup for the dashboard
// =============================================================================

type FloorStat struct {
	FloorNumber      int             `json:"floor_number"`
	Status           FloorStatus     `json:"status"`
	TenantName       string          `json:"tenant_name,omitempty"`
	Area             decimal.Decimal `json:"area"`
	ViewingCount     int             `json:"viewing_count"`
	ApplicationCount int             `json:"application_count"`
}

func FloorStats(floors []Floor, reservations []ViewingReservation, applications []TenantApplication) []FloorStat {
	stats := make([]FloorStat, 0, len(floors))
	for _, f := range floors {
		stats = append(stats, FloorStat{
			FloorNumber:      f.Number,
			Status:           f.Status,
			TenantName:       f.TenantName,
			Area:             f.Area,
			ViewingCount:     ViewingCount(reservations, f.Number),
			ApplicationCount: ApplicationCount(applications, f.Number),
		})
	}
	return stats
}

// Summary is the dashboard header: occupancy plus pending work.
type Summary struct {
	TotalFloors               int             `json:"total_floors"`
	OccupiedFloors            int             `json:"occupied_floors"`
	OccupancyRate             int             `json:"occupancy_rate"`
	TotalArea                 decimal.Decimal `json:"total_area"`
	OccupiedArea              decimal.Decimal `json:"occupied_area"`
	PendingReservations       int             `json:"pending_reservations"`
	PendingTenantApplications int             `json:"pending_tenant_applications"`
	PendingApplications       int             `json:"pending_applications"`
}

func Summarize(s Snapshot) Summary {
	total, occupiedArea := decimal.Zero, decimal.Zero
	for _, f := range s.Floors {
		total = total.Add(f.Area)
		if f.IsOccupied() {
			occupiedArea = occupiedArea.Add(f.Area)
		}
	}

	return Summary{
		TotalFloors:               len(s.Floors),
		OccupiedFloors:            OccupiedCount(s.Floors),
		OccupancyRate:             OccupancyRate(s.Floors),
		TotalArea:                 total,
		OccupiedArea:              occupiedArea,
		PendingReservations:       CountPending(s.Reservations),
		PendingTenantApplications: CountPending(s.TenantApplications),
		PendingApplications:       CountPending(s.Applications),
	}
}
