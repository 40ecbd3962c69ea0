/*
Package building provides the domain model of the building management console.

PURPOSE:
  Holds the records an owner works with every day: leasable floors, broker
  viewing reservations, tenant applications, generic facility/maintenance
  requests and the append-only activity log. The Store in store.go owns the
  collections; availability.go and occupancy.go derive figures from them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Floor: one leasable unit, keyed by floor number within a building
  - ViewingReservation: a broker's booking of a date + time slot on a floor
  - TenantApplication: an applicant company's request to lease a floor
  - Application: catch-all operational request (maintenance, facility, ...)
  - ActivityLog: immutable audit entry written by every mutation

DESIGN PRINCIPLES:
  1. Per-entity status types: "pending" on a reservation is not the same
     value as "pending" on an application, so each has its own type
  2. Money and area use decimal.Decimal, never float64
  3. Optional dates are pointers; absence suppresses derived events

SEE ALSO:
  - store.go: Domain Store and mutations
  - availability.go: Viewing slot classification
  - occupancy.go: Occupancy rate and per-floor counts
  - ../calendar: Projection of these records into calendar events
*/
package building

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BUILDING & FLOOR
// =============================================================================

type Building struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type FloorStatus string

const (
	FloorOccupied FloorStatus = "occupied"
	FloorVacant   FloorStatus = "vacant"
)

// Terms are the commercial terms of a lease, all in yen.
type Terms struct {
	Rent         decimal.Decimal `json:"rent"`
	CommonCharge decimal.Decimal `json:"common_charge"`
	Deposit      decimal.Decimal `json:"deposit"`
	KeyMoney     decimal.Decimal `json:"key_money"`
}

// MonthlyTotal is rent plus common charge.
func (t Terms) MonthlyTotal() decimal.Decimal { return t.Rent.Add(t.CommonCharge) }

// Floor is one leasable unit. A floor is occupied iff it has a tenant name;
// ContractEndDate is only meaningful while occupied.
type Floor struct {
	BuildingID        string          `json:"building_id"`
	Number            int             `json:"floor_number"`
	Area              decimal.Decimal `json:"area"`
	Status            FloorStatus     `json:"status"`
	TenantID          string          `json:"tenant_id,omitempty"`
	TenantName        string          `json:"tenant_name,omitempty"`
	Terms             *Terms          `json:"terms,omitempty"`
	ContractStartDate *Date           `json:"contract_start_date,omitempty"`
	ContractEndDate   *Date           `json:"contract_end_date,omitempty"`
}

func (f Floor) IsOccupied() bool { return f.Status == FloorOccupied && f.TenantName != "" }

// Label is the display identifier used as event location ("5階").
func (f Floor) Label() string { return FloorLabel(f.Number) }

func FloorLabel(number int) string { return fmt.Sprintf("%d階", number) }

// =============================================================================
// VIEWING RESERVATION
// =============================================================================

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// CanTransitionTo: pending→approved→completed, cancel from pending|approved.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch next {
	case ReservationApproved:
		return s == ReservationPending
	case ReservationCompleted:
		return s == ReservationApproved
	case ReservationCancelled:
		return s == ReservationPending || s == ReservationApproved
	}
	return false
}

type ViewingReservation struct {
	ID              string            `json:"id"`
	FloorNumber     int               `json:"floor_number"`
	ReservationDate Date              `json:"reservation_date"`
	TimeSlot        TimeSlot          `json:"time_slot"`
	Status          ReservationStatus `json:"status"`
	BrokerCompany   string            `json:"broker_company"`
	ClientName      string            `json:"client_name,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       Date              `json:"created_at"`
}

func (r ViewingReservation) IsPending() bool   { return r.Status == ReservationPending }
func (r ViewingReservation) IsCancelled() bool { return r.Status == ReservationCancelled }

// =============================================================================
// TENANT APPLICATION
// =============================================================================

type TenantApplicationStatus string

const (
	TenantApplicationPending  TenantApplicationStatus = "pending"
	TenantApplicationApproved TenantApplicationStatus = "approved"
	TenantApplicationRejected TenantApplicationStatus = "rejected"
)

type TenantApplication struct {
	ID                string                  `json:"id"`
	FloorNumber       int                     `json:"floor_number"`
	BrokerCompany     string                  `json:"broker_company"`
	ApplicantName     string                  `json:"applicant_name"`
	CompanyName       string                  `json:"company_name"`
	GuarantorName     string                  `json:"guarantor_name,omitempty"`
	DesiredMoveInDate *Date                   `json:"desired_move_in_date,omitempty"`
	ApplicationDate   Date                    `json:"application_date"`
	Status            TenantApplicationStatus `json:"status"`
	RejectionReason   string                  `json:"rejection_reason,omitempty"`
	Documents         []string                `json:"documents,omitempty"`
}

func (a TenantApplication) IsPending() bool { return a.Status == TenantApplicationPending }

// =============================================================================
// GENERIC APPLICATION (maintenance, construction, facility, cleaning, ...)
// =============================================================================

type ApplicationType string

const (
	ApplicationMaintenance  ApplicationType = "maintenance"
	ApplicationConstruction ApplicationType = "construction"
	ApplicationFacility     ApplicationType = "facility"
	ApplicationCleaning     ApplicationType = "cleaning"
)

// Label is the Japanese work type used in synthesized descriptions.
func (t ApplicationType) Label() string {
	switch t {
	case ApplicationMaintenance:
		return "メンテナンス"
	case ApplicationConstruction:
		return "工事"
	case ApplicationFacility:
		return "施設利用"
	case ApplicationCleaning:
		return "清掃"
	}
	return string(t)
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Application struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Type            ApplicationType   `json:"type"`
	Applicant       string            `json:"applicant"`
	ApplicationDate Date              `json:"application_date"`
	Status          ApplicationStatus `json:"status"`
	Details         string            `json:"details,omitempty"`
}

func (a Application) IsPending() bool { return a.Status == ApplicationPending }

// =============================================================================
// ACTIVITY LOG - Append-only audit trail
// =============================================================================

type ActivityType string

const (
	ActivityTenantMoveIn  ActivityType = "tenant_move_in"
	ActivityTenantMoveOut ActivityType = "tenant_move_out"
	ActivityMaintenance   ActivityType = "maintenance"
	ActivityApplication   ActivityType = "application"
	ActivityViewing       ActivityType = "viewing"
)

// ActivityLog is never updated or deleted once appended.
type ActivityLog struct {
	ID          string       `json:"id"`
	Date        Date         `json:"date"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	RelatedID   string       `json:"related_id,omitempty"`
}

// =============================================================================
// SNAPSHOT - Everything the store holds, as persisted
// =============================================================================

// SnapshotVersion is bumped when the persisted layout changes.
const SnapshotVersion = 1

type Snapshot struct {
	Version            int                  `json:"version"`
	Building           Building             `json:"building"`
	Floors             []Floor              `json:"floors"`
	Reservations       []ViewingReservation `json:"reservations"`
	TenantApplications []TenantApplication  `json:"tenant_applications"`
	Applications       []Application        `json:"applications"`
	ActivityLogs       []ActivityLog        `json:"activity_logs"`
}
