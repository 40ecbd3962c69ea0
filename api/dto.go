/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Response types mostly
  reuse the domain structs (they already carry JSON tags); request types are
  separate so validation tags and string dates stay out of the domain.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Wrappers around several values

VALIDATION:
  Request structs carry go-playground/validator tags and are checked by
  decodeAndValidate in handlers.go before any store call.

SEE ALSO:
  - handlers.go: Uses these types
  - building/types.go: Domain records embedded in responses
*/
package api

import (
	"github.com/warp/building-console/building"
	"github.com/warp/building-console/calendar"
)

// =============================================================================
// FLOORS
// =============================================================================

// FloorDTO is a floor plus its dashboard counters.
type FloorDTO struct {
	building.Floor
	Label            string `json:"label"`
	ViewingCount     int    `json:"viewing_count"`
	ApplicationCount int    `json:"application_count"`
}

type MoveInRequest struct {
	TenantID          string          `json:"tenant_id"`
	TenantName        string          `json:"tenant_name" validate:"required"`
	Terms             *building.Terms `json:"terms"`
	ContractStartDate string          `json:"contract_start_date" validate:"omitempty,datetime=2006-01-02"`
	ContractEndDate   string          `json:"contract_end_date" validate:"omitempty,datetime=2006-01-02"`
}

// AvailabilityResponse lists every slot of one floor on one day, classified
// for the calling broker.
type AvailabilityResponse struct {
	FloorNumber    int                         `json:"floor_number"`
	Date           building.Date               `json:"date"`
	Broker         string                      `json:"broker,omitempty"`
	Slots          []building.SlotAvailability `json:"slots"`
	AvailableSlots []string                    `json:"available_slots"`
}

// StatsResponse is the dashboard header plus per-floor counters.
type StatsResponse struct {
	building.Summary
	Floors []building.FloorStat `json:"floors"`
}

// =============================================================================
// VIEWINGS & APPLICATIONS
// =============================================================================

type CreateViewingRequest struct {
	FloorNumber   int    `json:"floor_number" validate:"required"`
	Date          string `json:"reservation_date" validate:"required,datetime=2006-01-02"`
	TimeSlot      string `json:"time_slot" validate:"required"`
	BrokerCompany string `json:"broker_company" validate:"required"`
	ClientName    string `json:"client_name"`
	Notes         string `json:"notes"`
}

type CreateTenantApplicationRequest struct {
	FloorNumber       int      `json:"floor_number" validate:"required"`
	BrokerCompany     string   `json:"broker_company" validate:"required"`
	ApplicantName     string   `json:"applicant_name"`
	CompanyName       string   `json:"company_name" validate:"required"`
	GuarantorName     string   `json:"guarantor_name"`
	DesiredMoveInDate string   `json:"desired_move_in_date" validate:"omitempty,datetime=2006-01-02"`
	Documents         []string `json:"documents"`
}

type CreateApplicationRequest struct {
	Title     string `json:"title" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=maintenance construction facility cleaning"`
	Applicant string `json:"applicant" validate:"required"`
	Details   string `json:"details"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// =============================================================================
// CALENDAR
// =============================================================================

// EventsResponse carries the window the events were selected for.
type EventsResponse struct {
	From   building.Date    `json:"from"`
	To     building.Date    `json:"to"`
	Events []calendar.Event `json:"events"`
}

// GridResponse is the month grid with each day's events attached.
type GridResponse struct {
	calendar.Grid
	Events map[string][]calendar.Event `json:"events"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
