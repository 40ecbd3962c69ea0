/*
Package calendar projects building records onto one calendar event model.

PURPOSE:
  Viewings, tenant applications, maintenance/facility requests, activity
  logs and lease contracts all show up on the same owner calendar. This
  package maps each record type to zero or more Events (transform.go) and
  selects/sorts them for a day, week or month grid (aggregate.go, grid.go).

KEY CONCEPTS IN THIS FILE (event.go):
  - Event: the derived, display-oriented projection of a record
  - EventType: viewing, application, maintenance, tenant, facility
  - One fixed display color per EventType

IDEMPOTENCE:
  Event IDs are "<source>-<source id>", so transforming unchanged records
  twice yields identical events and IDs never collide across sources.
  Events are recomputed on every read and never stored.

SEE ALSO:
  - transform.go: Record -> Event rules
  - facility.go: Best-effort date/time extraction from free text
  - aggregate.go: Day/week/month selection
  - grid.go: Month grid with Japanese holidays
*/
package calendar

import "github.com/warp/building-console/building"

// =============================================================================
// EVENT TYPE & COLOR
// =============================================================================

type EventType string

const (
	TypeViewing     EventType = "viewing"
	TypeApplication EventType = "application"
	TypeMaintenance EventType = "maintenance"
	TypeTenant      EventType = "tenant"
	TypeFacility    EventType = "facility"
)

var colors = map[EventType]string{
	TypeViewing:     "#3B82F6",
	TypeApplication: "#F59E0B",
	TypeMaintenance: "#EF4444",
	TypeTenant:      "#10B981",
	TypeFacility:    "#8B5CF6",
}

// Color returns the fixed display color; unknown types get the facility color.
func (t EventType) Color() string {
	if c, ok := colors[t]; ok {
		return c
	}
	return colors[TypeFacility]
}

// =============================================================================
// EVENT
// =============================================================================

// Metadata keys.
const (
	MetaFloorNumber    = "floor_number"
	MetaBrokerCompany  = "broker_company"
	MetaTenantName     = "tenant_name"
	MetaContractorName = "contractor_name"
	MetaSourceID       = "source_id"
)

// Derived statuses for move-in events; every other status is copied verbatim.
const (
	StatusConfirmed = "confirmed"
	StatusTentative = "tentative"
)

type Event struct {
	ID           string            `json:"id"`
	Type         EventType         `json:"type"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	StartDate    building.Date     `json:"start_date"`
	EndDate      *building.Date    `json:"end_date,omitempty"`
	StartTime    string            `json:"start_time,omitempty"`
	EndTime      string            `json:"end_time,omitempty"`
	Location     string            `json:"location,omitempty"`
	Participants []string          `json:"participants"`
	Status       string            `json:"status,omitempty"`
	Color        string            `json:"color"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// HasTime reports whether the event has a start time (false = all day).
func (e Event) HasTime() bool { return e.StartTime != "" }
