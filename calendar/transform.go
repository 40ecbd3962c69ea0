package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/warp/building-console/building"
)

// =============================================================================
// TRANSFORMER - Record -> Event rules
// =============================================================================

// Transformer maps records to events. Now is only consulted by the facility
// date roll-forward; everything else is a pure function of the record.
type Transformer struct {
	Now func() time.Time
}

func NewTransformer(now func() time.Time) *Transformer {
	if now == nil {
		now = time.Now
	}
	return &Transformer{Now: now}
}

// All transforms every record in the snapshot. Order is fixed: viewings,
// tenant applications, applications, activity logs, floor contracts.
func (t *Transformer) All(s building.Snapshot) []Event {
	var events []Event
	for _, r := range s.Reservations {
		events = append(events, FromViewing(r))
	}
	for _, a := range s.TenantApplications {
		events = append(events, FromTenantApplication(a)...)
	}
	for _, a := range s.Applications {
		if e, ok := t.FromApplication(a); ok {
			events = append(events, e)
		}
	}
	for _, l := range s.ActivityLogs {
		if e, ok := FromActivityLog(l); ok {
			events = append(events, e)
		}
	}
	for _, f := range s.Floors {
		events = append(events, FromFloorContract(f)...)
	}
	return events
}

// FromViewing emits one viewing event with the slot split into start/end.
func FromViewing(r building.ViewingReservation) Event {
	return Event{
		ID:           "viewing-" + r.ID,
		Type:         TypeViewing,
		Title:        fmt.Sprintf("%s 内見予約", building.FloorLabel(r.FloorNumber)),
		Description:  viewingDescription(r),
		StartDate:    r.ReservationDate,
		StartTime:    r.TimeSlot.Start,
		EndTime:      r.TimeSlot.End,
		Location:     building.FloorLabel(r.FloorNumber),
		Participants: participants(r.BrokerCompany),
		Status:       string(r.Status),
		Color:        TypeViewing.Color(),
		Metadata: map[string]string{
			MetaFloorNumber:   strconv.Itoa(r.FloorNumber),
			MetaBrokerCompany: r.BrokerCompany,
			MetaSourceID:      r.ID,
		},
	}
}

func viewingDescription(r building.ViewingReservation) string {
	var parts []string
	if r.ClientName != "" {
		parts = append(parts, "お客様: "+r.ClientName)
	}
	if r.Notes != "" {
		parts = append(parts, r.Notes)
	}
	return strings.Join(parts, " / ")
}

// FromTenantApplication always emits the "application received" event and,
// when a desired move-in date exists, a "move-in scheduled" tenant event
// whose status is derived: confirmed once approved, tentative otherwise.
func FromTenantApplication(a building.TenantApplication) []Event {
	floor := building.FloorLabel(a.FloorNumber)
	meta := func() map[string]string {
		return map[string]string{
			MetaFloorNumber:   strconv.Itoa(a.FloorNumber),
			MetaBrokerCompany: a.BrokerCompany,
			MetaTenantName:    a.CompanyName,
			MetaSourceID:      a.ID,
		}
	}

	events := []Event{{
		ID:           "application-" + a.ID,
		Type:         TypeApplication,
		Title:        fmt.Sprintf("%s 入居申込", floor),
		Description:  a.CompanyName,
		StartDate:    a.ApplicationDate,
		Location:     floor,
		Participants: participants(a.BrokerCompany, a.CompanyName),
		Status:       string(a.Status),
		Color:        TypeApplication.Color(),
		Metadata:     meta(),
	}}

	if a.DesiredMoveInDate == nil || a.DesiredMoveInDate.IsZero() {
		return events
	}

	status := StatusTentative
	if a.Status == building.TenantApplicationApproved {
		status = StatusConfirmed
	}
	return append(events, Event{
		ID:           "movein-" + a.ID,
		Type:         TypeTenant,
		Title:        fmt.Sprintf("%s 入居予定", floor),
		Description:  a.CompanyName,
		StartDate:    *a.DesiredMoveInDate,
		Location:     floor,
		Participants: participants(a.CompanyName),
		Status:       status,
		Color:        TypeTenant.Color(),
		Metadata:     meta(),
	})
}

// FromApplication maps maintenance/construction to a maintenance event and
// facility to a facility event. Every other type produces nothing.
func (t *Transformer) FromApplication(a building.Application) (Event, bool) {
	switch a.Type {
	case building.ApplicationMaintenance, building.ApplicationConstruction:
		description := a.Details
		if strings.TrimSpace(description) == "" {
			description = fmt.Sprintf("%sによる%s", a.Applicant, a.Type.Label())
		}
		return Event{
			ID:           "maintenance-" + a.ID,
			Type:         TypeMaintenance,
			Title:        a.Title,
			Description:  description,
			StartDate:    a.ApplicationDate,
			Participants: participants(a.Applicant),
			Status:       string(a.Status),
			Color:        TypeMaintenance.Color(),
			Metadata: map[string]string{
				MetaContractorName: a.Applicant,
				MetaSourceID:       a.ID,
			},
		}, true

	case building.ApplicationFacility:
		date, slot := ParseFacilitySchedule(a.Details, a.ApplicationDate, t.Now())
		return Event{
			ID:           "facility-" + a.ID,
			Type:         TypeFacility,
			Title:        a.Title,
			Description:  a.Details,
			StartDate:    date,
			StartTime:    slot.Start,
			EndTime:      slot.End,
			Participants: participants(a.Applicant),
			Status:       string(a.Status),
			Color:        TypeFacility.Color(),
			Metadata: map[string]string{
				MetaContractorName: a.Applicant,
				MetaSourceID:       a.ID,
			},
		}, true
	}
	return Event{}, false
}

var activityTypes = map[building.ActivityType]EventType{
	building.ActivityTenantMoveIn:  TypeTenant,
	building.ActivityTenantMoveOut: TypeTenant,
	building.ActivityMaintenance:   TypeMaintenance,
	building.ActivityViewing:       TypeViewing,
	building.ActivityApplication:   TypeApplication,
}

// FromActivityLog emits an all-day event titled with the log description.
// Unknown activity types land in the facility bucket. Logs without a date
// produce nothing.
func FromActivityLog(l building.ActivityLog) (Event, bool) {
	if l.Date.IsZero() {
		return Event{}, false
	}
	typ, ok := activityTypes[l.Type]
	if !ok {
		typ = TypeFacility
	}

	meta := map[string]string{MetaSourceID: l.ID}
	if l.RelatedID != "" {
		meta["related_id"] = l.RelatedID
	}
	return Event{
		ID:           "activity-" + l.ID,
		Type:         typ,
		Title:        l.Description,
		StartDate:    l.Date,
		Participants: []string{},
		Color:        typ.Color(),
		Metadata:     meta,
	}, true
}

// RenewalLeadMonths is how far ahead of contract end the renewal check sits.
const RenewalLeadMonths = 3

// FromFloorContract emits a renewal-check event 3 calendar months before the
// contract end and a contract-end event on it. Vacant floors and floors
// without an end date produce nothing.
func FromFloorContract(f building.Floor) []Event {
	if !f.IsOccupied() || f.ContractEndDate == nil || f.ContractEndDate.IsZero() {
		return nil
	}
	end := *f.ContractEndDate
	key := fmt.Sprintf("%s-%d", f.BuildingID, f.Number)
	meta := func() map[string]string {
		return map[string]string{
			MetaFloorNumber: strconv.Itoa(f.Number),
			MetaTenantName:  f.TenantName,
			MetaSourceID:    key,
		}
	}

	return []Event{
		{
			ID:           "renewal-" + key,
			Type:         TypeTenant,
			Title:        fmt.Sprintf("%s 契約更新確認", f.Label()),
			Description:  fmt.Sprintf("%s 契約満了日 %s", f.TenantName, end),
			StartDate:    end.AddMonths(-RenewalLeadMonths),
			Location:     f.Label(),
			Participants: participants(f.TenantName),
			Color:        TypeTenant.Color(),
			Metadata:     meta(),
		},
		{
			ID:           "contract-end-" + key,
			Type:         TypeTenant,
			Title:        fmt.Sprintf("%s 契約満了", f.Label()),
			Description:  f.TenantName,
			StartDate:    end,
			Location:     f.Label(),
			Participants: participants(f.TenantName),
			Color:        TypeTenant.Color(),
			Metadata:     meta(),
		},
	}
}

// participants drops blank names and never returns nil.
func participants(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}
