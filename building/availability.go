package building

import "slices"

// =============================================================================
// AVAILABILITY - Viewing slot classification for one floor and day
// =============================================================================

type SlotState string

const (
	SlotAvailable     SlotState = "available"
	SlotBookedBySelf  SlotState = "booked_by_self"
	SlotBookedByOther SlotState = "booked_by_other"
)

// SlotAvailability is the classification of one fixed slot.
// Conflict is set when more than one broker company holds the slot; the
// console warns about it but never blocks the booking.
type SlotAvailability struct {
	SlotStart    string    `json:"slot_start"`
	State        SlotState `json:"state"`
	Available    bool      `json:"available"`
	OwnerCompany string    `json:"owner_company,omitempty"`
	Conflict     bool      `json:"conflict,omitempty"`
}

// Availability classifies every slot start for (floor, date) as seen by the
// caller's broker company. reservations must be the full collection across
// all brokers. A reservation occupies only the slot its start time matches;
// cancelled reservations are ignored. When the caller and another broker
// both hold a slot, the caller's own booking wins.
//
// Computed fresh on every call.
func Availability(date Date, floor int, caller string, reservations []ViewingReservation, slots []string) []SlotAvailability {
	if slots == nil {
		slots = DefaultSlotStarts
	}

	holders := make(map[string][]string, len(slots))
	for _, r := range reservations {
		if r.FloorNumber != floor || !r.ReservationDate.Equal(date) || r.IsCancelled() {
			continue
		}
		holders[r.TimeSlot.Start] = appendUnique(holders[r.TimeSlot.Start], r.BrokerCompany)
	}

	result := make([]SlotAvailability, 0, len(slots))
	for _, start := range slots {
		companies := holders[start]
		slot := SlotAvailability{SlotStart: start, Conflict: len(companies) > 1}

		switch {
		case len(companies) == 0:
			slot.State = SlotAvailable
			slot.Available = true
		case slices.Contains(companies, caller):
			slot.State = SlotBookedBySelf
			slot.OwnerCompany = caller
		default:
			slot.State = SlotBookedByOther
			slot.OwnerCompany = companies[0]
		}
		result = append(result, slot)
	}
	return result
}

// AvailableSlots returns the starts still free for the caller.
func AvailableSlots(availability []SlotAvailability) []string {
	var free []string
	for _, a := range availability {
		if a.Available {
			free = append(free, a.SlotStart)
		}
	}
	return free
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
