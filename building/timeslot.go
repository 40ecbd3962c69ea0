package building

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TIME SLOT - Bookable time-of-day range
// =============================================================================

// SlotSeparator joins start and end in the wire form "10:00-11:00".
const SlotSeparator = "-"

// TimeSlot is a structured start/end pair ("HH:MM"). It keeps the combined
// "HH:MM-HH:MM" string only on the JSON boundary so stored snapshots stay
// readable by the browser console.
type TimeSlot struct {
	Start string
	End   string
}

// ParseClock validates an "H:MM" or "HH:MM" time and returns it zero padded.
func ParseClock(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid time %q (use HH:MM): %w", s, err)
	}
	return t.Format("15:04"), nil
}

// ParseTimeSlot parses "HH:MM-HH:MM". The end part is optional.
func ParseTimeSlot(s string) (TimeSlot, error) {
	raw := splitTimeSlot(s)
	start, err := ParseClock(raw.Start)
	if err != nil {
		return TimeSlot{}, err
	}
	slot := TimeSlot{Start: start}
	if raw.End != "" {
		if slot.End, err = ParseClock(raw.End); err != nil {
			return TimeSlot{}, err
		}
		if slot.End <= slot.Start {
			return TimeSlot{}, fmt.Errorf("invalid time slot %q: end must be after start", s)
		}
	}
	return slot, nil
}

// splitTimeSlot cuts at the first separator without validating either side.
func splitTimeSlot(s string) TimeSlot {
	start, end, _ := strings.Cut(strings.TrimSpace(s), SlotSeparator)
	return TimeSlot{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
}

func (s TimeSlot) IsZero() bool { return s.Start == "" && s.End == "" }

func (s TimeSlot) String() string {
	if s.End == "" {
		return s.Start
	}
	return s.Start + SlotSeparator + s.End
}

func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON is lenient: each side is zero padded when it parses as a
// clock time and kept as written otherwise, so "9:00-10:00" restores as
// "09:00-10:00" and still matches the slot starts.
func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	slot := splitTimeSlot(raw)
	*s = TimeSlot{Start: padClock(slot.Start), End: padClock(slot.End)}
	return nil
}

func padClock(s string) string {
	if s == "" {
		return s
	}
	if clock, err := ParseClock(s); err == nil {
		return clock
	}
	return s
}

// HourlySlots returns the start times of one-hour slots in [fromHour, toHour).
func HourlySlots(fromHour, toHour int) []string {
	var slots []string
	for h := fromHour; h < toHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// DefaultSlotStarts are the business-hour viewing slots, 09:00 through 17:00.
var DefaultSlotStarts = HourlySlots(9, 18)
