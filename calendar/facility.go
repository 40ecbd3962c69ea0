package calendar

import (
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/width"

	"github.com/warp/building-console/building"
)

// =============================================================================
// FACILITY SCHEDULE - Best-effort extraction from free text
// =============================================================================
//
// Facility requests carry their schedule only in prose, e.g.
// "8月20日 13:00-15:00 会議室を使用". Extraction is fallback-first: any miss
// yields the default and never an error.

var (
	monthDayPattern  = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	timeRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-~〜ー–—]\s*(\d{1,2}:\d{2})`)
)

// parseOr returns parse(text) when it succeeds and fallback otherwise.
func parseOr[T any](parse func(string) (T, bool), text string, fallback T) T {
	if v, ok := parse(text); ok {
		return v
	}
	return fallback
}

// ParseFacilitySchedule extracts a date and time range from details.
// A month/day already past this year rolls to next year; no date falls back
// to the application date; no time range leaves the slot empty.
func ParseFacilitySchedule(details string, applicationDate building.Date, now time.Time) (building.Date, building.TimeSlot) {
	text := normalizeText(details)
	date := parseOr(func(s string) (building.Date, bool) { return extractMonthDay(s, now) }, text, applicationDate)
	slot := parseOr(extractTimeRange, text, building.TimeSlot{})
	return date, slot
}

// normalizeText folds full-width digits and punctuation to ASCII so
// "１０月５日　１３：００～１５：００" matches the patterns.
func normalizeText(s string) string {
	return width.Fold.String(s)
}

func extractMonthDay(text string, now time.Time) (building.Date, bool) {
	m := monthDayPattern.FindStringSubmatch(text)
	if m == nil {
		return building.Date{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])

	today := building.DateOf(now)
	for _, year := range []int{today.Year(), today.Year() + 1} {
		d, ok := validDate(year, month, day)
		if ok && !d.Before(today) {
			return d, true
		}
	}
	return building.Date{}, false
}

func validDate(year, month, day int) (building.Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > building.DaysIn(year, time.Month(month)) {
		return building.Date{}, false
	}
	return building.NewDate(year, time.Month(month), day), true
}

func extractTimeRange(text string) (building.TimeSlot, bool) {
	m := timeRangePattern.FindStringSubmatch(text)
	if m == nil {
		return building.TimeSlot{}, false
	}
	slot, err := building.ParseTimeSlot(m[1] + building.SlotSeparator + m[2])
	if err != nil {
		return building.TimeSlot{}, false
	}
	return slot, true
}
