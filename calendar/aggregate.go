package calendar

import (
	"sort"
	"time"

	"github.com/warp/building-console/building"
)

// =============================================================================
// AGGREGATION - Select and sort events for a time window
// =============================================================================

// EventsForDay returns the events starting on date, sorted by start time.
// All-day events come first and keep their relative order, as do events
// sharing a start time.
func EventsForDay(events []Event, date building.Date) []Event {
	day := filter(events, func(e Event) bool { return e.StartDate.Equal(date) })
	SortByStart(day)
	return day
}

// EventsForWeek returns the events of the Sunday..Saturday week containing
// day, ordered by date and then start time.
func EventsForWeek(events []Event, day building.Date) []Event {
	start := WeekStart(day)
	return eventsBetween(events, start, start.AddDays(6))
}

// EventsForMonth returns the events whose start date falls within
// [first day, last day] of the month, leap years included.
func EventsForMonth(events []Event, year int, month time.Month) []Event {
	return eventsBetween(events, building.StartOfMonth(year, month), building.EndOfMonth(year, month))
}

// GroupByDate buckets events by "YYYY-MM-DD" start date, each bucket
// sorted like EventsForDay.
func GroupByDate(events []Event) map[string][]Event {
	groups := make(map[string][]Event)
	for _, e := range events {
		key := e.StartDate.String()
		groups[key] = append(groups[key], e)
	}
	for _, g := range groups {
		SortByStart(g)
	}
	return groups
}

// SortByStart orders events in place: all-day first, then by start time.
// The sort is stable, so ties keep their input order.
func SortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.HasTime() != b.HasTime() {
			return !a.HasTime()
		}
		return a.StartTime < b.StartTime
	})
}

// WeekStart is the Sunday on or before d.
func WeekStart(d building.Date) building.Date {
	return d.AddDays(-int(d.Weekday()))
}

func eventsBetween(events []Event, from, to building.Date) []Event {
	selected := filter(events, func(e Event) bool {
		return e.StartDate.AfterOrEqual(from) && e.StartDate.BeforeOrEqual(to)
	})
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.HasTime() != b.HasTime() {
			return !a.HasTime()
		}
		return a.StartTime < b.StartTime
	})
	return selected
}

func filter(events []Event, keep func(Event) bool) []Event {
	out := []Event{}
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
