package calendar

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/jp"

	"github.com/warp/building-console/building"
)

// =============================================================================
// MONTH GRID - Conventional Sunday-first calendar layout
// =============================================================================

// Day is one cell of the month grid.
type Day struct {
	Date    building.Date `json:"date"`
	InMonth bool          `json:"in_month"`
	Holiday string        `json:"holiday,omitempty"`
}

type Week [7]Day

type Grid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks []Week     `json:"weeks"`
}

// CalendarGrid lays out the month from the Sunday on or before the 1st to
// the Saturday on or after the last day. Every week is complete, padded
// with days of the adjacent months.
func CalendarGrid(year int, month time.Month) Grid {
	first := building.StartOfMonth(year, month)
	last := building.EndOfMonth(year, month)
	end := last.AddDays(int(time.Saturday - last.Weekday()))

	grid := Grid{Year: year, Month: month}
	for d := WeekStart(first); !d.After(end); d = d.AddDays(7) {
		var week Week
		for i := range week {
			day := d.AddDays(i)
			week[i] = Day{
				Date:    day,
				InMonth: day.Month() == month && day.Year() == year,
				Holiday: HolidayName(day),
			}
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

// Dates flattens the grid into its dates, row by row.
func (g Grid) Dates() []building.Date {
	dates := make([]building.Date, 0, len(g.Weeks)*7)
	for _, w := range g.Weeks {
		for _, d := range w {
			dates = append(dates, d.Date)
		}
	}
	return dates
}

// =============================================================================
// HOLIDAYS - Japanese public holidays for grid shading
// =============================================================================

var holidays = newHolidayCalendar()

func newHolidayCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(jp.Holidays...)
	return c
}

// HolidayName returns the Japanese public holiday on d, or "".
func HolidayName(d building.Date) string {
	actual, observed, h := holidays.IsHoliday(d.Time)
	if (actual || observed) && h != nil {
		return h.Name
	}
	return ""
}
