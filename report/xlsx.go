/*
Package report renders the console state as an Excel workbook.

SHEETS:
  フロア一覧  One row per floor: tenant, area, terms, contract end and the
              viewing/application counts, followed by an occupancy footer
  イベント    The month's calendar events in date/time order

Numbers are written as numbers (not strings) so owners can sum and filter
in Excel directly.

SEE ALSO:
  - building/occupancy.go: FloorStats and Summarize
  - calendar/aggregate.go: EventsForMonth
*/
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/warp/building-console/building"
	"github.com/warp/building-console/calendar"
)

const (
	FloorSheet = "フロア一覧"
	EventSheet = "イベント"
)

var FloorHeader = []string{
	"階", "状態", "テナント", "面積(㎡)", "賃料", "共益費", "月額合計", "契約満了日", "内見数", "申込数",
}

var EventHeader = []string{
	"日付", "開始", "終了", "種別", "件名", "場所", "参加者", "状態",
}

// Input is everything one report needs. Events should already be narrowed
// to Year/Month; they are re-filtered and sorted here regardless.
type Input struct {
	Snapshot building.Snapshot
	Events   []calendar.Event
	Year     int
	Month    time.Month
}

// Generate builds the workbook and returns the encoded .xlsx bytes.
func Generate(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FloorSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(EventSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeFloors(f, in.Snapshot, headerStyle); err != nil {
		return nil, err
	}
	if err := writeEvents(f, calendar.EventsForMonth(in.Events, in.Year, in.Month), headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the suggested download name, e.g. "bldg-1-2025-08.xlsx".
func Filename(buildingID string, year int, month time.Month) string {
	return fmt.Sprintf("%s-%04d-%02d.xlsx", buildingID, year, int(month))
}

// =============================================================================
// SHEETS
// =============================================================================

func writeFloors(f *excelize.File, s building.Snapshot, headerStyle int) error {
	if err := writeHeader(f, FloorSheet, FloorHeader, headerStyle); err != nil {
		return err
	}

	stats := building.FloorStats(s.Floors, s.Reservations, s.TenantApplications)
	for i, stat := range stats {
		floor := s.Floors[i]
		row := []any{
			building.FloorLabel(stat.FloorNumber),
			statusLabel(stat.Status),
			stat.TenantName,
			number(stat.Area),
			nil, nil, nil,
			"",
			stat.ViewingCount,
			stat.ApplicationCount,
		}
		if floor.IsOccupied() && floor.Terms != nil {
			row[4] = number(floor.Terms.Rent)
			row[5] = number(floor.Terms.CommonCharge)
			row[6] = number(floor.Terms.MonthlyTotal())
		}
		if floor.IsOccupied() && floor.ContractEndDate != nil {
			row[7] = floor.ContractEndDate.String()
		}
		if err := setRow(f, FloorSheet, i+2, row); err != nil {
			return err
		}
	}

	summary := building.Summarize(s)
	footer := len(stats) + 3
	if err := setRow(f, FloorSheet, footer, []any{"入居率(%)", summary.OccupancyRate}); err != nil {
		return err
	}
	if err := setRow(f, FloorSheet, footer+1, []any{"入居面積(㎡)", number(summary.OccupiedArea), "総面積(㎡)", number(summary.TotalArea)}); err != nil {
		return err
	}

	if err := f.SetColWidth(FloorSheet, "A", "B", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(FloorSheet, "C", "C", 28); err != nil {
		return err
	}
	return f.SetColWidth(FloorSheet, "D", "J", 12)
}

func writeEvents(f *excelize.File, events []calendar.Event, headerStyle int) error {
	if err := writeHeader(f, EventSheet, EventHeader, headerStyle); err != nil {
		return err
	}
	for i, e := range events {
		row := []any{
			e.StartDate.String(),
			e.StartTime,
			e.EndTime,
			string(e.Type),
			e.Title,
			e.Location,
			strings.Join(e.Participants, "、"),
			e.Status,
		}
		if err := setRow(f, EventSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(EventSheet, "A", "D", 12); err != nil {
		return err
	}
	return f.SetColWidth(EventSheet, "E", "G", 30)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func statusLabel(s building.FloorStatus) string {
	if s == building.FloorOccupied {
		return "入居中"
	}
	return "空室"
}

func number(d decimal.Decimal) float64 { return d.InexactFloat64() }

