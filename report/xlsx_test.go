package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/building-console/building"
	"github.com/warp/building-console/calendar"
)

func testInput() Input {
	end := building.MustParseDate("2025-12-31")
	snap := building.Snapshot{
		Building: building.Building{ID: "bldg-1"},
		Floors: []building.Floor{
			{Number: 2, Area: decimal.RequireFromString("120.5"), Status: building.FloorVacant},
			{Number: 3, Area: decimal.NewFromInt(100), Status: building.FloorOccupied, TenantName: "株式会社A",
				Terms:           &building.Terms{Rent: decimal.NewFromInt(500000), CommonCharge: decimal.NewFromInt(60000)},
				ContractEndDate: &end},
		},
		Reservations: []building.ViewingReservation{
			{ID: "r1", FloorNumber: 2, ReservationDate: building.MustParseDate("2025-08-10"), Status: building.ReservationPending},
			{ID: "r2", FloorNumber: 2, ReservationDate: building.MustParseDate("2025-08-11"), Status: building.ReservationCancelled},
		},
	}
	return Input{
		Snapshot: snap,
		Events: []calendar.Event{
			{ID: "late", Type: calendar.TypeViewing, Title: "2階 内見予約", StartDate: building.MustParseDate("2025-08-10"), StartTime: "15:00", Participants: []string{"A不動産", "B不動産"}},
			{ID: "early", Type: calendar.TypeMaintenance, Title: "空調点検", StartDate: building.MustParseDate("2025-08-10"), StartTime: "09:00"},
			{ID: "next-month", Type: calendar.TypeTenant, Title: "入居予定", StartDate: building.MustParseDate("2025-09-01")},
		},
		Year:  2025,
		Month: time.August,
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestGenerate_FloorSheet(t *testing.T) {
	data, err := Generate(testInput())
	require.NoError(t, err)
	f := openWorkbook(t, data)

	assert.Equal(t, []string{FloorSheet, EventSheet}, f.GetSheetList())

	assert.Equal(t, "階", cell(t, f, FloorSheet, "A1"))
	assert.Equal(t, "2階", cell(t, f, FloorSheet, "A2"))
	assert.Equal(t, "空室", cell(t, f, FloorSheet, "B2"))
	assert.Equal(t, "120.5", cell(t, f, FloorSheet, "D2"))
	assert.Equal(t, "", cell(t, f, FloorSheet, "E2"))
	assert.Equal(t, "1", cell(t, f, FloorSheet, "I2"), "cancelled viewings are not counted")

	assert.Equal(t, "入居中", cell(t, f, FloorSheet, "B3"))
	assert.Equal(t, "株式会社A", cell(t, f, FloorSheet, "C3"))
	assert.Equal(t, "560000", cell(t, f, FloorSheet, "G3"))
	assert.Equal(t, "2025-12-31", cell(t, f, FloorSheet, "H3"))

	assert.Equal(t, "入居率(%)", cell(t, f, FloorSheet, "A5"))
	assert.Equal(t, "50", cell(t, f, FloorSheet, "B5"))
}

func TestGenerate_EventSheetIsMonthOnlyAndSorted(t *testing.T) {
	data, err := Generate(testInput())
	require.NoError(t, err)
	f := openWorkbook(t, data)

	rows, err := f.GetRows(EventSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two August events")

	assert.Equal(t, "空調点検", rows[1][4])
	assert.Equal(t, "2階 内見予約", rows[2][4])
	assert.Equal(t, "A不動産、B不動産", rows[2][6])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "bldg-1-2025-08.xlsx", Filename("bldg-1", 2025, time.August))
}
