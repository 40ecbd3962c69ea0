package factory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/building-console/building"
)

func TestParseBuilding_Default(t *testing.T) {
	f := NewBuildingFactory()

	b, floors, err := f.ParseBuilding(DefaultBuildingJSON)
	require.NoError(t, err)

	assert.Equal(t, "bldg-nihonbashi", b.ID)
	require.Len(t, floors, 8)
	assert.Equal(t, 5, building.OccupiedCount(floors))

	third := floors[2]
	assert.Equal(t, 3, third.Number)
	assert.Equal(t, building.FloorOccupied, third.Status)
	assert.Equal(t, "bldg-nihonbashi", third.BuildingID)
	require.NotNil(t, third.Terms)
	assert.True(t, decimal.NewFromInt(580000).Equal(third.Terms.MonthlyTotal()))
	require.NotNil(t, third.ContractEndDate)
	assert.Equal(t, "2025-12-31", third.ContractEndDate.String())

	second := floors[1]
	assert.Equal(t, building.FloorVacant, second.Status)
	assert.True(t, decimal.RequireFromString("120.5").Equal(second.Area))
}

func TestParseBuilding_DerivesStatusAndDropsVacantContract(t *testing.T) {
	f := NewBuildingFactory()

	_, floors, err := f.ParseBuilding(`{
		"id": "b", "name": "B",
		"floors": [{"floor_number": 2, "area": 50, "contract_end_date": "2030-01-31"}]
	}`)
	require.NoError(t, err)
	require.Len(t, floors, 1)
	assert.Equal(t, building.FloorVacant, floors[0].Status)
	assert.Nil(t, floors[0].ContractEndDate)
}

func TestParseBuilding_Errors(t *testing.T) {
	f := NewBuildingFactory()

	tests := []struct {
		name string
		json string
	}{
		{"missing name", `{"id": "b", "floors": [{"floor_number": 1}]}`},
		{"no floors", `{"id": "b", "name": "B", "floors": []}`},
		{"zero floor", `{"id": "b", "name": "B", "floors": [{"floor_number": 0}]}`},
		{"duplicate floor", `{"id": "b", "name": "B", "floors": [{"floor_number": 1}, {"floor_number": 1}]}`},
		{"negative area", `{"id": "b", "name": "B", "floors": [{"floor_number": 1, "area": -3}]}`},
		{"contract reversed", `{"id": "b", "name": "B", "floors": [{"floor_number": 1, "tenant_name": "T",
			"contract_start_date": "2025-04-01", "contract_end_date": "2025-03-31"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.ParseBuilding(tt.json)
			require.Error(t, err)
			assert.True(t, errors.Is(err, building.ErrInvalidInput), err)
		})
	}

	_, _, err := f.ParseBuilding(`{not json`)
	assert.Error(t, err)
}

func TestVacantBuildingJSON(t *testing.T) {
	f := NewBuildingFactory()

	b, floors, err := f.ParseBuilding(VacantBuildingJSON("v", "Vacant", 4, decimal.NewFromInt(60)))
	require.NoError(t, err)
	assert.Equal(t, "Vacant", b.Name)
	require.Len(t, floors, 4)
	assert.Equal(t, 0, building.OccupancyRate(floors))
	assert.Equal(t, 4, floors[3].Number)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "building.json")
	require.NoError(t, os.WriteFile(path, []byte(DefaultBuildingJSON), 0o600))

	_, floors, err := NewBuildingFactory().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, floors, 8)

	_, _, err = NewBuildingFactory().LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
