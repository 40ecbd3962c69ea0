/*
Package factory provides JSON to Go building conversion.

PURPOSE:
  Converts JSON building definitions into building.Building and its
  []building.Floor roster. Operators describe a property in a file (or
  pick a preset) and the factory produces validated domain values that
  seed the Store.

JSON SCHEMA:
  {
    "id": "bldg-nihonbashi",
    "name": "日本橋ワープビル",
    "address": "東京都中央区日本橋1-1-1",
    "floors": [
      {"floor_number": 2, "area": "120.5"},
      {
        "floor_number": 3,
        "area": 98,
        "tenant_id": "t-3",
        "tenant_name": "株式会社サンプル",
        "terms": {"rent": 450000, "common_charge": 60000, "deposit": 2700000, "key_money": 0},
        "contract_start_date": "2023-04-01",
        "contract_end_date": "2025-12-31"
      }
    ]
  }

RULES:
  - Floor numbers are unique and non-zero
  - Status is derived: a floor with tenant_name is occupied, otherwise vacant
  - Contract dates on vacant floors are dropped
  - contract_end_date may not precede contract_start_date

USAGE:
  f := NewBuildingFactory()
  b, floors, err := f.ParseBuilding(DefaultBuildingJSON)
  store := building.NewStore(b, floors)

SEE ALSO:
  - building/types.go: Building and Floor definitions
  - api/scenarios.go: Demo scenarios built from these presets
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/building-console/building"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// BuildingJSON is the JSON representation of a building and its floors.
type BuildingJSON struct {
	ID      string      `json:"id" validate:"required"`
	Name    string      `json:"name" validate:"required"`
	Address string      `json:"address,omitempty"`
	Floors  []FloorJSON `json:"floors" validate:"required,min=1,dive"`
}

// FloorJSON represents one floor. Dates are "YYYY-MM-DD".
type FloorJSON struct {
	Number            int             `json:"floor_number" validate:"ne=0"`
	Area              decimal.Decimal `json:"area"`
	TenantID          string          `json:"tenant_id,omitempty"`
	TenantName        string          `json:"tenant_name,omitempty"`
	Terms             *building.Terms `json:"terms,omitempty"`
	ContractStartDate *building.Date  `json:"contract_start_date,omitempty"`
	ContractEndDate   *building.Date  `json:"contract_end_date,omitempty"`
}

// =============================================================================
// BUILDING FACTORY
// =============================================================================

// BuildingFactory converts JSON definitions to domain values.
type BuildingFactory struct {
	validate *validator.Validate
}

func NewBuildingFactory() *BuildingFactory {
	return &BuildingFactory{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ParseBuilding parses a JSON string into a Building and its floors.
func (f *BuildingFactory) ParseBuilding(jsonStr string) (building.Building, []building.Floor, error) {
	var bj BuildingJSON
	if err := json.Unmarshal([]byte(jsonStr), &bj); err != nil {
		return building.Building{}, nil, fmt.Errorf("failed to parse building JSON: %w", err)
	}
	return f.FromJSON(bj)
}

// LoadFile reads and parses a building definition file.
func (f *BuildingFactory) LoadFile(path string) (building.Building, []building.Floor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return building.Building{}, nil, fmt.Errorf("failed to read building file: %w", err)
	}
	return f.ParseBuilding(string(data))
}

// FromJSON validates bj and converts it to a Building and its floors.
func (f *BuildingFactory) FromJSON(bj BuildingJSON) (building.Building, []building.Floor, error) {
	if err := f.validate.Struct(bj); err != nil {
		return building.Building{}, nil, fmt.Errorf("%w: %v", building.ErrInvalidInput, err)
	}

	b := building.Building{
		ID:      strings.TrimSpace(bj.ID),
		Name:    strings.TrimSpace(bj.Name),
		Address: strings.TrimSpace(bj.Address),
	}

	seen := make(map[int]bool, len(bj.Floors))
	floors := make([]building.Floor, 0, len(bj.Floors))
	for _, fj := range bj.Floors {
		if seen[fj.Number] {
			return building.Building{}, nil, fmt.Errorf("%w: duplicate floor %d", building.ErrInvalidInput, fj.Number)
		}
		seen[fj.Number] = true

		floor, err := parseFloor(b.ID, fj)
		if err != nil {
			return building.Building{}, nil, err
		}
		floors = append(floors, floor)
	}
	return b, floors, nil
}

func parseFloor(buildingID string, fj FloorJSON) (building.Floor, error) {
	if fj.Area.IsNegative() {
		return building.Floor{}, fmt.Errorf("%w: floor %d has negative area", building.ErrInvalidInput, fj.Number)
	}

	floor := building.Floor{
		BuildingID: buildingID,
		Number:     fj.Number,
		Area:       fj.Area,
		Status:     building.FloorVacant,
	}
	if strings.TrimSpace(fj.TenantName) == "" {
		return floor, nil
	}

	if fj.ContractStartDate != nil && fj.ContractEndDate != nil &&
		fj.ContractEndDate.Before(*fj.ContractStartDate) {
		return building.Floor{}, fmt.Errorf("%w: floor %d contract ends before it starts", building.ErrInvalidInput, fj.Number)
	}

	floor.Status = building.FloorOccupied
	floor.TenantID = fj.TenantID
	floor.TenantName = strings.TrimSpace(fj.TenantName)
	floor.Terms = fj.Terms
	floor.ContractStartDate = nonZero(fj.ContractStartDate)
	floor.ContractEndDate = nonZero(fj.ContractEndDate)
	return floor, nil
}

func nonZero(d *building.Date) *building.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

// =============================================================================
// PRESETS
// =============================================================================

// DefaultBuildingJSON is the demo property served when no building file is
// configured: eight floors, five leased.
const DefaultBuildingJSON = `{
  "id": "bldg-nihonbashi",
  "name": "日本橋ワープビル",
  "address": "東京都中央区日本橋1-1-1",
  "floors": [
    {"floor_number": 1, "area": "85.2", "tenant_id": "t-1", "tenant_name": "ワープカフェ株式会社",
     "terms": {"rent": "380000", "common_charge": "42000", "deposit": "2280000", "key_money": "380000"},
     "contract_start_date": "2022-04-01", "contract_end_date": "2026-03-31"},
    {"floor_number": 2, "area": "120.5"},
    {"floor_number": 3, "area": "120.5", "tenant_id": "t-3", "tenant_name": "株式会社サンプル商事",
     "terms": {"rent": "520000", "common_charge": "60000", "deposit": "3120000", "key_money": "0"},
     "contract_start_date": "2023-01-01", "contract_end_date": "2025-12-31"},
    {"floor_number": 4, "area": "120.5", "tenant_id": "t-4", "tenant_name": "東京デザイン事務所",
     "terms": {"rent": "510000", "common_charge": "60000", "deposit": "3060000", "key_money": "0"},
     "contract_start_date": "2024-07-01", "contract_end_date": "2026-06-30"},
    {"floor_number": 5, "area": "120.5"},
    {"floor_number": 6, "area": "120.5", "tenant_id": "t-6", "tenant_name": "日本橋会計事務所",
     "terms": {"rent": "530000", "common_charge": "60000", "deposit": "3180000", "key_money": "0"},
     "contract_start_date": "2021-10-01", "contract_end_date": "2025-09-30"},
    {"floor_number": 7, "area": "98.0", "tenant_id": "t-7", "tenant_name": "株式会社ワープテック",
     "terms": {"rent": "470000", "common_charge": "50000", "deposit": "2820000", "key_money": "0"},
     "contract_start_date": "2024-04-01"},
    {"floor_number": 8, "area": "98.0"}
  ]
}`

// VacantBuildingJSON generates a definition with floors 1..count, all vacant
// with the same area.
func VacantBuildingJSON(id, name string, count int, area decimal.Decimal) string {
	bj := BuildingJSON{ID: id, Name: name}
	for n := 1; n <= count; n++ {
		bj.Floors = append(bj.Floors, FloorJSON{Number: n, Area: area})
	}
	data, _ := json.Marshal(bj)
	return string(data)
}
