package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/building-console/building"
)

func newTestStore(t *testing.T) *Store {
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testFloors() (building.Building, []building.Floor) {
	b := building.Building{ID: "bldg-1", Name: "Test"}
	return b, []building.Floor{
		{Number: 2, Area: decimal.NewFromInt(100), Status: building.FloorVacant},
		{Number: 3, Area: decimal.NewFromInt(100), Status: building.FloorOccupied, TenantName: "A社",
			ContractEndDate: building.DatePtr(building.MustParseDate("2025-12-31"))},
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.LoadSnapshot(context.Background(), building.SnapshotKey)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveSnapshot_RoundTripsThroughStore(t *testing.T) {
	// GIVEN: A domain store persisting to SQLite
	ctx := context.Background()
	db := newTestStore(t)
	b, floors := testFloors()
	clock := func() time.Time { return time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC) }

	s, err := building.Open(ctx, b, floors, building.WithPersister(db), building.WithClock(clock))
	require.NoError(t, err)

	// WHEN: Mutating it
	_, err = s.ReserveViewing(ctx, building.ViewingInput{
		FloorNumber:   2,
		Date:          building.MustParseDate("2025-08-10"),
		TimeSlot:      building.TimeSlot{Start: "10:00", End: "11:00"},
		BrokerCompany: "A不動産",
	})
	require.NoError(t, err)

	// THEN: A second store opened on the same database sees the change
	reopened, err := building.Open(ctx, b, floors, building.WithPersister(db), building.WithClock(clock))
	require.NoError(t, err)
	require.Len(t, reopened.Reservations(), 1)
	assert.Equal(t, "10:00", reopened.Reservations()[0].TimeSlot.Start)
	assert.Equal(t, s.ActivityLogs(), reopened.ActivityLogs())

	floor, ok := reopened.Floor(3)
	require.True(t, ok)
	assert.Equal(t, "2025-12-31", floor.ContractEndDate.String())
	assert.True(t, decimal.NewFromInt(100).Equal(floor.Area))
}

func TestStoreReset_ReseedsDatabase(t *testing.T) {
	// GIVEN: A mutated store and a stray snapshot in the same database
	ctx := context.Background()
	db := newTestStore(t)
	b, floors := testFloors()
	require.NoError(t, db.SaveSnapshot(ctx, "stray", building.Snapshot{Version: building.SnapshotVersion}))

	s, err := building.Open(ctx, b, floors, building.WithPersister(db))
	require.NoError(t, err)
	_, err = s.MoveOut(ctx, 3)
	require.NoError(t, err)

	// WHEN: Resetting the domain store
	require.NoError(t, s.Reset(ctx))

	// THEN: The stray key is gone and the seed is what a reopen sees
	_, ok, err := db.SavedAt(ctx, "stray")
	require.NoError(t, err)
	assert.False(t, ok)

	reopened, err := building.Open(ctx, b, floors, building.WithPersister(db))
	require.NoError(t, err)
	floor, _ := reopened.Floor(3)
	assert.True(t, floor.IsOccupied())
	assert.Empty(t, reopened.ActivityLogs())
}

func TestSaveSnapshot_Overwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	store.now = func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, store.SaveSnapshot(ctx, "k", building.Snapshot{Version: 1, Building: building.Building{Name: "first"}}))
	store.now = func() time.Time { return time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, store.SaveSnapshot(ctx, "k", building.Snapshot{Version: 1, Building: building.Building{Name: "second"}}))

	snap, err := store.LoadSnapshot(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "second", snap.Building.Name)

	savedAt, ok, err := store.SavedAt(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, savedAt.Day())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveSnapshot(ctx, "k", building.Snapshot{Version: 1}))

	require.NoError(t, store.Reset(ctx))

	snap, err := store.LoadSnapshot(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, snap)
	_, ok, err := store.SavedAt(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
