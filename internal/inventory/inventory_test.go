package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking-gateway/internal/model"
)

func seats() []model.Seat {
	return []model.Seat{
		{ID: 10, Label: "N10", Category: model.CategoryNormal, Price: 150, Status: model.SeatAvailable},
		{ID: 11, Label: "N2", Category: model.CategoryNormal, Price: 150, Status: model.SeatAvailable},
		{ID: 20, Label: "R1", Category: model.CategoryRecliner, Price: 500, Status: model.SeatAvailable},
		{ID: 30, Label: "P1", Category: model.CategoryPremium, Price: 350, Status: model.SeatBooked},
		{ID: 40, Label: "E1", Category: model.CategoryExecutive, Price: 250, Status: model.SeatAvailable},
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New(1, []model.Seat{
		{ID: 5, Label: "A1"},
		{ID: 5, Label: "A2"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate seat id")
}

func TestSeatLookup(t *testing.T) {
	inv, err := New(1, seats())
	require.NoError(t, err)

	s, ok := inv.Seat(20)
	require.True(t, ok)
	assert.Equal(t, "R1", s.Label)

	_, ok = inv.Seat(999)
	assert.False(t, ok)
	assert.Equal(t, 5, inv.Len())
	assert.EqualValues(t, 1, inv.ShowID())
}

func TestByCategoryFollowsPrecedenceThenLabel(t *testing.T) {
	inv, err := New(1, seats())
	require.NoError(t, err)

	groups := inv.ByCategory()
	require.Len(t, groups, 4)
	assert.Equal(t, model.CategoryRecliner, groups[0].Category)
	assert.Equal(t, model.CategoryPremium, groups[1].Category)
	assert.Equal(t, model.CategoryExecutive, groups[2].Category)
	assert.Equal(t, model.CategoryNormal, groups[3].Category)

	// Natural label order within a group: N2 before N10.
	normals := groups[3].Seats
	require.Len(t, normals, 2)
	assert.Equal(t, "N2", normals[0].Label)
	assert.Equal(t, "N10", normals[1].Label)
}

func TestReconcileOverwritesAndSignalsRemovals(t *testing.T) {
	inv, err := New(1, seats())
	require.NoError(t, err)

	removed := inv.Reconcile([]model.Seat{
		{ID: 10, Label: "N10", Category: model.CategoryNormal, Price: 150, Status: model.SeatBooked},
		{ID: 20, Label: "R1", Category: model.CategoryRecliner, Price: 500, Status: model.SeatLocked},
		{ID: 999, Label: "ghost", Status: model.SeatBooked}, // unknown, ignored
	})
	assert.ElementsMatch(t, []uint64{10, 20}, removed)

	s, ok := inv.Seat(10)
	require.True(t, ok)
	assert.Equal(t, model.SeatBooked, s.Status)

	// Seats absent from the update are untouched.
	s, ok = inv.Seat(11)
	require.True(t, ok)
	assert.Equal(t, model.SeatAvailable, s.Status)
}

func TestReconcileAvailableSeatIsNotSignalled(t *testing.T) {
	inv, err := New(1, seats())
	require.NoError(t, err)

	removed := inv.Reconcile([]model.Seat{
		{ID: 30, Label: "P1", Category: model.CategoryPremium, Price: 350, Status: model.SeatAvailable},
	})
	assert.Empty(t, removed)

	s, _ := inv.Seat(30)
	assert.Equal(t, model.SeatAvailable, s.Status)
}

func TestReplaceSwapsSnapshotWholesale(t *testing.T) {
	inv, err := New(1, seats())
	require.NoError(t, err)

	require.NoError(t, inv.Replace([]model.Seat{
		{ID: 70, Label: "A1", Category: model.CategoryNormal, Price: 100, Status: model.SeatAvailable},
	}))
	assert.Equal(t, 1, inv.Len())
	_, ok := inv.Seat(10)
	assert.False(t, ok)

	// A bad snapshot leaves the previous one in place.
	err = inv.Replace([]model.Seat{{ID: 70}, {ID: 70}})
	require.Error(t, err)
	assert.Equal(t, 1, inv.Len())
	_, ok = inv.Seat(70)
	assert.True(t, ok)
}

func TestSeatsReturnsCopy(t *testing.T) {
	inv, err := New(1, seats())
	require.NoError(t, err)

	out := inv.Seats()
	out[0].Status = model.SeatLocked
	s, _ := inv.Seat(out[0].ID)
	assert.Equal(t, model.SeatAvailable, s.Status)
}
