package core

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld()
	w.AddPlayer(NewPlayer(0, "Red", color.RGBA{200, 50, 50, 255}))
	w.AddPlayer(NewPlayer(1, "Blue", color.RGBA{50, 100, 200, 255}))

	require.NoError(t, w.AddTerritory(&Territory{ID: 1, OwnerID: 0, ArmySize: 5, IsThroneStar: true}))
	require.NoError(t, w.AddTerritory(&Territory{ID: 2, OwnerID: 0, ArmySize: 3}))
	require.NoError(t, w.AddTerritory(&Territory{ID: 3, OwnerID: NeutralID, ArmySize: 2}))
	require.NoError(t, w.AddTerritory(&Territory{ID: 4, OwnerID: 1, ArmySize: 4, IsThroneStar: true}))
	require.NoError(t, w.Connect(1, 2))
	require.NoError(t, w.Connect(2, 3))
	require.NoError(t, w.Connect(3, 4))
	return w
}

func TestWorld_AddTerritory(t *testing.T) {
	w := newTestWorld(t)

	p0, ok := w.Player(0)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, p0.TerritoryIDs())

	err := w.AddTerritory(&Territory{ID: 1})
	assert.Error(t, err, "duplicate IDs are rejected")

	err = w.AddTerritory(&Territory{ID: 9, OwnerID: 7})
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	assert.NoError(t, w.CheckInvariants())
}

func TestWorld_ConnectIsSymmetric(t *testing.T) {
	w := newTestWorld(t)

	t2, _ := w.Territory(2)
	t3, _ := w.Territory(3)
	assert.True(t, t2.IsNeighbor(3))
	assert.True(t, t3.IsNeighbor(2))

	require.NoError(t, w.Connect(2, 3))
	assert.Len(t, t2.Neighbors, 2, "reconnecting does not duplicate edges")

	assert.ErrorIs(t, w.Connect(2, 99), ErrMissingTerritory)
}

func TestWorld_SetOwner(t *testing.T) {
	w := newTestWorld(t)
	neutral, _ := w.Territory(3)

	require.NoError(t, w.SetOwner(neutral, 1))
	p1, _ := w.Player(1)
	assert.True(t, p1.Owns(3))
	assert.Equal(t, 1, neutral.OwnerID)

	owned, _ := w.Territory(2)
	require.NoError(t, w.SetOwner(owned, 1))
	p0, _ := w.Player(0)
	assert.False(t, p0.Owns(2))
	assert.True(t, p1.Owns(2))

	assert.ErrorIs(t, w.SetOwner(owned, 42), ErrInvalidPlayer)
	assert.Equal(t, 1, owned.OwnerID, "failed SetOwner leaves ownership untouched")

	require.NoError(t, w.SetOwner(owned, NeutralID))
	assert.False(t, p1.Owns(2))
	assert.NoError(t, w.CheckInvariants())
}

func TestWorld_Eliminate(t *testing.T) {
	w := newTestWorld(t)
	p1, _ := w.Player(1)
	throne, _ := w.Territory(4)

	require.NoError(t, w.SetOwner(throne, 0))
	require.NoError(t, w.Eliminate(1))

	assert.True(t, p1.Eliminated)
	assert.False(t, p1.IsAlive())
	assert.Zero(t, p1.TerritoryCount())
	assert.Equal(t, 1, w.AlivePlayers())
	assert.ErrorIs(t, w.Eliminate(9), ErrInvalidPlayer)
}

func TestWorld_ThroneOf(t *testing.T) {
	w := newTestWorld(t)

	throne, ok := w.ThroneOf(1)
	require.True(t, ok)
	assert.Equal(t, 4, throne.ID)

	throne.IsThroneStar = false
	_, ok = w.ThroneOf(1)
	assert.False(t, ok)

	_, ok = w.ThroneOf(5)
	assert.False(t, ok)
}

func TestWorld_Remove(t *testing.T) {
	w := newTestWorld(t)
	w.Remove(2)

	_, ok := w.Territory(2)
	assert.False(t, ok)
	p0, _ := w.Player(0)
	assert.Equal(t, []int{1}, p0.TerritoryIDs())
	t1, _ := w.Territory(1)
	assert.False(t, t1.IsNeighbor(2))
	assert.NoError(t, w.CheckInvariants())

	w.Remove(2) // removing twice is harmless
}

func TestWorld_CheckInvariants(t *testing.T) {
	t.Run("negative army", func(t *testing.T) {
		w := newTestWorld(t)
		tr, _ := w.Territory(3)
		tr.ArmySize = -1
		assert.ErrorContains(t, w.CheckInvariants(), "negative army")
	})

	t.Run("neutral throne", func(t *testing.T) {
		w := newTestWorld(t)
		tr, _ := w.Territory(3)
		tr.IsThroneStar = true
		assert.ErrorContains(t, w.CheckInvariants(), "unowned throne star")
	})

	t.Run("owner drift", func(t *testing.T) {
		w := newTestWorld(t)
		tr, _ := w.Territory(2)
		tr.OwnerID = 1 // bypasses SetOwner
		err := w.CheckInvariants()
		assert.ErrorContains(t, err, "missing from player 1 set")
		assert.ErrorContains(t, err, "player 0 lists territory 2")
	})

	t.Run("two thrones", func(t *testing.T) {
		w := newTestWorld(t)
		tr, _ := w.Territory(2)
		tr.IsThroneStar = true
		assert.ErrorContains(t, w.CheckInvariants(), "holds 2 throne stars")
	})
}

func TestWorld_OrderedViews(t *testing.T) {
	w := newTestWorld(t)

	var ids []int
	for _, tr := range w.Territories() {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)

	players := w.Players()
	require.Len(t, players, 2)
	assert.Equal(t, 0, players[0].ID)

	_, ok := w.HumanPlayer()
	assert.False(t, ok)
	players[1].Human = true
	human, ok := w.HumanPlayer()
	require.True(t, ok)
	assert.Equal(t, 1, human.ID)
}
