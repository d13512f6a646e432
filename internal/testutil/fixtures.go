package testutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
)

var playerColors = []color.RGBA{
	{R: 220, G: 60, B: 60, A: 255},
	{R: 60, G: 110, B: 220, A: 255},
	{R: 60, G: 190, B: 90, A: 255},
	{R: 220, G: 200, B: 60, A: 255},
}

// CreateTestPlayers creates count players named P0..Pn. Player 0 is human.
func CreateTestPlayers(count int) []*core.Player {
	players := make([]*core.Player, count)
	for i := 0; i < count; i++ {
		players[i] = core.NewPlayer(i, "P"+string(rune('0'+i)), playerColors[i%len(playerColors)])
	}
	if count > 0 {
		players[0].Human = true
	}
	return players
}

// TerritorySpec describes a territory for CreateTestWorld.
type TerritorySpec struct {
	ID     int
	Owner  int
	Armies int
	Throne bool
}

// CreateTestWorld builds a world with the given players and territories and
// connects every pair listed in links.
func CreateTestWorld(t *testing.T, players int, territories []TerritorySpec, links [][2]int) *core.World {
	t.Helper()
	w := core.NewWorld()
	for _, p := range CreateTestPlayers(players) {
		w.AddPlayer(p)
	}
	for i, ts := range territories {
		require.NoError(t, w.AddTerritory(&core.Territory{
			ID:           ts.ID,
			OwnerID:      ts.Owner,
			ArmySize:     ts.Armies,
			IsThroneStar: ts.Throne,
			X:            float64(i * 40),
			Y:            float64((i % 2) * 40),
		}))
	}
	for _, l := range links {
		require.NoError(t, w.Connect(l[0], l[1]))
	}
	return w
}

// CreateSimpleTestSetup builds two empires with a neutral star between them:
//
//	1 (P0 throne, 11) - 2 (P0, 4) - 3 (neutral, 3) - 4 (P1, 4) - 5 (P1 throne, 6)
func CreateSimpleTestSetup(t *testing.T) *core.World {
	t.Helper()
	return CreateTestWorld(t, 2, []TerritorySpec{
		{ID: 1, Owner: 0, Armies: 11, Throne: true},
		{ID: 2, Owner: 0, Armies: 4},
		{ID: 3, Owner: core.NeutralID, Armies: 3},
		{ID: 4, Owner: 1, Armies: 4},
		{ID: 5, Owner: 1, Armies: 6, Throne: true},
	}, [][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 5}})
}
