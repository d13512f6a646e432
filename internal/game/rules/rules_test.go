package rules

import (
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
)

func TestCheckGameOver(t *testing.T) {
	tests := []struct {
		name       string
		original   int
		eliminated []bool
		gameOver   bool
		winner     int
	}{
		{"two alive", 2, []bool{false, false}, false, -1},
		{"last empire standing", 3, []bool{true, false, true}, true, 1},
		{"everyone fallen", 2, []bool{true, true}, true, -1},
		{"solo survives", 1, []bool{false}, false, -1},
		{"solo fallen", 1, []bool{true}, true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var players []*core.Player
			for i, dead := range tt.eliminated {
				p := core.NewPlayer(i, "p", color.RGBA{})
				p.Eliminated = dead
				players = append(players, p)
			}

			wc := NewEliminationChecker(zerolog.Nop(), tt.original)
			over, winner := wc.CheckGameOver(AsPlayers(players))
			assert.Equal(t, tt.gameOver, over)
			assert.Equal(t, tt.winner, winner)
		})
	}
}

func TestTechBonus(t *testing.T) {
	b := DefaultTechBonus()

	assert.Zero(t, b.AttackBonus(nil), "neutral contributes nothing")
	assert.Zero(t, b.DefenseBonus(nil))

	p := core.NewPlayer(0, "p", color.RGBA{})
	assert.Zero(t, b.AttackBonus(p))

	p.Tech = core.Tech{AttackLevel: 2, DefenseLevel: 9}
	assert.InDelta(t, 0.10, b.AttackBonus(p), 1e-9)
	assert.InDelta(t, 0.20, b.DefenseBonus(p), 1e-9, "capped")

	p.Tech.AttackLevel = -3
	assert.Zero(t, b.AttackBonus(p))

	var none NoBonus
	assert.Zero(t, none.AttackBonus(p))
	assert.Zero(t, none.DefenseBonus(p))
}

func TestLegalCommands(t *testing.T) {
	w := core.NewWorld()
	w.AddPlayer(core.NewPlayer(0, "Red", color.RGBA{}))
	w.AddPlayer(core.NewPlayer(1, "Blue", color.RGBA{}))
	require.NoError(t, w.AddTerritory(&core.Territory{ID: 1, OwnerID: 0, ArmySize: 5}))
	require.NoError(t, w.AddTerritory(&core.Territory{ID: 2, OwnerID: 0, ArmySize: 1}))
	require.NoError(t, w.AddTerritory(&core.Territory{ID: 3, OwnerID: core.NeutralID, ArmySize: 2}))
	require.NoError(t, w.AddTerritory(&core.Territory{ID: 4, OwnerID: 1, ArmySize: 4}))
	require.NoError(t, w.Connect(1, 2))
	require.NoError(t, w.Connect(1, 3))
	require.NoError(t, w.Connect(2, 4))

	lmc := NewLegalMoveCalculator()
	p0, _ := w.Player(0)

	cmds := lmc.LegalCommands(w, p0)
	assert.Equal(t, []Command{
		{SourceID: 1, TargetID: 2, Attack: false},
		{SourceID: 1, TargetID: 3, Attack: true},
	}, cmds, "territory 2 has a single ship and cannot launch")

	p0.Eliminated = true
	assert.Empty(t, lmc.LegalCommands(w, p0))
}
