package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/combat"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/rules"
	"github.com/mitchelldurbincs/ThroneStar/internal/testutil"
)

type order struct {
	attack         bool
	source, target int
}

type fakeCommander struct {
	orders []order
}

func (c *fakeCommander) AttackByID(s, d, _ int) (combat.Launch, error) {
	c.orders = append(c.orders, order{true, s, d})
	return combat.Launch{ID: "x"}, nil
}

func (c *fakeCommander) TransferByID(s, d, _ int) (combat.Launch, error) {
	c.orders = append(c.orders, order{false, s, d})
	return combat.Launch{ID: "x"}, nil
}

func newAutopilot(t *testing.T, w *core.World, cmd Commander, focus float64) *Autopilot {
	t.Helper()
	return NewAutopilot(Config{
		PlayerID:      1,
		World:         w,
		Commander:     cmd,
		Rng:           testutil.NewTestRNG(3),
		Logger:        testutil.NopLogger(),
		ThinkInterval: 100 * time.Millisecond,
		ActRate:       1,
		Focus:         focus,
	})
}

func TestAutopilotThinksOnInterval(t *testing.T) {
	w := testutil.CreateSimpleTestSetup(t)
	cmd := &fakeCommander{}
	a := newAutopilot(t, w, cmd, 0.0001)

	assert.False(t, a.Update(60*time.Millisecond))
	assert.Empty(t, cmd.orders)

	assert.True(t, a.Update(40*time.Millisecond))
	require.Len(t, cmd.orders, 1)

	legal := rules.NewLegalMoveCalculator().LegalCommands(w, mustPlayer(t, w, 1))
	var found bool
	for _, c := range legal {
		if c.SourceID == cmd.orders[0].source && c.TargetID == cmd.orders[0].target {
			found = true
		}
	}
	assert.True(t, found, "autopilot only issues legal commands")
}

func TestAutopilotAdvancesOnNearestThrone(t *testing.T) {
	w := testutil.CreateSimpleTestSetup(t)
	cmd := &fakeCommander{}
	a := newAutopilot(t, w, cmd, 1)

	require.True(t, a.Update(100*time.Millisecond))
	target, ok := a.Target()
	require.True(t, ok)
	assert.Equal(t, 1, target, "player 0's throne")

	// From 4 the lanes lead to 3 and 5; 3 is closer to the throne at 1.
	assert.Equal(t, order{true, 4, 3}, cmd.orders[0])
}

func TestAutopilotCacheInvalidatedOnElimination(t *testing.T) {
	w := testutil.CreateSimpleTestSetup(t)
	a := newAutopilot(t, w, &fakeCommander{}, 1)
	require.True(t, a.Update(100*time.Millisecond))
	_, ok := a.Target()
	require.True(t, ok)

	bus := events.NewEventBus()
	bus.Subscribe(a)
	bus.Publish(events.NewBattleCompletedEvent("g", "b", true, 1, 2, 0, 1, 3, 0))
	_, ok = a.Target()
	assert.True(t, ok, "ordinary battles keep the cache")

	bus.Publish(events.NewPlayerEliminatedEvent("g", 0, 1, 3, 0))
	_, ok = a.Target()
	assert.False(t, ok)
}

func TestAutopilotIdleWhenEliminated(t *testing.T) {
	w := testutil.CreateSimpleTestSetup(t)
	mustPlayer(t, w, 1).Eliminated = true
	cmd := &fakeCommander{}
	a := newAutopilot(t, w, cmd, 1)

	assert.False(t, a.Update(time.Second))
	assert.Empty(t, cmd.orders)
}

func TestAutopilotsFinishAGame(t *testing.T) {
	w := testutil.CreateSimpleTestSetup(t)
	engine, err := combat.NewEngine(combat.EngineConfig{
		World:  w,
		Rng:    testutil.NewTestRNG(11),
		Logger: testutil.NopLogger(),
	})
	require.NoError(t, err)

	pilots := []*Autopilot{}
	for _, p := range w.Players() {
		pilots = append(pilots, NewAutopilot(Config{
			PlayerID:      p.ID,
			World:         w,
			Commander:     engine,
			Rng:           testutil.NewTestRNG(int64(20 + p.ID)),
			Logger:        testutil.NopLogger(),
			ThinkInterval: 200 * time.Millisecond,
		}))
	}

	for step := 0; step < 20000 && !engine.IsGameOver(); step++ {
		for _, a := range pilots {
			a.Update(50 * time.Millisecond)
		}
		engine.Update(50 * time.Millisecond)
		require.NoError(t, w.CheckInvariants())
	}
	// Either empire may win; what matters is that the run stays consistent.
	if engine.IsGameOver() {
		assert.Equal(t, 1, w.AlivePlayers())
	}
}

func mustPlayer(t *testing.T, w *core.World, id int) *core.Player {
	t.Helper()
	p, ok := w.Player(id)
	require.True(t, ok)
	return p
}
