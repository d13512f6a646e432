package feedback

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
)

func TestTerritoryWriter(t *testing.T) {
	now := time.Duration(0)
	w := NewTerritoryWriter(func() time.Duration { return now }, 300*time.Millisecond, time.Second)

	tr := &core.Territory{ID: 1, X: 10, Y: 20}
	red := color.RGBA{255, 0, 0, 255}

	w.FlashTerritory(tr, red, 200*time.Millisecond)
	assert.Equal(t, red, tr.FlashColor)
	assert.Equal(t, 200*time.Millisecond, tr.FlashUntil)

	w.ShowFloatingText(tr, "+3", time.Second)
	assert.Equal(t, "+3", tr.FloatingText)

	w.SpawnParticles(tr.X, tr.Y, red, 0.5)
	require.Len(t, w.Particles(), 1)

	w.LaunchShips(tr, &core.Territory{ID: 2}, true, 4)
	flights := w.Flights()
	require.Len(t, flights, 1)
	assert.Equal(t, Flight{FromID: 1, ToID: 2, Attack: true, Count: 4}, flights[0])

	now = 500 * time.Millisecond
	assert.Empty(t, w.Particles(), "particles expire")
	assert.Len(t, w.Flights(), 1)

	Expire(tr, now)
	assert.Equal(t, "+3", tr.FloatingText)
	assert.Zero(t, tr.FlashDuration)

	now = 2 * time.Second
	Expire(tr, now)
	assert.Empty(t, tr.FloatingText)
	assert.Empty(t, w.Flights())
}

func TestNop(t *testing.T) {
	var s Sink = Nop{}
	tr := &core.Territory{ID: 1}
	assert.NotPanics(t, func() {
		s.FlashTerritory(tr, color.RGBA{}, time.Second)
		s.ShowFloatingText(tr, "x", time.Second)
		s.SpawnParticles(0, 0, color.RGBA{}, 1)
		s.LaunchShips(tr, tr, false, 1)
	})
	assert.Empty(t, tr.FloatingText)
}
