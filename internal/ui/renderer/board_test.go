package renderer

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/testutil"
)

var neutral = color.RGBA{120, 120, 120, 255}

func TestStarColor(t *testing.T) {
	w := testutil.CreateSimpleTestSetup(t)
	owned, _ := w.Territory(1)
	empty, _ := w.Territory(3)
	p0, _ := w.Player(0)

	assert.Equal(t, p0.Color, StarColor(owned, w, 0, neutral))
	assert.Equal(t, neutral, StarColor(empty, w, 0, neutral))

	empty.FlashColor = color.RGBA{255, 255, 255, 255}
	empty.FlashDuration = 100 * time.Millisecond
	empty.FlashUntil = 100 * time.Millisecond
	assert.Equal(t, empty.FlashColor, StarColor(empty, w, 0, neutral), "full flash at start")
	assert.Equal(t, neutral, StarColor(empty, w, 100*time.Millisecond, neutral), "flash over")
}

func TestFlashFraction(t *testing.T) {
	tr := &core.Territory{FlashDuration: 200 * time.Millisecond, FlashUntil: time.Second}

	assert.Equal(t, 0.5, FlashFraction(tr, 900*time.Millisecond))
	assert.Equal(t, 1.0, FlashFraction(tr, 0), "clamped")
	assert.Zero(t, FlashFraction(tr, time.Second))
	assert.Zero(t, FlashFraction(&core.Territory{}, 0))
}

func TestFlightPosition(t *testing.T) {
	from := &core.Territory{X: 0, Y: 0}
	to := &core.Territory{X: 100, Y: 40}

	x, y := FlightPosition(from, to, Progress(250*time.Millisecond, time.Second))
	assert.InDelta(t, 25.0, x, 1e-9)
	assert.InDelta(t, 10.0, y, 1e-9)

	assert.Equal(t, 1.0, Progress(2*time.Second, time.Second))
	assert.Equal(t, 0.0, Progress(-time.Second, time.Second))
	assert.Equal(t, 1.0, Progress(0, 0))
}

func TestNewEnhancedBoardRenderer(t *testing.T) {
	ebr := NewEnhancedBoardRenderer(18, nil, time.Second)
	require.NotNil(t, ebr.BoardRenderer)
	assert.Equal(t, 18.0, ebr.starRadius)

	tr := &core.Territory{ID: 7}
	ebr.SetSelection(tr)
	ebr.SetHover(nil)
	assert.Same(t, tr, ebr.selected)
	assert.Nil(t, ebr.hovered)
}
