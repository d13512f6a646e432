package renderer

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/ThroneStar/internal/common"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/combat"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/feedback"
)

var (
	HoverColor     = color.RGBA{255, 255, 255, 64}  // Semi-transparent white
	ContestedColor = color.RGBA{255, 90, 60, 200}   // Battle in progress
	TransferColor  = color.RGBA{120, 220, 255, 255} // Friendly fleets
	AttackColor    = color.RGBA{255, 120, 80, 255}  // Hostile fleets
)

// Overlay is the transient state drawn over the galaxy each frame.
type Overlay struct {
	Flights   []feedback.Flight
	Particles []feedback.Particle
	Battles   []combat.Battle
}

type EnhancedBoardRenderer struct {
	*BoardRenderer

	selected *core.Territory
	hovered  *core.Territory

	// How long a ship takes to cross a lane
	travel time.Duration
}

func NewEnhancedBoardRenderer(starRadius float64, f font.Face, travel time.Duration) *EnhancedBoardRenderer {
	return &EnhancedBoardRenderer{
		BoardRenderer: NewBoardRenderer(starRadius, f),
		travel:        travel,
	}
}

func (ebr *EnhancedBoardRenderer) SetSelection(t *core.Territory) { ebr.selected = t }

func (ebr *EnhancedBoardRenderer) SetHover(t *core.Territory) { ebr.hovered = t }

func (ebr *EnhancedBoardRenderer) SetTravel(d time.Duration) { ebr.travel = d }

func (ebr *EnhancedBoardRenderer) Draw(screen *ebiten.Image, w *core.World, now time.Duration, o Overlay) {
	ebr.BoardRenderer.Draw(screen, w, now)
	ebr.drawOverlays(screen, w, now, o)
}

func (ebr *EnhancedBoardRenderer) drawOverlays(screen *ebiten.Image, w *core.World, now time.Duration, o Overlay) {
	r := float32(ebr.starRadius)

	for _, b := range o.Battles {
		if t, ok := w.Territory(b.TargetID); ok {
			vector.StrokeCircle(screen, float32(t.X), float32(t.Y), r+7, 2, ContestedColor, true)
		}
	}

	for _, f := range o.Flights {
		from, ok1 := w.Territory(f.FromID)
		to, ok2 := w.Territory(f.ToID)
		if !ok1 || !ok2 {
			continue
		}
		x, y := FlightPosition(from, to, Progress(now-f.Started, ebr.travel))
		c := TransferColor
		if f.Attack {
			c = AttackColor
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), shipRadius(f.Count), c, true)
	}

	for _, p := range o.Particles {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(2+4*p.Intensity), p.Color, true)
	}

	if ebr.hovered != nil && ebr.hovered != ebr.selected {
		vector.DrawFilledCircle(screen, float32(ebr.hovered.X), float32(ebr.hovered.Y), r, HoverColor, true)
	}
	if ebr.selected != nil {
		vector.StrokeCircle(screen, float32(ebr.selected.X), float32(ebr.selected.Y), r+5, 3, common.SelectionColor, true)
	}
}

// Progress is the clamped share of travel elapsed.
func Progress(elapsed, travel time.Duration) float64 {
	if travel <= 0 {
		return 1
	}
	return common.Clamp(float64(elapsed)/float64(travel), 0, 1)
}

// FlightPosition interpolates a fleet along its lane.
func FlightPosition(from, to *core.Territory, progress float64) (float64, float64) {
	return common.Lerp(from.X, to.X, progress), common.Lerp(from.Y, to.Y, progress)
}

func shipRadius(count int) float32 {
	return float32(common.Clamp(2+float64(count)/5, 2, 8))
}
