package renderer

import (
	"image/color"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/ThroneStar/internal/common"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
)

var (
	ArmyTextColor     = color.White
	FloatingTextColor = color.RGBA{255, 240, 160, 255}
)

type BoardRenderer struct {
	starRadius  float64
	defaultFont font.Face
	neutral     color.RGBA
	lane        color.RGBA
	showIDs     bool
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer(starRadius float64, f font.Face) *BoardRenderer {
	return &BoardRenderer{
		starRadius:  starRadius,
		defaultFont: f,
		neutral:     common.PlayerColor(core.NeutralID),
		lane:        common.LaneColor,
	}
}

// SetColors overrides the neutral and lane colors.
func (br *BoardRenderer) SetColors(neutral, lane color.RGBA) {
	br.neutral, br.lane = neutral, lane
}

// SetShowIDs draws territory IDs under the army counts.
func (br *BoardRenderer) SetShowIDs(show bool) { br.showIDs = show }

// Draw renders lanes, then stars with their labels.
func (br *BoardRenderer) Draw(screen *ebiten.Image, w *core.World, now time.Duration) {
	territories := w.Territories()

	for _, t := range territories {
		for _, n := range t.Neighbors {
			if n < t.ID {
				continue // each lane once
			}
			other, ok := w.Territory(n)
			if !ok {
				continue
			}
			vector.StrokeLine(screen, float32(t.X), float32(t.Y), float32(other.X), float32(other.Y), 2, br.lane, true)
		}
	}

	r := float32(br.starRadius)
	for _, t := range territories {
		x, y := float32(t.X), float32(t.Y)
		vector.DrawFilledCircle(screen, x, y, r, StarColor(t, w, now, br.neutral), true)
		if t.IsThroneStar {
			vector.StrokeCircle(screen, x, y, r+3, 2, common.ThroneRingColor, true)
		}
		br.drawLabels(screen, t, now)
	}
}

func (br *BoardRenderer) drawLabels(screen *ebiten.Image, t *core.Territory, now time.Duration) {
	if br.defaultFont == nil {
		return
	}
	br.drawCentered(screen, strconv.Itoa(t.ArmySize), t.X, t.Y, ArmyTextColor)
	if br.showIDs {
		br.drawCentered(screen, "#"+strconv.Itoa(t.ID), t.X, t.Y+br.starRadius+12, common.LabelColor)
	}
	if t.FloatingText != "" && now < t.FloatingTextUntil {
		br.drawCentered(screen, t.FloatingText, t.X, t.Y-br.starRadius-8, FloatingTextColor)
	}
}

func (br *BoardRenderer) drawCentered(screen *ebiten.Image, s string, cx, cy float64, c color.Color) {
	b := text.BoundString(br.defaultFont, s)
	textW := b.Max.X - b.Min.X
	textH := b.Max.Y - b.Min.Y
	text.Draw(screen, s, br.defaultFont, int(cx)-textW/2, int(cy)+textH/2, c)
}

// StarColor is the owner's color, blended toward a live flash.
func StarColor(t *core.Territory, w *core.World, now time.Duration, neutral color.RGBA) color.RGBA {
	base := neutral
	if p, ok := w.Player(t.OwnerID); ok {
		base = p.Color
	}
	if f := FlashFraction(t, now); f > 0 {
		return common.Blend(base, t.FlashColor, f)
	}
	return base
}

// FlashFraction is how much of a flash remains, from 1 when it starts to 0.
func FlashFraction(t *core.Territory, now time.Duration) float64 {
	if t.FlashDuration <= 0 || now >= t.FlashUntil {
		return 0
	}
	return common.Clamp(float64(t.FlashUntil-now)/float64(t.FlashDuration), 0, 1)
}
