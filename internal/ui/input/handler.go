// Package input adapts ebiten mouse and keyboard state into selection inputs
// for the local player's state machine.
package input

import (
	"github.com/mitchelldurbincs/ThroneStar/internal/common"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	gameinput "github.com/mitchelldurbincs/ThroneStar/internal/game/input"
)

// Frame is one tick of pointer and keyboard state.
type Frame struct {
	X, Y         float64
	LeftPressed  bool
	LeftReleased bool
	RightPressed bool
	Shift        bool
	Ctrl         bool
	Escape       bool
}

// Target receives the translated inputs. *session.Session satisfies it.
type Target interface {
	Tap(t *core.Territory, mods gameinput.Modifier)
	Inspect(t *core.Territory)
	Key(k gameinput.Key)
	Selected() *core.Territory
}

type Handler struct {
	starRadius float64

	// Territory under the pointer when the left button went down
	pressed    *core.Territory
	hasPressed bool

	hovered *core.Territory
}

func NewHandler(starRadius float64) *Handler {
	return &Handler{starRadius: starRadius}
}

// Update polls ebiten and forwards the result to target.
func (h *Handler) Update(w *core.World, target Target) {
	h.Apply(PollFrame(), w, target)
}

// Apply translates one frame. A click is a tap on the star under the pointer
// (nil over empty space). Pressing on one star and releasing on another is a
// drag: the source is selected first if needed, then the target is tapped.
// Another star's selection is dropped before the source is tapped, so the
// drag never commands from it.
func (h *Handler) Apply(f Frame, w *core.World, target Target) {
	under := h.Pick(w, f.X, f.Y)
	h.hovered = under
	mods := Modifiers(f.Shift, f.Ctrl)

	if f.Escape {
		target.Key(gameinput.KeyEscape)
	}
	if f.RightPressed {
		target.Inspect(under)
	}
	if f.LeftPressed {
		h.pressed, h.hasPressed = under, true
	}
	if !f.LeftReleased {
		return
	}

	from := h.pressed
	dragged := h.hasPressed && from != nil && under != nil && from != under
	h.pressed, h.hasPressed = nil, false

	if dragged {
		if sel := target.Selected(); sel != from {
			if sel != nil {
				target.Key(gameinput.KeyEscape)
			}
			target.Tap(from, gameinput.ModNone)
		}
		// Dragging from a star the player cannot select taps nothing useful
		if target.Selected() != from {
			return
		}
	}
	target.Tap(under, mods)
}

// Pick returns the star whose disc contains the point, preferring the
// closest center when discs overlap.
func (h *Handler) Pick(w *core.World, x, y float64) *core.Territory {
	var best *core.Territory
	bestDist := 0.0
	for _, t := range w.Territories() {
		if !common.InCircle(x, y, t.X, t.Y, h.starRadius) {
			continue
		}
		if d := common.Dist2(x, y, t.X, t.Y); best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// Hovered returns the star under the pointer as of the last frame.
func (h *Handler) Hovered() *core.Territory { return h.hovered }

// Modifiers maps held keys to fleet-share modifiers: shift sends everything,
// ctrl a quarter.
func Modifiers(shift, ctrl bool) gameinput.Modifier {
	mods := gameinput.ModNone
	if shift {
		mods |= gameinput.ModFull
	}
	if ctrl {
		mods |= gameinput.ModQuarter
	}
	return mods
}
