package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	gameinput "github.com/mitchelldurbincs/ThroneStar/internal/game/input"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/session"
)

// humanHUD shows the local player's selection and keeps the cursor in step
// with the input state machine.
type humanHUD struct {
	defaultFont font.Face
	cursor      gameinput.Cursor
	cursorSet   bool
}

func newHumanHUD(f font.Face) *humanHUD {
	return &humanHUD{defaultFont: f}
}

func (h *humanHUD) update(s *session.Session) {
	c := s.FSM().Cursor()
	if h.cursorSet && c == h.cursor {
		return
	}
	ebiten.SetCursorShape(CursorShape(c))
	h.cursor, h.cursorSet = c, true
}

func (h *humanHUD) draw(screen *ebiten.Image, s *session.Session) {
	fsm := s.FSM()
	line := SelectionHint(fsm.State(), fsm.Selected(), fsm.Tracker().Len())
	height := screen.Bounds().Dy()
	text.Draw(screen, line, h.defaultFont, 8, height-12, color.White)
}

// CursorShape maps the advisory cursor onto ebiten's shapes. ebiten has no
// help cursor, so inspecting an enemy shows a crosshair.
func CursorShape(c gameinput.Cursor) ebiten.CursorShapeType {
	switch c {
	case gameinput.CursorPointer:
		return ebiten.CursorShapePointer
	case gameinput.CursorHelp:
		return ebiten.CursorShapeCrosshair
	default:
		return ebiten.CursorShapeDefault
	}
}

// SelectionHint is the bottom status line for the local player.
func SelectionHint(state gameinput.State, selected *core.Territory, outstanding int) string {
	switch state {
	case gameinput.StateTerritorySelected:
		return fmt.Sprintf("Star %d selected (%d ships): click a target, shift sends all, ctrl a quarter. %d battles pending",
			selected.ID, selected.ArmySize, outstanding)
	case gameinput.StateEnemySelected:
		return fmt.Sprintf("Enemy star %d: %d ships", selected.ID, selected.ArmySize)
	default:
		return "Click one of your stars to select it"
	}
}
