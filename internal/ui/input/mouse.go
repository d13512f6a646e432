package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

func IsLeftClickJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func IsLeftClickJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

func IsRightClickJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
}

func GetCursorPosition() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

// PollFrame reads this tick's pointer and keyboard state from ebiten.
func PollFrame() Frame {
	x, y := GetCursorPosition()
	return Frame{
		X:            x,
		Y:            y,
		LeftPressed:  IsLeftClickJustPressed(),
		LeftReleased: IsLeftClickJustReleased(),
		RightPressed: IsRightClickJustPressed(),
		Shift:        ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:         ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta),
		Escape:       inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
}
