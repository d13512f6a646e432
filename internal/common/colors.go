package common

import (
	"image/color"
)

// PlayerColors defines the default color scheme for each player
var PlayerColors = map[int]color.RGBA{
	-1: {120, 120, 120, 255}, // Neutral – gray
	0:  {220, 60, 60, 255},   // Red
	1:  {60, 110, 220, 255},  // Blue
	2:  {60, 190, 90, 255},   // Green
	3:  {220, 200, 60, 255},  // Yellow
}

// UI colors
var (
	BackgroundColor = color.RGBA{8, 8, 20, 255}
	LaneColor       = color.RGBA{40, 40, 70, 255}
	ThroneRingColor = color.RGBA{255, 215, 0, 255}
	SelectionColor  = color.RGBA{255, 255, 255, 255}
	LabelColor      = color.White
)

// RGB converts a config triple to an opaque color
func RGB(c [3]int) color.RGBA {
	return color.RGBA{R: clampByte(c[0]), G: clampByte(c[1]), B: clampByte(c[2]), A: 255}
}

// PlayerColor looks up the default color for a player, falling back to neutral
func PlayerColor(id int) color.RGBA {
	if c, ok := PlayerColors[id]; ok {
		return c
	}
	return PlayerColors[-1]
}

// Palette builds player colors from config triples, cycling when there are
// more players than entries
func Palette(colors [][3]int, players int) []color.RGBA {
	out := make([]color.RGBA, players)
	for i := range out {
		if len(colors) == 0 {
			out[i] = PlayerColor(i)
			continue
		}
		out[i] = RGB(colors[i%len(colors)])
	}
	return out
}

// Blend mixes c toward target by t in [0,1]
func Blend(c, target color.RGBA, t float64) color.RGBA {
	t = Clamp(t, 0, 1)
	mix := func(a, b uint8) uint8 {
		return uint8(Lerp(float64(a), float64(b), t) + 0.5)
	}
	return color.RGBA{
		R: mix(c.R, target.R),
		G: mix(c.G, target.G),
		B: mix(c.B, target.B),
		A: mix(c.A, target.A),
	}
}

func clampByte(v int) uint8 {
	return uint8(ClampInt(v, 0, 255))
}
