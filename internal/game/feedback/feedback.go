// Package feedback defines the fire-and-forget notifications the simulation
// sends to presentation code.
package feedback

import (
	"image/color"
	"time"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
)

// Sink receives visual notifications. Implementations must not call back into
// the combat engine.
type Sink interface {
	FlashTerritory(t *core.Territory, c color.RGBA, d time.Duration)
	SpawnParticles(x, y float64, c color.RGBA, intensity float64)
	ShowFloatingText(t *core.Territory, text string, d time.Duration)
	LaunchShips(from, to *core.Territory, attack bool, count int)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) FlashTerritory(*core.Territory, color.RGBA, time.Duration) {}
func (Nop) SpawnParticles(float64, float64, color.RGBA, float64)      {}
func (Nop) ShowFloatingText(*core.Territory, string, time.Duration)   {}
func (Nop) LaunchShips(*core.Territory, *core.Territory, bool, int)   {}

// Clock reads the current simulation time.
type Clock func() time.Duration

// Particle is a short-lived burst recorded for the renderer.
type Particle struct {
	X, Y      float64
	Color     color.RGBA
	Intensity float64
	Until     time.Duration
}

// Flight is a ship animation from one territory to another.
type Flight struct {
	FromID, ToID int
	Attack       bool
	Count        int
	Started      time.Duration
}

// TerritoryWriter stores notifications in the territories' transient fields and keeps
// particle and flight lists the renderer drains.
type TerritoryWriter struct {
	now          Clock
	particleLife time.Duration
	flightLife   time.Duration

	particles []Particle
	flights   []Flight
}

// NewTerritoryWriter builds a writer reading time from now.
func NewTerritoryWriter(now Clock, particleLife, flightLife time.Duration) *TerritoryWriter {
	return &TerritoryWriter{
		now:          now,
		particleLife: particleLife,
		flightLife:   flightLife,
	}
}

func (w *TerritoryWriter) FlashTerritory(t *core.Territory, c color.RGBA, d time.Duration) {
	t.FlashColor = c
	t.FlashDuration = d
	t.FlashUntil = w.now() + d
}

func (w *TerritoryWriter) SpawnParticles(x, y float64, c color.RGBA, intensity float64) {
	w.particles = append(w.particles, Particle{
		X: x, Y: y, Color: c, Intensity: intensity,
		Until: w.now() + w.particleLife,
	})
}

func (w *TerritoryWriter) ShowFloatingText(t *core.Territory, text string, d time.Duration) {
	t.FloatingText = text
	t.FloatingTextUntil = w.now() + d
}

func (w *TerritoryWriter) LaunchShips(from, to *core.Territory, attack bool, count int) {
	w.flights = append(w.flights, Flight{
		FromID: from.ID, ToID: to.ID, Attack: attack, Count: count,
		Started: w.now(),
	})
}

// Particles returns live particles, dropping expired ones.
func (w *TerritoryWriter) Particles() []Particle {
	now := w.now()
	live := w.particles[:0]
	for _, p := range w.particles {
		if p.Until > now {
			live = append(live, p)
		}
	}
	w.particles = live
	return live
}

// Flights returns ship animations still in the air.
func (w *TerritoryWriter) Flights() []Flight {
	now := w.now()
	live := w.flights[:0]
	for _, f := range w.flights {
		if now-f.Started < w.flightLife {
			live = append(live, f)
		}
	}
	w.flights = live
	return live
}

// Expire clears territory text and flashes whose time has passed.
func Expire(t *core.Territory, now time.Duration) {
	if t.FloatingText != "" && now >= t.FloatingTextUntil {
		t.FloatingText = ""
	}
	if t.FlashDuration > 0 && now >= t.FlashUntil {
		t.FlashDuration = 0
	}
}

var (
	_ Sink = Nop{}
	_ Sink = (*TerritoryWriter)(nil)
)
