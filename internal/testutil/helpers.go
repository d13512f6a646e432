package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// FixedRNG replays a fixed sequence of rolls, repeating the last one.
type FixedRNG struct {
	Rolls []float64
	next  int
}

// AttackerWins returns a source whose every roll beats any win chance.
func AttackerWins() *FixedRNG { return &FixedRNG{Rolls: []float64{0}} }

// DefenderWins returns a source whose every roll loses for the attacker.
func DefenderWins() *FixedRNG { return &FixedRNG{Rolls: []float64{0.999}} }

func (r *FixedRNG) Float64() float64 {
	if len(r.Rolls) == 0 {
		return 0
	}
	v := r.Rolls[min(r.next, len(r.Rolls)-1)]
	r.next++
	return v
}

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}
