package states

import "fmt"

// GamePhase is where a session is in its lifecycle.
type GamePhase int

const (
	PhaseInitializing GamePhase = iota // galaxy generated, not yet started
	PhaseRunning                       // clock advancing, commands accepted
	PhasePaused                        // clock stopped, input ignored
	PhaseEnded                         // decided; a throne fell or time ran out
	PhaseError                         // session cannot continue
	PhaseReset                         // tearing down before a restart
)

var phaseNames = [...]string{
	PhaseInitializing: "Initializing",
	PhaseRunning:      "Running",
	PhasePaused:       "Paused",
	PhaseEnded:        "Ended",
	PhaseError:        "Error",
	PhaseReset:        "Reset",
}

// transitions lists, per phase, the phases it may move to.
var transitions = map[GamePhase][]GamePhase{
	PhaseInitializing: {PhaseRunning, PhaseError},
	PhaseRunning:      {PhasePaused, PhaseEnded, PhaseError},
	PhasePaused:       {PhaseRunning, PhaseEnded, PhaseError},
	PhaseEnded:        {PhaseReset},
	PhaseError:        {PhaseReset},
	PhaseReset:        {PhaseInitializing},
}

func (p GamePhase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Unknown(%d)", int(p))
}

// IsTerminal reports whether only a reset can leave p.
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveCommands reports whether player input is processed in p.
func (p GamePhase) CanReceiveCommands() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the phases reachable from p in one step.
func (p GamePhase) AllowedTransitions() []GamePhase {
	return append([]GamePhase(nil), transitions[p]...)
}

func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, next := range transitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// ParsePhase is the inverse of String. Unknown names map to
// PhaseInitializing.
func ParsePhase(s string) GamePhase {
	for i, name := range phaseNames {
		if name == s {
			return GamePhase(i)
		}
	}
	return PhaseInitializing
}
