package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
)

// State is one session phase. Validate runs before the move, Exit on the
// phase being left, Enter on the phase being entered.
type State interface {
	Phase() GamePhase
	Enter(ctx *GameContext) error
	Exit(ctx *GameContext) error
	Validate(ctx *GameContext) error
}

// Transition is one entry of the phase history.
type Transition struct {
	From      GamePhase
	To        GamePhase
	Timestamp time.Time
	Reason    string
}

const defaultHistoryLimit = 1000

// StateMachine moves a session through its phases. All methods are safe for
// concurrent use; the UI reads the phase while the sim loop changes it.
type StateMachine struct {
	mu     sync.RWMutex
	phase  GamePhase
	impls  map[GamePhase]State
	ctx    *GameContext
	events events.Publisher

	history        []Transition
	maxHistorySize int
}

// NewStateMachine starts in PhaseInitializing with the built-in states
// registered. A nil publisher discards transition events.
func NewStateMachine(ctx *GameContext, publisher events.Publisher) *StateMachine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	sm := &StateMachine{
		phase:          PhaseInitializing,
		impls:          make(map[GamePhase]State, 6),
		ctx:            ctx,
		events:         publisher,
		maxHistorySize: defaultHistoryLimit,
	}
	for _, s := range []State{
		NewInitializingState(),
		NewRunningState(),
		NewPausedState(),
		NewEndedState(),
		NewErrorState(),
		NewResetState(),
	} {
		sm.impls[s.Phase()] = s
	}
	return sm
}

// RegisterState replaces the implementation for s.Phase().
func (sm *StateMachine) RegisterState(s State) {
	sm.mu.Lock()
	sm.impls[s.Phase()] = s
	sm.mu.Unlock()
}

func (sm *StateMachine) CurrentPhase() GamePhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.phase
}

func (sm *StateMachine) CanTransitionTo(to GamePhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.phase.CanTransitionTo(to)
}

// TransitionTo moves to phase to, recording reason in the history.
func (sm *StateMachine) TransitionTo(to GamePhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.move(to, reason)
}

// move does the work of TransitionTo; callers hold mu.
func (sm *StateMachine) move(to GamePhase, reason string) error {
	from := sm.phase
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	next, ok := sm.impls[to]
	if !ok {
		return fmt.Errorf("no state implementation for phase %s", to)
	}
	if err := next.Validate(sm.ctx); err != nil {
		return fmt.Errorf("cannot enter %s: %w", to, err)
	}

	// A failing Exit is logged only; the session is leaving that phase anyway.
	if cur, ok := sm.impls[from]; ok {
		if err := cur.Exit(sm.ctx); err != nil {
			sm.ctx.Logger.Error().Err(err).
				Str("from_phase", from.String()).
				Str("to_phase", to.String()).
				Msg("Exit hook failed")
		}
	}

	sm.phase = to
	if err := next.Enter(sm.ctx); err != nil {
		sm.phase = from
		return fmt.Errorf("failed to enter state %s: %w", to, err)
	}

	sm.record(Transition{From: from, To: to, Timestamp: sm.ctx.Now(), Reason: reason})
	sm.events.Publish(events.NewStateTransitionEvent(sm.ctx.GameID, from.String(), to.String(), reason))
	sm.ctx.Logger.Info().
		Str("from_phase", from.String()).
		Str("to_phase", to.String()).
		Str("reason", reason).
		Msg("Session phase changed")
	return nil
}

func (sm *StateMachine) record(t Transition) {
	sm.history = append(sm.history, t)
	if n := len(sm.history) - sm.maxHistorySize; n > 0 {
		sm.history = append(sm.history[:0], sm.history[n:]...)
	}
}

// GetHistory returns a copy of the recorded transitions, oldest first.
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]Transition(nil), sm.history...)
}

func (sm *StateMachine) GetContext() *GameContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.ctx
}

// Winner returns the recorded winner, -1 while undecided or for a draw.
func (sm *StateMachine) Winner() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.ctx.Winner
}

// Reset takes a finished session through PhaseReset back to
// PhaseInitializing and forgets the history.
func (sm *StateMachine) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.phase.IsTerminal() {
		return fmt.Errorf("cannot reset from %s", sm.phase)
	}
	if err := sm.move(PhaseReset, "Reset requested"); err != nil {
		return err
	}
	if err := sm.move(PhaseInitializing, "Reset complete"); err != nil {
		return err
	}
	sm.history = sm.history[:0]
	return nil
}

// Fail records err and moves to PhaseError.
func (sm *StateMachine) Fail(err error) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.ctx.Error = err
	return sm.move(PhaseError, err.Error())
}

// End records the result and moves to PhaseEnded.
func (sm *StateMachine) End(winner int, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.ctx.Winner = winner
	sm.ctx.EndReason = reason
	return sm.move(PhaseEnded, reason)
}
