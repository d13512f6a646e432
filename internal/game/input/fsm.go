// Package input turns discrete player input into fleet commands. The FSM
// keeps a single selection and follows the battles it launched so it can
// decide when to let go of the staging territory.
package input

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/combat"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/feedback"
)

// State is the selection state of the FSM.
type State int

const (
	StateDefault State = iota
	StateTerritorySelected
	StateEnemySelected
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "Default"
	case StateTerritorySelected:
		return "TerritorySelected"
	case StateEnemySelected:
		return "EnemySelected"
	default:
		return "Unknown"
	}
}

// Cursor is an advisory pointer style for the renderer.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorHelp
)

// Commander executes validated fleet commands. *combat.Engine satisfies it.
type Commander interface {
	Attack(src, dst *core.Territory, armies int) (combat.Launch, error)
	Transfer(src, dst *core.Territory, armies int) (combat.Launch, error)
}

// Percentages are the fleet shares sent per modifier.
type Percentages struct {
	Base    float64
	Full    float64
	Quarter float64
}

func DefaultPercentages() Percentages {
	return Percentages{Base: 0.5, Full: 1.0, Quarter: 0.25}
}

// Config wires an FSM to the local player.
type Config struct {
	PlayerID          int
	Commander         Commander
	Feedback          feedback.Sink
	Logger            zerolog.Logger
	Percentages       Percentages
	ErrorTextDuration time.Duration
}

// FSM is the selection state machine for one local player. Like the combat
// engine it runs on the simulation goroutine only.
type FSM struct {
	playerID  int
	commander Commander
	feedback  feedback.Sink
	logger    zerolog.Logger
	percent   Percentages
	errorText time.Duration

	state    State
	selected *core.Territory
	tracker  *BattleTracker
}

func NewFSM(cfg Config) *FSM {
	if cfg.Feedback == nil {
		cfg.Feedback = feedback.Nop{}
	}
	if cfg.Percentages == (Percentages{}) {
		cfg.Percentages = DefaultPercentages()
	}
	if cfg.ErrorTextDuration <= 0 {
		cfg.ErrorTextDuration = 1500 * time.Millisecond
	}
	return &FSM{
		playerID:  cfg.PlayerID,
		commander: cfg.Commander,
		feedback:  cfg.Feedback,
		logger:    cfg.Logger.With().Str("component", "InputFSM").Int("player_id", cfg.PlayerID).Logger(),
		percent:   cfg.Percentages,
		errorText: cfg.ErrorTextDuration,
		state:     StateDefault,
		tracker:   NewBattleTracker(),
	}
}

// HandleInput applies one input event.
func (f *FSM) HandleInput(ev Event) {
	switch ev.Kind {
	case KindTap:
		f.onTap(ev.Territory, ev.Mods)
	case KindInspect:
		f.onInspect(ev.Territory)
	case KindKey:
		if ev.Key == KeyEscape {
			f.transition(StateDefault, nil, "escape")
		}
	case KindBattleComplete:
		f.onBattleComplete(ev.BattleID, ev.AttackerWon, ev.AttackingTerritoryID)
	default:
		f.logger.Warn().Int("kind", int(ev.Kind)).Msg("Ignoring unknown input kind")
	}
}

func (f *FSM) onTap(t *core.Territory, mods Modifier) {
	f.dropLostSelection()

	switch f.state {
	case StateDefault:
		if t != nil && f.selectable(t) {
			f.transition(StateTerritorySelected, t, "select")
		}

	case StateTerritorySelected:
		switch {
		case t == nil:
			f.transition(StateDefault, nil, "deselect")
		case t == f.selected:
			// already selected
		default:
			f.command(f.selected, t, mods)
		}

	case StateEnemySelected:
		switch {
		case t == nil:
			f.transition(StateDefault, nil, "deselect")
		case t.IsOwnedBy(f.playerID):
			f.transition(StateTerritorySelected, t, "select")
		default:
			f.transition(StateEnemySelected, t, "inspect")
		}
	}
}

func (f *FSM) onInspect(t *core.Territory) {
	switch {
	case t == nil:
		f.transition(StateDefault, nil, "deselect")
	case !t.IsOwnedBy(f.playerID):
		f.transition(StateEnemySelected, t, "inspect")
	case f.selectable(t):
		f.transition(StateTerritorySelected, t, "select")
	}
}

// selectable is the only eligibility check the FSM makes itself.
func (f *FSM) selectable(t *core.Territory) bool {
	return t.IsOwnedBy(f.playerID) && t.CanLaunch()
}

// command sends ships from src to dst and keeps src selected either way.
func (f *FSM) command(src, dst *core.Territory, mods Modifier) {
	pct := f.SendPercent(mods)
	armies := SendArmies(src.ArmySize, pct)
	attack := !dst.IsOwnedBy(f.playerID)

	var (
		launch combat.Launch
		err    error
	)
	if attack {
		launch, err = f.commander.Attack(src, dst, armies)
	} else {
		launch, err = f.commander.Transfer(src, dst, armies)
	}

	if err != nil {
		f.logger.Debug().
			Err(err).
			Int("source_id", src.ID).
			Int("target_id", dst.ID).
			Bool("attack", attack).
			Msg("Command failed")
		f.feedback.ShowFloatingText(src, core.Reason(err), f.errorText)
		return
	}

	if attack {
		f.tracker.Track(launch.ID, src.ID, dst.ID)
	}
	f.logger.Debug().
		Str("battle_id", launch.ID).
		Int("source_id", src.ID).
		Int("target_id", dst.ID).
		Int("armies", launch.Armies).
		Float64("percent", pct).
		Bool("attack", attack).
		Msg("Command issued")
}

func (f *FSM) onBattleComplete(battleID string, attackerWon bool, attackingTerritoryID int) {
	if _, ok := f.tracker.Complete(battleID); !ok {
		return
	}
	if attackerWon && f.selected != nil && f.selected.ID == attackingTerritoryID {
		f.transition(StateDefault, nil, "attack succeeded")
	}
}

// dropLostSelection lets go of a staging territory that changed hands. The
// engine takes the attacker from the source's owner, so commanding from it
// would move someone else's fleet.
func (f *FSM) dropLostSelection() {
	if f.state != StateTerritorySelected || f.selected == nil || f.selected.IsOwnedBy(f.playerID) {
		return
	}
	f.transition(StateDefault, nil, "selection lost")
}

func (f *FSM) transition(to State, t *core.Territory, reason string) {
	from, prev := f.state, f.selected
	f.state = to
	f.selected = t
	if to == StateDefault {
		f.selected = nil
	}
	if from == to && prev == f.selected {
		return
	}
	f.logger.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Str("reason", reason).
		Str("selected", selectedLabel(f.selected)).
		Msg("Input state changed")
}

// SendPercent resolves the fleet share for the held modifiers. ModFull wins
// when both are held.
func (f *FSM) SendPercent(mods Modifier) float64 {
	switch {
	case mods&ModFull != 0:
		return f.percent.Full
	case mods&ModQuarter != 0:
		return f.percent.Quarter
	default:
		return f.percent.Base
	}
}

// SendArmies sizes a command: a share of the ships above the last defender,
// never less than one.
func SendArmies(armySize int, pct float64) int {
	n := int(math.Floor(float64(armySize-1) * pct))
	return max(1, n)
}

// Reset returns to Default and forgets tracked battles.
func (f *FSM) Reset() {
	f.tracker.Clear()
	f.transition(StateDefault, nil, "reset")
}

func (f *FSM) State() State { return f.state }

// Selected returns the current selection, nil in Default.
func (f *FSM) Selected() *core.Territory { return f.selected }

// Tracker exposes the pending-battle tracker.
func (f *FSM) Tracker() *BattleTracker { return f.tracker }

func (f *FSM) Cursor() Cursor {
	switch f.state {
	case StateTerritorySelected:
		return CursorPointer
	case StateEnemySelected:
		return CursorHelp
	default:
		return CursorDefault
	}
}

// ID implements events.Subscriber.
func (f *FSM) ID() string { return fmt.Sprintf("input-fsm-%d", f.playerID) }

// InterestedIn implements events.Subscriber.
func (f *FSM) InterestedIn(eventType string) bool {
	return eventType == events.TypeBattleCompleted || eventType == events.TypePlayerEliminated
}

// HandleEvent feeds battle completions from the bus into the FSM. Captures
// and eliminations can take the selection away, either directly or through
// a throne cascade.
func (f *FSM) HandleEvent(e events.Event) {
	if c, ok := e.(*events.BattleCompletedEvent); ok {
		f.HandleInput(BattleComplete(c.BattleID, c.AttackerWon, c.AttackingTerritoryID))
	}
	f.dropLostSelection()
}

func selectedLabel(t *core.Territory) string {
	if t == nil {
		return "none"
	}
	return fmt.Sprintf("territory %d", t.ID)
}

var (
	_ Commander         = (*combat.Engine)(nil)
	_ events.Subscriber = (*FSM)(nil)
)
