package input

import "github.com/mitchelldurbincs/ThroneStar/internal/game/core"

// Kind identifies an input event.
type Kind int

const (
	KindTap Kind = iota
	KindInspect
	KindKey
	KindBattleComplete
)

func (k Kind) String() string {
	switch k {
	case KindTap:
		return "tap"
	case KindInspect:
		return "inspect"
	case KindKey:
		return "key"
	case KindBattleComplete:
		return "battle_complete"
	default:
		return "unknown"
	}
}

// Modifier flags change the share of a fleet a command sends.
type Modifier uint8

const (
	// ModFull sends everything but the last ship.
	ModFull Modifier = 1 << iota
	// ModQuarter sends a quarter.
	ModQuarter

	ModNone Modifier = 0
)

// Key is a keyboard key the FSM understands.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
)

// Event is a discrete input delivered to HandleInput. Territory is nil for a
// tap on empty space.
type Event struct {
	Kind      Kind
	Territory *core.Territory
	Mods      Modifier
	Key       Key

	BattleID             string
	AttackerWon          bool
	AttackingTerritoryID int
}

func Tap(t *core.Territory, mods Modifier) Event {
	return Event{Kind: KindTap, Territory: t, Mods: mods}
}

// Inspect selects a territory without issuing a command.
func Inspect(t *core.Territory) Event {
	return Event{Kind: KindInspect, Territory: t}
}

func KeyPress(k Key) Event {
	return Event{Kind: KindKey, Key: k}
}

func BattleComplete(battleID string, attackerWon bool, attackingTerritoryID int) Event {
	return Event{
		Kind:                 KindBattleComplete,
		BattleID:             battleID,
		AttackerWon:          attackerWon,
		AttackingTerritoryID: attackingTerritoryID,
	}
}
