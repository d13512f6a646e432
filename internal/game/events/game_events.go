package events

import (
	"time"
)

// Event type constants
const (
	TypeGameStarted      = "game.started"
	TypeGameEnded        = "game.ended"
	TypeBattleLaunched   = "battle.launched"
	TypeBattleStarted    = "battle.started"
	TypeBattleRound      = "battle.round"
	TypeBattleCompleted  = "battle.completed"
	TypeTransferLanded   = "transfer.landed"
	TypeCommandRejected  = "command.rejected"
	TypePlayerEliminated = "player.eliminated"
	TypeStateTransition  = "state.transition"
)

func newBase(eventType, gameID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Game:      gameID,
	}
}

// GameStartedEvent is published when a session begins running
type GameStartedEvent struct {
	BaseEvent
	Metadata       EventMetadata
	NumPlayers     int
	NumTerritories int
	HumanPlayer    int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, numPlayers, numTerritories, humanPlayer int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:      newBase(TypeGameStarted, gameID),
		NumPlayers:     numPlayers,
		NumTerritories: numTerritories,
		HumanPlayer:    humanPlayer,
	}
}

// GameEndedEvent is published once, when the session has a result.
// Winner is -1 for a draw.
type GameEndedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Winner   int
	Reason   string
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner int, reason string, simTime time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID),
		Metadata:  EventMetadata{PlayerID: winner, SimTime: simTime},
		Winner:    winner,
		Reason:    reason,
	}
}

// BattleLaunchedEvent is published when ships leave for an attack
type BattleLaunchedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	BattleID   string
	SourceID   int
	TargetID   int
	AttackerID int
	Armies     int
	ArrivalAt  time.Duration
}

// NewBattleLaunchedEvent creates a new BattleLaunchedEvent
func NewBattleLaunchedEvent(gameID, battleID string, source, target, attacker, armies int, arrival, simTime time.Duration) *BattleLaunchedEvent {
	return &BattleLaunchedEvent{
		BaseEvent:  newBase(TypeBattleLaunched, gameID),
		Metadata:   EventMetadata{PlayerID: attacker, SimTime: simTime},
		BattleID:   battleID,
		SourceID:   source,
		TargetID:   target,
		AttackerID: attacker,
		Armies:     armies,
		ArrivalAt:  arrival,
	}
}

// BattleStartedEvent is published when a fleet arrives and combat begins
type BattleStartedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	BattleID   string
	TargetID   int
	AttackerID int
	DefenderID int
	WinChance  float64
	Attackers  int
	Defenders  int
}

// NewBattleStartedEvent creates a new BattleStartedEvent
func NewBattleStartedEvent(gameID, battleID string, target, attacker, defender int, winChance float64, attackers, defenders int, simTime time.Duration) *BattleStartedEvent {
	return &BattleStartedEvent{
		BaseEvent:  newBase(TypeBattleStarted, gameID),
		Metadata:   EventMetadata{PlayerID: attacker, SimTime: simTime},
		BattleID:   battleID,
		TargetID:   target,
		AttackerID: attacker,
		DefenderID: defender,
		WinChance:  winChance,
		Attackers:  attackers,
		Defenders:  defenders,
	}
}

// BattleRoundEvent is published after every coin-flip round
type BattleRoundEvent struct {
	BaseEvent
	Metadata      EventMetadata
	BattleID      string
	TargetID      int
	AttackerLost  bool
	AttackersLeft int
	DefendersLeft int
}

// NewBattleRoundEvent creates a new BattleRoundEvent
func NewBattleRoundEvent(gameID, battleID string, target int, attackerLost bool, attackersLeft, defendersLeft int, simTime time.Duration) *BattleRoundEvent {
	return &BattleRoundEvent{
		BaseEvent:     newBase(TypeBattleRound, gameID),
		Metadata:      EventMetadata{SimTime: simTime},
		BattleID:      battleID,
		TargetID:      target,
		AttackerLost:  attackerLost,
		AttackersLeft: attackersLeft,
		DefendersLeft: defendersLeft,
	}
}

// BattleCompletedEvent is published exactly once per battle when it resolves
type BattleCompletedEvent struct {
	BaseEvent
	Metadata             EventMetadata
	BattleID             string
	AttackerWon          bool
	AttackingTerritoryID int
	TargetID             int
	AttackerID           int
	DefenderID           int
	Survivors            int
}

// NewBattleCompletedEvent creates a new BattleCompletedEvent
func NewBattleCompletedEvent(gameID, battleID string, attackerWon bool, source, target, attacker, defender, survivors int, simTime time.Duration) *BattleCompletedEvent {
	return &BattleCompletedEvent{
		BaseEvent:            newBase(TypeBattleCompleted, gameID),
		Metadata:             EventMetadata{PlayerID: attacker, SimTime: simTime},
		BattleID:             battleID,
		AttackerWon:          attackerWon,
		AttackingTerritoryID: source,
		TargetID:             target,
		AttackerID:           attacker,
		DefenderID:           defender,
		Survivors:            survivors,
	}
}

// TransferLandedEvent is published when friendly reinforcements arrive
type TransferLandedEvent struct {
	BaseEvent
	Metadata EventMetadata
	SourceID int
	TargetID int
	PlayerID int
	Armies   int
}

// NewTransferLandedEvent creates a new TransferLandedEvent
func NewTransferLandedEvent(gameID string, source, target, player, armies int, simTime time.Duration) *TransferLandedEvent {
	return &TransferLandedEvent{
		BaseEvent: newBase(TypeTransferLanded, gameID),
		Metadata:  EventMetadata{PlayerID: player, SimTime: simTime},
		SourceID:  source,
		TargetID:  target,
		PlayerID:  player,
		Armies:    armies,
	}
}

// CommandRejectedEvent is published when an attack or transfer fails validation
type CommandRejectedEvent struct {
	BaseEvent
	Metadata EventMetadata
	PlayerID int
	SourceID int
	TargetID int
	Reason   string
}

// NewCommandRejectedEvent creates a new CommandRejectedEvent
func NewCommandRejectedEvent(gameID string, player, source, target int, reason string) *CommandRejectedEvent {
	return &CommandRejectedEvent{
		BaseEvent: newBase(TypeCommandRejected, gameID),
		Metadata:  EventMetadata{PlayerID: player},
		PlayerID:  player,
		SourceID:  source,
		TargetID:  target,
		Reason:    reason,
	}
}

// PlayerEliminatedEvent is published when a throne star falls
type PlayerEliminatedEvent struct {
	BaseEvent
	Metadata        EventMetadata
	PlayerID        int
	EliminatedBy    int
	TerritoriesLost int
}

// NewPlayerEliminatedEvent creates a new PlayerEliminatedEvent
func NewPlayerEliminatedEvent(gameID string, playerID, eliminatedBy, territoriesLost int, simTime time.Duration) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent:       newBase(TypePlayerEliminated, gameID),
		Metadata:        EventMetadata{PlayerID: playerID, SimTime: simTime},
		PlayerID:        playerID,
		EliminatedBy:    eliminatedBy,
		TerritoriesLost: territoriesLost,
	}
}

// StateTransitionEvent is published when the session phase machine transitions
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
