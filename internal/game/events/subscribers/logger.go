package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
)

// LoggerSubscriber writes every event it is interested in as one structured
// log line. Battle rounds are always logged at debug.
type LoggerSubscriber struct {
	id      string
	logger  zerolog.Logger
	level   zerolog.Level
	only    map[string]bool
	devMode bool
}

func NewLoggerSubscriber(id string, logger zerolog.Logger, level zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:     id,
		logger: logger.With().Str("subscriber", "event_logger").Logger(),
		level:  level,
	}
}

func (ls *LoggerSubscriber) ID() string { return ls.id }

// SetEventFilter restricts logging to the given types. Empty clears it.
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	ls.only = nil
	if len(eventTypes) == 0 {
		return
	}
	ls.only = make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		ls.only[t] = true
	}
}

// SetDevMode adds the whole event as JSON to each line.
func (ls *LoggerSubscriber) SetDevMode(enabled bool) { ls.devMode = enabled }

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	return ls.only == nil || ls.only[eventType]
}

func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	level := ls.level
	if event.Type() == events.TypeBattleRound {
		level = zerolog.DebugLevel
	}

	logEvent := ls.logger.WithLevel(level).
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp())
	addFields(logEvent, event)

	if ls.devMode {
		if raw, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", raw)
		}
	}
	logEvent.Msg("Game event")
}

func addFields(logEvent *zerolog.Event, event events.Event) {
	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("num_territories", e.NumTerritories).
			Int("human_player", e.HumanPlayer)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Str("reason", e.Reason).
			Dur("sim_time", e.Metadata.SimTime)

	case *events.BattleLaunchedEvent:
		logEvent.
			Str("battle_id", e.BattleID).
			Int("source_id", e.SourceID).
			Int("target_id", e.TargetID).
			Int("attacker_id", e.AttackerID).
			Int("armies", e.Armies).
			Dur("arrival_at", e.ArrivalAt)

	case *events.BattleStartedEvent:
		logEvent.
			Str("battle_id", e.BattleID).
			Int("target_id", e.TargetID).
			Int("attacker_id", e.AttackerID).
			Int("defender_id", e.DefenderID).
			Float64("win_chance", e.WinChance).
			Int("attackers", e.Attackers).
			Int("defenders", e.Defenders)

	case *events.BattleRoundEvent:
		logEvent.
			Str("battle_id", e.BattleID).
			Bool("attacker_lost", e.AttackerLost).
			Int("attackers_left", e.AttackersLeft).
			Int("defenders_left", e.DefendersLeft)

	case *events.BattleCompletedEvent:
		logEvent.
			Str("battle_id", e.BattleID).
			Bool("attacker_won", e.AttackerWon).
			Int("source_id", e.AttackingTerritoryID).
			Int("target_id", e.TargetID).
			Int("attacker_id", e.AttackerID).
			Int("defender_id", e.DefenderID).
			Int("survivors", e.Survivors)

	case *events.TransferLandedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("source_id", e.SourceID).
			Int("target_id", e.TargetID).
			Int("armies", e.Armies)

	case *events.CommandRejectedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("source_id", e.SourceID).
			Int("target_id", e.TargetID).
			Str("reason", e.Reason)

	case *events.PlayerEliminatedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("eliminated_by", e.EliminatedBy).
			Int("territories_lost", e.TerritoriesLost)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}
}
