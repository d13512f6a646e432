package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext provides session information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this session
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// PlayerCount is the number of empires in the galaxy
	PlayerCount int

	// StartTime is when the session started (PhaseRunning first entered)
	StartTime time.Time

	// PauseTime is when the session was paused (if paused)
	PauseTime time.Time

	// TotalPauseDuration tracks total time spent paused
	TotalPauseDuration time.Duration

	// Winner is the player ID of the winner (if the session ended)
	Winner int

	// EndReason explains how the session was decided
	EndReason string

	// Error holds any error that caused transition to PhaseError
	Error error

	// Now reads wall time; tests replace it
	Now func() time.Time
}

// NewGameContext creates a new session context
func NewGameContext(gameID string, playerCount int, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID:      gameID,
		PlayerCount: playerCount,
		Logger:      logger.With().Str("game_id", gameID).Logger(),
		Winner:      -1, // -1 indicates no winner yet
		Now:         time.Now,
	}
}

// GetElapsedTime returns the time elapsed since start, excluding pauses
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	end := gc.Now()
	if !gc.PauseTime.IsZero() {
		end = gc.PauseTime
	}
	return end.Sub(gc.StartTime) - gc.TotalPauseDuration
}
