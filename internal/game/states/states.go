package states

import (
	"errors"
	"fmt"
	"time"
)

// base supplies no-op hooks; each phase overrides what it needs.
type base struct{ phase GamePhase }

func (b base) Phase() GamePhase          { return b.phase }
func (base) Enter(*GameContext) error    { return nil }
func (base) Exit(*GameContext) error     { return nil }
func (base) Validate(*GameContext) error { return nil }

// InitializingState is the freshly generated galaxy.
type InitializingState struct{ base }

func NewInitializingState() State {
	return &InitializingState{base{PhaseInitializing}}
}

func (s *InitializingState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Int("player_count", ctx.PlayerCount).Msg("Galaxy ready")
	return nil
}

// RunningState is active play. StartTime is stamped on first entry only so
// that resuming from a pause keeps the original start.
type RunningState struct{ base }

func NewRunningState() State {
	return &RunningState{base{PhaseRunning}}
}

func (s *RunningState) Validate(ctx *GameContext) error {
	if ctx.PlayerCount < 1 {
		return errors.New("cannot run a galaxy with no empires")
	}
	return nil
}

func (s *RunningState) Enter(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		ctx.StartTime = ctx.Now()
		ctx.Logger.Info().Time("start_time", ctx.StartTime).Msg("Game started")
	}
	return nil
}

// PausedState stops the session clock.
type PausedState struct{ base }

func NewPausedState() State {
	return &PausedState{base{PhasePaused}}
}

func (s *PausedState) Validate(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		return errors.New("cannot pause a game that hasn't started")
	}
	return nil
}

func (s *PausedState) Enter(ctx *GameContext) error {
	ctx.PauseTime = ctx.Now()
	ctx.Logger.Info().Dur("elapsed", ctx.GetElapsedTime()).Msg("Game paused")
	return nil
}

func (s *PausedState) Exit(ctx *GameContext) error {
	if ctx.PauseTime.IsZero() {
		return nil
	}
	paused := ctx.Now().Sub(ctx.PauseTime)
	ctx.TotalPauseDuration += paused
	ctx.PauseTime = time.Time{}
	ctx.Logger.Info().
		Dur("pause_duration", paused).
		Dur("total_pause_duration", ctx.TotalPauseDuration).
		Msg("Game resumed")
	return nil
}

// EndedState is a decided session. A draw has Winner -1 but still needs a reason.
type EndedState struct{ base }

func NewEndedState() State {
	return &EndedState{base{PhaseEnded}}
}

func (s *EndedState) Validate(ctx *GameContext) error {
	if ctx.EndReason == "" {
		return fmt.Errorf("ended state requires an end reason (winner %d)", ctx.Winner)
	}
	return nil
}

func (s *EndedState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().
		Int("winner", ctx.Winner).
		Str("reason", ctx.EndReason).
		Dur("game_duration", ctx.GetElapsedTime()).
		Msg("Game ended")
	return nil
}

// ErrorState holds a session that failed; ctx.Error says why.
type ErrorState struct{ base }

func NewErrorState() State {
	return &ErrorState{base{PhaseError}}
}

func (s *ErrorState) Validate(ctx *GameContext) error {
	if ctx.Error == nil {
		return errors.New("error state requires an error in context")
	}
	return nil
}

func (s *ErrorState) Enter(ctx *GameContext) error {
	ctx.Logger.Error().Err(ctx.Error).Msg("Game entered error state")
	return nil
}

func (s *ErrorState) Exit(ctx *GameContext) error {
	ctx.Error = nil
	return nil
}

// ResetState forgets the previous result. PlayerCount is kept.
type ResetState struct{ base }

func NewResetState() State {
	return &ResetState{base{PhaseReset}}
}

func (s *ResetState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().Str("previous_reason", ctx.EndReason).Msg("Resetting game")
	ctx.StartTime = time.Time{}
	ctx.PauseTime = time.Time{}
	ctx.TotalPauseDuration = 0
	ctx.Winner = -1
	ctx.EndReason = ""
	ctx.Error = nil
	return nil
}
