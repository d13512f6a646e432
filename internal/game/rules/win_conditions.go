package rules

import "github.com/rs/zerolog"

// EliminationChecker decides a galaxy by throne capture. An empire is out
// once its throne star falls; the galaxy is decided when one empire holds
// it alone. A galaxy that started with a single empire runs until that
// empire falls too.
type EliminationChecker struct {
	logger  zerolog.Logger
	empires int
}

// NewEliminationChecker builds a checker for a galaxy that started with the
// given number of empires.
func NewEliminationChecker(logger zerolog.Logger, empires int) *EliminationChecker {
	return &EliminationChecker{
		logger:  logger.With().Str("component", "EliminationChecker").Logger(),
		empires: empires,
	}
}

// CheckGameOver reports whether the galaxy is decided and by whom. The
// winner is -1 when no empire still holds a throne.
func (c *EliminationChecker) CheckGameOver(players []Player) (bool, int) {
	var standing []int
	for _, p := range players {
		if p.IsAlive() {
			standing = append(standing, p.GetID())
		}
	}

	limit := 1
	if c.empires <= 1 {
		limit = 0
	}
	decided := len(standing) <= limit

	winner := -1
	switch {
	case decided && len(standing) == 1:
		winner = standing[0]
		c.logger.Info().Int("winner_player_id", winner).Msg("Last throne standing")
	case decided:
		c.logger.Info().Msg("Every throne has fallen, no winner")
	default:
		c.logger.Debug().Ints("standing", standing).Msg("Galaxy still contested")
	}
	return decided, winner
}

// Player is what the rules read from an empire.
type Player interface {
	GetID() int
	IsAlive() bool
}

// AsPlayers adapts a slice of concrete players to the rules view.
func AsPlayers[P Player](in []P) []Player {
	out := make([]Player, len(in))
	for i, p := range in {
		out[i] = p
	}
	return out
}
