package core

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTerritory = errors.New("territory not found")
	ErrSameTerritory    = errors.New("cannot target the source territory")
	ErrNeutralSource    = errors.New("source territory has no owner")
	ErrOwnTerritory     = errors.New("cannot attack your own territory")
	ErrNotFriendly      = errors.New("can only transfer to your own territory")
	ErrInsufficientArmy = errors.New("need more armies for attack")
	ErrInvalidAttacker  = errors.New("invalid attacking player")
	ErrArmyDeduction    = errors.New("army deduction would leave source undefended")
	ErrGameOver         = errors.New("game is over")
	ErrInvalidPlayer    = errors.New("invalid player ID")
)

// WrapCommandError adds source and target context to a command failure.
func WrapCommandError(op string, sourceID, targetID int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %d -> %d: %w", op, sourceID, targetID, err)
}

// WrapPlayerError adds player context to an error.
func WrapPlayerError(playerID int, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d %s: %w", playerID, operation, err)
}

// Reason returns the player-facing text for a command failure:
// the innermost known sentinel, or the full message otherwise.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range []error{
		ErrMissingTerritory, ErrSameTerritory, ErrNeutralSource, ErrOwnTerritory,
		ErrNotFriendly, ErrInsufficientArmy, ErrInvalidAttacker, ErrArmyDeduction,
		ErrGameOver, ErrInvalidPlayer,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
