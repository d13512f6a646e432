package combat

import (
	"fmt"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/rules"
)

// complete applies the outcome of a finished battle. Ownership, army count and
// any cascade all land within the same tick.
func (e *Engine) complete(b *Battle, target *core.Territory) {
	f := b.fight
	attackerWon := f.AttackersLeft > 0 && f.DefendersLeft <= 0

	survivors := 0
	if attackerWon {
		survivors = max(1, f.AttackersLeft)
		wasThrone := target.IsThroneStar
		if err := e.world.SetOwner(target, b.AttackerID); err != nil {
			e.logger.Error().Err(err).Str("battle_id", b.ID).Msg("Failed to transfer captured territory")
		}
		target.ArmySize = survivors
		e.feedback.ShowFloatingText(target, fmt.Sprintf("+%d", survivors), e.settings.TextDuration)

		e.logger.Info().
			Str("battle_id", b.ID).
			Int("target_id", target.ID).
			Int("attacker_id", b.AttackerID).
			Int("defender_id", f.DefenderID).
			Int("survivors", survivors).
			Msg("Territory captured")

		if wasThrone {
			e.captureThrone(target, f.DefenderID, b.AttackerID)
		}
	} else {
		survivors = max(1, f.DefendersLeft)
		target.ArmySize = survivors
		e.feedback.ShowFloatingText(target, "Defended!", e.settings.TextDuration)

		e.logger.Debug().
			Str("battle_id", b.ID).
			Int("target_id", target.ID).
			Int("defenders_left", survivors).
			Msg("Attack repelled")
	}

	e.events.Publish(events.NewBattleCompletedEvent(e.gameID, b.ID, attackerWon, b.SourceID, b.TargetID, b.AttackerID, f.DefenderID, survivors, e.now))
}

// captureThrone hands the fallen empire to the conqueror and destroys the
// captured throne star.
func (e *Engine) captureThrone(throne *core.Territory, loserID, winnerID int) {
	throne.IsThroneStar = false

	loser, ok := e.world.Player(loserID)
	if !ok {
		e.logger.Error().
			Int("territory_id", throne.ID).
			Int("owner_id", loserID).
			Msg("Throne star captured without an owning empire, no one eliminated")
		return
	}
	winner, _ := e.world.Player(winnerID)

	ids := loser.TerritoryIDs()
	for _, id := range ids {
		t, ok := e.world.Territory(id)
		if !ok {
			continue
		}
		if err := e.world.SetOwner(t, winnerID); err != nil {
			e.logger.Error().Err(err).Int("territory_id", id).Msg("Failed to transfer territory during elimination")
		}
	}
	if err := e.world.Eliminate(loserID); err != nil {
		e.logger.Error().Err(err).Int("player_id", loserID).Msg("Failed to eliminate player")
		return
	}

	e.logger.Info().
		Int("eliminated_id", loserID).
		Int("winner_id", winnerID).
		Int("territories_lost", len(ids)+1).
		Msg("Throne star captured, empire eliminated")
	e.events.Publish(events.NewPlayerEliminatedEvent(e.gameID, loserID, winnerID, len(ids)+1, e.now))

	if e.onThrone != nil {
		e.onThrone(loser, winner)
	}

	if loser.Human {
		e.endGame(winnerID, "human throne captured")
		return
	}
	if over, w := e.winCheck.CheckGameOver(rules.AsPlayers(e.world.Players())); over {
		e.endGame(w, "last empire standing")
	}
}

func (e *Engine) endGame(winnerID int, reason string) {
	if e.gameOver {
		return
	}
	e.gameOver = true
	e.winner = winnerID
	e.logger.Info().Int("winner_id", winnerID).Str("reason", reason).Dur("sim_time", e.now).Msg("Game over")
	e.events.Publish(events.NewGameEndedEvent(e.gameID, winnerID, reason, e.now))
}
