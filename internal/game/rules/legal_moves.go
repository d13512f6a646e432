package rules

import "github.com/mitchelldurbincs/ThroneStar/internal/game/core"

// Command is a source/target pair a player could order right now.
type Command struct {
	SourceID int
	TargetID int
	Attack   bool
}

// LegalMoveCalculator computes the commands available to a player
type LegalMoveCalculator struct{}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator() *LegalMoveCalculator {
	return &LegalMoveCalculator{}
}

// LegalCommands lists every neighbor attack or transfer the player can launch.
// Only sources with more than one ship qualify. Output follows territory ID
// order, then neighbor order, so a seeded chooser stays deterministic.
func (lmc *LegalMoveCalculator) LegalCommands(w *core.World, player Player) []Command {
	if !player.IsAlive() {
		return nil
	}

	p, ok := w.Player(player.GetID())
	if !ok {
		return nil
	}

	var cmds []Command
	for _, id := range p.TerritoryIDs() {
		src, ok := w.Territory(id)
		if !ok || !src.CanLaunch() {
			continue
		}
		for _, nid := range src.Neighbors {
			dst, ok := w.Territory(nid)
			if !ok {
				continue
			}
			cmds = append(cmds, Command{
				SourceID: src.ID,
				TargetID: dst.ID,
				Attack:   dst.OwnerID != p.ID,
			})
		}
	}
	return cmds
}
