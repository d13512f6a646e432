package rules

import (
	"math"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
)

// BonusRule turns a player's upgrades into win-chance modifiers.
// Both values are non-negative; a nil player (neutral) gets zero.
type BonusRule interface {
	AttackBonus(p *core.Player) float64
	DefenseBonus(p *core.Player) float64
}

// TechBonus grants Step per upgrade level, capped at Cap.
type TechBonus struct {
	Step float64
	Cap  float64
}

// DefaultTechBonus is 5% per level up to 20%.
func DefaultTechBonus() TechBonus {
	return TechBonus{Step: 0.05, Cap: 0.2}
}

func (b TechBonus) AttackBonus(p *core.Player) float64 {
	if p == nil {
		return 0
	}
	return b.scale(p.Tech.AttackLevel)
}

func (b TechBonus) DefenseBonus(p *core.Player) float64 {
	if p == nil {
		return 0
	}
	return b.scale(p.Tech.DefenseLevel)
}

func (b TechBonus) scale(level int) float64 {
	if level <= 0 {
		return 0
	}
	return math.Min(b.Cap, float64(level)*b.Step)
}

// NoBonus leaves every battle at the base chance.
type NoBonus struct{}

func (NoBonus) AttackBonus(*core.Player) float64  { return 0 }
func (NoBonus) DefenseBonus(*core.Player) float64 { return 0 }
