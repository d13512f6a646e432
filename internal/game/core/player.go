package core

import (
	"image/color"
	"sort"
)

// Tech holds the upgrade levels that feed combat odds.
// The combat engine only reads them through a bonus rule.
type Tech struct {
	AttackLevel  int
	DefenseLevel int
}

// Player is an empire. Players are never removed from the world,
// so IDs stay valid after elimination.
type Player struct {
	ID         int
	Name       string
	Color      color.RGBA
	Human      bool
	Eliminated bool
	Tech       Tech

	territories map[int]struct{}
}

// NewPlayer creates a player with an empty territory set.
func NewPlayer(id int, name string, c color.RGBA) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		Color:       c,
		territories: make(map[int]struct{}),
	}
}

func (p *Player) GetID() int    { return p.ID }
func (p *Player) IsAlive() bool { return !p.Eliminated }

// Owns reports whether the territory ID is in the player's set.
func (p *Player) Owns(territoryID int) bool {
	_, ok := p.territories[territoryID]
	return ok
}

// TerritoryCount returns the size of the player's territory set.
func (p *Player) TerritoryCount() int { return len(p.territories) }

// TerritoryIDs returns the owned territory IDs in ascending order.
func (p *Player) TerritoryIDs() []int {
	ids := make([]int, 0, len(p.territories))
	for id := range p.territories {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (p *Player) addTerritory(id int) {
	if p.territories == nil {
		p.territories = make(map[int]struct{})
	}
	p.territories[id] = struct{}{}
}

func (p *Player) removeTerritory(id int) { delete(p.territories, id) }

func (p *Player) clearTerritories() {
	for id := range p.territories {
		delete(p.territories, id)
	}
}
