package core

import (
	"errors"
	"fmt"
	"sort"
)

// World owns every territory and player of a session. It is mutated from the
// simulation goroutine only; nothing here locks.
type World struct {
	territories map[int]*Territory
	players     map[int]*Player
}

func NewWorld() *World {
	return &World{
		territories: make(map[int]*Territory),
		players:     make(map[int]*Player),
	}
}

// AddPlayer registers a player. An existing player with the same ID is replaced.
func (w *World) AddPlayer(p *Player) {
	if p.territories == nil {
		p.territories = make(map[int]struct{})
	}
	w.players[p.ID] = p
}

// AddTerritory registers a territory and records it in its owner's set.
func (w *World) AddTerritory(t *Territory) error {
	if _, exists := w.territories[t.ID]; exists {
		return fmt.Errorf("territory %d already exists", t.ID)
	}
	if !t.IsNeutral() {
		owner, ok := w.players[t.OwnerID]
		if !ok {
			return WrapPlayerError(t.OwnerID, "add territory", ErrInvalidPlayer)
		}
		owner.addTerritory(t.ID)
	}
	w.territories[t.ID] = t
	return nil
}

// Connect links two territories as neighbors in both directions.
func (w *World) Connect(a, b int) error {
	ta, okA := w.territories[a]
	tb, okB := w.territories[b]
	if !okA || !okB {
		return fmt.Errorf("connect %d <-> %d: %w", a, b, ErrMissingTerritory)
	}
	if a == b || ta.IsNeighbor(b) {
		return nil
	}
	ta.Neighbors = append(ta.Neighbors, b)
	tb.Neighbors = append(tb.Neighbors, a)
	return nil
}

func (w *World) Territory(id int) (*Territory, bool) {
	t, ok := w.territories[id]
	return t, ok
}

func (w *World) Player(id int) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Territories returns all territories ordered by ID.
func (w *World) Territories() []*Territory {
	out := make([]*Territory, 0, len(w.territories))
	for _, t := range w.territories {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Players returns all players, eliminated ones included, ordered by ID.
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HumanPlayer returns the locally controlled player, if any.
func (w *World) HumanPlayer() (*Player, bool) {
	for _, p := range w.Players() {
		if p.Human {
			return p, true
		}
	}
	return nil, false
}

// ThroneOf returns the throne star currently held by the player.
func (w *World) ThroneOf(playerID int) (*Territory, bool) {
	p, ok := w.players[playerID]
	if !ok {
		return nil, false
	}
	for _, id := range p.TerritoryIDs() {
		if t := w.territories[id]; t != nil && t.IsThroneStar {
			return t, true
		}
	}
	return nil, false
}

// SetOwner moves a territory to a new owner, keeping both players' sets in
// step with OwnerID. newOwner may be NeutralID.
func (w *World) SetOwner(t *Territory, newOwner int) error {
	if newOwner != NeutralID {
		if _, ok := w.players[newOwner]; !ok {
			return WrapPlayerError(newOwner, "take territory", ErrInvalidPlayer)
		}
	}
	if old, ok := w.players[t.OwnerID]; ok {
		old.removeTerritory(t.ID)
	}
	t.OwnerID = newOwner
	if p, ok := w.players[newOwner]; ok {
		p.addTerritory(t.ID)
	}
	return nil
}

// Eliminate marks the player as out of the game and empties its set.
// Territories must already have been handed over.
func (w *World) Eliminate(playerID int) error {
	p, ok := w.players[playerID]
	if !ok {
		return WrapPlayerError(playerID, "eliminate", ErrInvalidPlayer)
	}
	p.clearTerritories()
	p.Eliminated = true
	return nil
}

// Remove deletes a territory from the map and from its owner's set.
func (w *World) Remove(id int) {
	t, ok := w.territories[id]
	if !ok {
		return
	}
	if p, ok := w.players[t.OwnerID]; ok {
		p.removeTerritory(id)
	}
	for _, n := range t.Neighbors {
		if nt, ok := w.territories[n]; ok {
			nt.Neighbors = removeID(nt.Neighbors, id)
		}
	}
	delete(w.territories, id)
}

// AlivePlayers counts players that have not been eliminated
func (w *World) AlivePlayers() int {
	n := 0
	for _, p := range w.players {
		if p.IsAlive() {
			n++
		}
	}
	return n
}

// CheckInvariants verifies ownership bookkeeping and throne rules.
func (w *World) CheckInvariants() error {
	var errs []error
	thrones := make(map[int]int)

	for _, t := range w.Territories() {
		if t.ArmySize < 0 {
			errs = append(errs, fmt.Errorf("territory %d has negative army %d", t.ID, t.ArmySize))
		}
		if t.IsThroneStar {
			if t.IsNeutral() {
				errs = append(errs, fmt.Errorf("territory %d is an unowned throne star", t.ID))
			} else {
				thrones[t.OwnerID]++
			}
		}
		if t.IsNeutral() {
			continue
		}
		owner, ok := w.players[t.OwnerID]
		if !ok {
			errs = append(errs, fmt.Errorf("territory %d owned by unknown player %d", t.ID, t.OwnerID))
			continue
		}
		if !owner.Owns(t.ID) {
			errs = append(errs, fmt.Errorf("territory %d missing from player %d set", t.ID, owner.ID))
		}
	}

	for _, p := range w.Players() {
		for _, id := range p.TerritoryIDs() {
			t, ok := w.territories[id]
			if !ok || t.OwnerID != p.ID {
				errs = append(errs, fmt.Errorf("player %d lists territory %d it does not own", p.ID, id))
			}
		}
		if p.Eliminated && p.TerritoryCount() > 0 {
			errs = append(errs, fmt.Errorf("eliminated player %d still owns %d territories", p.ID, p.TerritoryCount()))
		}
		if thrones[p.ID] > 1 {
			errs = append(errs, fmt.Errorf("player %d holds %d throne stars", p.ID, thrones[p.ID]))
		}
	}

	return errors.Join(errs...)
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
