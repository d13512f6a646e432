package core

import (
	"image/color"
	"time"
)

// NeutralID is the owner of a territory no player holds.
const NeutralID = -1

// Territory is a single star on the galaxy map.
// OwnerID: NeutralID means neutral; otherwise a player ID.
// ArmySize: number of ships garrisoned, never negative.
// Neighbors: adjacent territory IDs, symmetric.
type Territory struct {
	ID           int
	OwnerID      int
	ArmySize     int
	Neighbors    []int
	IsThroneStar bool
	X, Y         float64

	// Transient presentation state, written through the feedback layer
	FloatingText      string
	FloatingTextUntil time.Duration
	FlashColor        color.RGBA
	FlashUntil        time.Duration
	FlashDuration     time.Duration
}

func (t *Territory) IsNeutral() bool             { return t.OwnerID == NeutralID }
func (t *Territory) IsOwnedBy(playerID int) bool { return t.OwnerID == playerID }

// CanLaunch reports whether the territory can commit ships and still keep a defender behind.
func (t *Territory) CanLaunch() bool { return t.ArmySize > 1 }

// IsNeighbor reports whether id is adjacent to this territory.
func (t *Territory) IsNeighbor(id int) bool {
	for _, n := range t.Neighbors {
		if n == id {
			return true
		}
	}
	return false
}

// DistanceTo returns the squared map distance to another territory.
func (t *Territory) DistanceTo(other *Territory) float64 {
	dx := t.X - other.X
	dy := t.Y - other.Y
	return dx*dx + dy*dy
}
