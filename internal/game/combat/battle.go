package combat

import "time"

// Status is the lifecycle stage of a battle still held by the engine.
type Status int

const (
	StatusPending Status = iota
	StatusActive
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	default:
		return "unknown"
	}
}

// Battle is an attack in flight or in progress. The launch fields never
// change; the engagement exists only once the fleet has arrived.
type Battle struct {
	ID         string
	SourceID   int
	TargetID   int
	AttackerID int
	Armies     int
	LaunchedAt time.Duration
	ArrivalAt  time.Duration

	fight *Engagement
}

// Engagement is the fighting state of an active battle.
// WinChance is fixed at activation; both counts only go down.
type Engagement struct {
	DefenderID    int
	WinChance     float64
	AttackersLeft int
	DefendersLeft int
	LastRoundAt   time.Duration
}

func (b *Battle) Status() Status {
	if b.fight == nil {
		return StatusPending
	}
	return StatusActive
}

// Engagement returns a copy of the fighting state; ok is false while pending.
func (b *Battle) Engagement() (Engagement, bool) {
	if b.fight == nil {
		return Engagement{}, false
	}
	return *b.fight, true
}

func (b *Battle) over() bool {
	return b.fight.AttackersLeft <= 0 || b.fight.DefendersLeft <= 0
}

func (b *Battle) snapshot() Battle {
	c := *b
	if b.fight != nil {
		f := *b.fight
		c.fight = &f
	}
	return c
}

// Launch is the receipt for an accepted attack or transfer.
type Launch struct {
	ID        string
	Armies    int
	ArrivalAt time.Duration
}

// transfer is a friendly convoy in flight.
type transfer struct {
	id        string
	sourceID  int
	targetID  int
	playerID  int
	armies    int
	arrivalAt time.Duration
}
