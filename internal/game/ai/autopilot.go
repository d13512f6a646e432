// Package ai drives computer empires through the same command surface the
// human uses.
package ai

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/combat"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/rules"
)

// Commander is the part of the combat engine an autopilot needs.
type Commander interface {
	AttackByID(sourceID, targetID, armies int) (combat.Launch, error)
	TransferByID(sourceID, targetID, armies int) (combat.Launch, error)
}

// Config configures one autopilot.
type Config struct {
	PlayerID      int
	World         *core.World
	Commander     Commander
	Rng           *rand.Rand
	Logger        zerolog.Logger
	ThinkInterval time.Duration
	// ActRate is the chance a think actually issues a command.
	ActRate float64
	// Focus is the chance of advancing on the target throne instead of
	// picking a legal command at random.
	Focus float64
}

// Autopilot issues one command per think for a computer empire. It remembers
// which enemy throne it is marching on until that empire falls.
type Autopilot struct {
	playerID int
	world    *core.World
	cmd      Commander
	rng      *rand.Rand
	logger   zerolog.Logger
	moves    *rules.LegalMoveCalculator

	interval time.Duration
	actRate  float64
	focus    float64
	elapsed  time.Duration

	target      int
	targetValid bool
}

func NewAutopilot(cfg Config) *Autopilot {
	if cfg.ThinkInterval <= 0 {
		cfg.ThinkInterval = 750 * time.Millisecond
	}
	if cfg.ActRate == 0 {
		cfg.ActRate = 0.8
	}
	if cfg.Focus == 0 {
		cfg.Focus = 0.6
	}
	return &Autopilot{
		playerID: cfg.PlayerID,
		world:    cfg.World,
		cmd:      cfg.Commander,
		rng:      cfg.Rng,
		logger:   cfg.Logger.With().Str("component", "Autopilot").Int("player_id", cfg.PlayerID).Logger(),
		moves:    rules.NewLegalMoveCalculator(),
		interval: cfg.ThinkInterval,
		actRate:  cfg.ActRate,
		focus:    cfg.Focus,
	}
}

// Update accumulates time and thinks once the interval has passed.
// It reports whether a command was accepted.
func (a *Autopilot) Update(dt time.Duration) bool {
	a.elapsed += dt
	if a.elapsed < a.interval {
		return false
	}
	a.elapsed = 0
	return a.think()
}

func (a *Autopilot) think() bool {
	p, ok := a.world.Player(a.playerID)
	if !ok || !p.IsAlive() {
		return false
	}
	if a.rng.Float64() > a.actRate {
		return false
	}

	cmds := a.moves.LegalCommands(a.world, p)
	if len(cmds) == 0 {
		return false
	}

	choice := cmds[a.rng.Intn(len(cmds))]
	if a.rng.Float64() < a.focus {
		if c, ok := a.advance(cmds); ok {
			choice = c
		}
	}

	var err error
	if choice.Attack {
		_, err = a.cmd.AttackByID(choice.SourceID, choice.TargetID, 0)
	} else {
		_, err = a.cmd.TransferByID(choice.SourceID, choice.TargetID, 0)
	}
	if err != nil {
		a.logger.Debug().Err(err).Int("source_id", choice.SourceID).Int("target_id", choice.TargetID).Msg("Autopilot command rejected")
		return false
	}

	a.logger.Debug().
		Int("source_id", choice.SourceID).
		Int("target_id", choice.TargetID).
		Bool("attack", choice.Attack).
		Msg("Autopilot command issued")
	return true
}

// advance picks the command whose target is closest to the target throne.
func (a *Autopilot) advance(cmds []rules.Command) (rules.Command, bool) {
	throne, ok := a.targetThrone()
	if !ok {
		return rules.Command{}, false
	}
	best, bestDist := rules.Command{}, math.Inf(1)
	for _, c := range cmds {
		dst, ok := a.world.Territory(c.TargetID)
		if !ok {
			continue
		}
		if d := dst.DistanceTo(throne); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// targetThrone returns the cached enemy throne, choosing the nearest one to
// our own throne when the cache is empty.
func (a *Autopilot) targetThrone() (*core.Territory, bool) {
	if a.targetValid {
		if t, ok := a.world.Territory(a.target); ok && t.IsThroneStar && t.OwnerID != a.playerID {
			return t, true
		}
		a.targetValid = false
	}

	home, ok := a.world.ThroneOf(a.playerID)
	if !ok {
		return nil, false
	}
	var best *core.Territory
	for _, p := range a.world.Players() {
		if p.ID == a.playerID || !p.IsAlive() {
			continue
		}
		t, ok := a.world.ThroneOf(p.ID)
		if !ok {
			continue
		}
		if best == nil || home.DistanceTo(t) < home.DistanceTo(best) {
			best = t
		}
	}
	if best == nil {
		return nil, false
	}
	a.target, a.targetValid = best.ID, true
	a.logger.Debug().Int("throne_id", best.ID).Int("owner_id", best.OwnerID).Msg("Autopilot picked target throne")
	return best, true
}

// Invalidate drops the cached target throne.
func (a *Autopilot) Invalidate() { a.targetValid = false }

// Target returns the cached target throne, if any.
func (a *Autopilot) Target() (int, bool) { return a.target, a.targetValid }

func (a *Autopilot) ID() string { return "autopilot-" + strconv.Itoa(a.playerID) }

func (a *Autopilot) InterestedIn(eventType string) bool {
	return eventType == events.TypePlayerEliminated
}

// HandleEvent invalidates the target cache whenever an empire falls.
func (a *Autopilot) HandleEvent(e events.Event) {
	if _, ok := e.(*events.PlayerEliminatedEvent); ok {
		a.Invalidate()
	}
}

var (
	_ Commander         = (*combat.Engine)(nil)
	_ events.Subscriber = (*Autopilot)(nil)
)
