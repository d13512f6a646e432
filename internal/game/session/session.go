// Package session assembles one playable galaxy: the generated world, the
// combat engine, the local player's input state machine and the computer
// empires, all driven by a single simulation clock.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ThroneStar/internal/common"
	"github.com/mitchelldurbincs/ThroneStar/internal/config"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/ai"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/combat"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/feedback"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/input"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/mapgen"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/rules"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/states"
)

// ErrNotRunning is returned by controls that need a running session.
var ErrNotRunning = errors.New("session is not running")

// Options carries the collaborators that do not come from config.
type Options struct {
	// GameID names the session in logs and events. Empty means a random UUID.
	GameID string
	Logger zerolog.Logger
}

// Session owns everything one galaxy needs. Like the engine it is driven
// from a single goroutine; only Phase and Winner may be read concurrently.
type Session struct {
	id     string
	cfg    config.Config
	logger zerolog.Logger
	rng    *rand.Rand

	world    *core.World
	bus      *events.EventBus
	engine   *combat.Engine
	feedback *feedback.TerritoryWriter
	fsm      *input.FSM
	pilots   []*ai.Autopilot
	phases   *states.StateMachine
}

// New generates a galaxy from cfg and wires a session around it. The session
// starts in PhaseInitializing; call Start to run it.
func New(cfg config.Config, opts Options) (*Session, error) {
	id := opts.GameID
	if id == "" {
		id = uuid.NewString()
	}
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		id:     id,
		cfg:    cfg,
		logger: opts.Logger.With().Str("component", "Session").Str("game_id", id).Logger(),
		rng:    rand.New(rand.NewSource(seed)),
	}
	ctx := states.NewGameContext(id, cfg.Galaxy.Players, opts.Logger)
	s.phases = states.NewStateMachine(ctx, currentBus{s})

	if err := s.build(); err != nil {
		if failErr := s.phases.Fail(err); failErr != nil {
			s.logger.Error().Err(failErr).Msg("Failed to record session error")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("seed", seed).
		Int("stars", cfg.Galaxy.Stars).
		Int("players", cfg.Galaxy.Players).
		Bool("ai_only", s.fsm == nil).
		Msg("Session created")
	return s, nil
}

// build generates a fresh world and rewires every component to it.
func (s *Session) build() error {
	players := s.players()

	gen := mapgen.NewGenerator(galaxyConfig(s.cfg.Galaxy), s.rng)
	world, err := gen.Generate(players)
	if err != nil {
		return fmt.Errorf("generating galaxy: %w", err)
	}

	bus := events.NewEventBus()
	logSub := subscribers.NewLoggerSubscriber("session-log", s.logger, zerolog.InfoLevel)
	logSub.SetDevMode(s.cfg.Development.VerboseLogging)
	bus.Subscribe(logSub)

	s.world = world
	s.bus = bus
	s.feedback = feedback.NewTerritoryWriter(
		func() time.Duration { return s.engine.Now() },
		ms(s.cfg.Feedback.ParticleLifeMs),
		ms(s.cfg.Feedback.FlightLifeMs),
	)

	engine, err := combat.NewEngine(combat.EngineConfig{
		GameID:   s.id,
		Settings: CombatSettings(s.cfg),
		World:    world,
		Rng:      s.rng,
		Logger:   s.logger,
		Events:   bus,
		Feedback: s.feedback,
		Bonus:    rules.TechBonus{Step: s.cfg.Combat.BonusStep, Cap: s.cfg.Combat.BonusCap},
		OnThroneCaptured: func(eliminated, winner *core.Player) {
			s.logger.Info().
				Str("eliminated", eliminated.Name).
				Str("conqueror", winner.Name).
				Int("conqueror_territories", winner.TerritoryCount()).
				Msg("Throne captured")
		},
	})
	if err != nil {
		return fmt.Errorf("creating combat engine: %w", err)
	}
	s.engine = engine

	s.fsm = nil
	if human, ok := world.HumanPlayer(); ok {
		s.fsm = input.NewFSM(input.Config{
			PlayerID:  human.ID,
			Commander: engine,
			Feedback:  s.feedback,
			Logger:    s.logger,
			Percentages: input.Percentages{
				Base:    s.cfg.Input.BasePercent,
				Full:    s.cfg.Input.FullPercent,
				Quarter: s.cfg.Input.QuarterPercent,
			},
			ErrorTextDuration: ms(s.cfg.Input.ErrorTextMs),
		})
		bus.Subscribe(s.fsm)
	}

	s.pilots = s.pilots[:0]
	if s.cfg.AI.Enabled {
		for _, p := range players {
			if p.Human {
				continue
			}
			pilot := ai.NewAutopilot(ai.Config{
				PlayerID:      p.ID,
				World:         world,
				Commander:     engine,
				Rng:           rand.New(rand.NewSource(s.rng.Int63())),
				Logger:        s.logger,
				ThinkInterval: ms(s.cfg.AI.ThinkIntervalMs),
			})
			bus.Subscribe(pilot)
			s.pilots = append(s.pilots, pilot)
		}
	}

	bus.SubscribeFunc(events.TypeGameEnded, s.onGameEnded)
	return nil
}

func (s *Session) players() []*core.Player {
	n := s.cfg.Galaxy.Players
	palette := common.Palette(s.cfg.Colors.Players, n)
	players := make([]*core.Player, n)
	for i := range players {
		p := core.NewPlayer(i, fmt.Sprintf("Empire %d", i+1), palette[i])
		if !s.cfg.UI.AIOnly && i == s.cfg.UI.HumanPlayer {
			p.Human = true
			p.Name = "You"
		}
		players[i] = p
	}
	return players
}

func (s *Session) onGameEnded(e events.Event) {
	ended, ok := e.(*events.GameEndedEvent)
	if !ok {
		return
	}
	if err := s.phases.End(ended.Winner, ended.Reason); err != nil {
		s.logger.Error().Err(err).Msg("Failed to end session")
	}
}

// Start moves a freshly built session into play.
func (s *Session) Start() error {
	if err := s.phases.TransitionTo(states.PhaseRunning, "galaxy ready"); err != nil {
		return err
	}
	human := -1
	if s.fsm != nil {
		human = s.cfg.UI.HumanPlayer
	}
	s.bus.Publish(events.NewGameStartedEvent(s.id, len(s.world.Players()), len(s.world.Territories()), human))
	return nil
}

// Update advances the simulation by dt while the session is running.
// Autopilots think before the engine so their launches share the tick.
func (s *Session) Update(dt time.Duration) {
	if !s.phases.CurrentPhase().CanReceiveCommands() {
		return
	}
	for _, p := range s.pilots {
		p.Update(dt)
	}
	s.engine.Update(dt)

	now := s.engine.Now()
	for _, t := range s.world.Territories() {
		feedback.Expire(t, now)
	}
}

// Pause stops the clock.
func (s *Session) Pause() error {
	return s.phases.TransitionTo(states.PhasePaused, "paused")
}

// Resume restarts a paused clock.
func (s *Session) Resume() error {
	return s.phases.TransitionTo(states.PhaseRunning, "resumed")
}

// TogglePause flips between running and paused.
func (s *Session) TogglePause() error {
	switch s.phases.CurrentPhase() {
	case states.PhaseRunning:
		return s.Pause()
	case states.PhasePaused:
		return s.Resume()
	default:
		return ErrNotRunning
	}
}

// Restart builds a new galaxy after the session ended or failed.
func (s *Session) Restart() error {
	if err := s.phases.Reset(); err != nil {
		return err
	}
	if err := s.build(); err != nil {
		if failErr := s.phases.Fail(err); failErr != nil {
			s.logger.Error().Err(failErr).Msg("Failed to record session error")
		}
		return err
	}
	s.logger.Info().Msg("Session restarted")
	return s.Start()
}

// Tap forwards a selection tap on t (nil for empty space) to the local player.
func (s *Session) Tap(t *core.Territory, mods input.Modifier) {
	s.handle(input.Tap(t, mods))
}

// Inspect forwards a secondary click.
func (s *Session) Inspect(t *core.Territory) {
	s.handle(input.Inspect(t))
}

// Key forwards a key press.
func (s *Session) Key(k input.Key) {
	s.handle(input.KeyPress(k))
}

func (s *Session) handle(ev input.Event) {
	if s.fsm == nil || !s.phases.CurrentPhase().CanReceiveCommands() {
		return
	}
	s.fsm.HandleInput(ev)
}

// Tune applies reloaded combat pacing to the running engine.
func (s *Session) Tune(cfg config.Config) {
	s.cfg.Combat = cfg.Combat
	s.cfg.Feedback = cfg.Feedback
	s.engine.Tune(CombatSettings(s.cfg))
	s.logger.Info().Msg("Combat settings reloaded")
}

func (s *Session) ID() string                          { return s.id }
func (s *Session) World() *core.World                  { return s.world }
func (s *Session) Engine() *combat.Engine              { return s.engine }
func (s *Session) Bus() *events.EventBus               { return s.bus }
func (s *Session) Feedback() *feedback.TerritoryWriter { return s.feedback }
func (s *Session) Phase() states.GamePhase             { return s.phases.CurrentPhase() }
func (s *Session) Elapsed() time.Duration              { return s.engine.Now() }

// FSM returns the local player's input machine, or nil in AI-only sessions.
func (s *Session) FSM() *input.FSM { return s.fsm }

// Selected returns the local player's selected territory, if any.
func (s *Session) Selected() *core.Territory {
	if s.fsm == nil {
		return nil
	}
	return s.fsm.Selected()
}

// Winner returns the winning player ID, or -1 while undecided.
func (s *Session) Winner() int {
	if s.phases.CurrentPhase() != states.PhaseEnded {
		return -1
	}
	return s.phases.Winner()
}

// currentBus forwards to whichever bus the session is wired to, so phase
// events survive a restart.
type currentBus struct{ s *Session }

func (c currentBus) Publish(e events.Event) {
	if c.s.bus != nil {
		c.s.bus.Publish(e)
	}
}

// CombatSettings converts config milliseconds into engine settings.
func CombatSettings(cfg config.Config) combat.Settings {
	return combat.Settings{
		TravelDelay:      ms(cfg.Combat.TravelDelayMs),
		RoundInterval:    ms(cfg.Combat.RoundIntervalMs),
		BaseWinChance:    cfg.Combat.BaseWinChance,
		MinWinChance:     cfg.Combat.MinWinChance,
		MaxWinChance:     cfg.Combat.MaxWinChance,
		DefaultSendRatio: cfg.Combat.DefaultSendRatio,
		FlashDuration:    ms(cfg.Feedback.FlashMs),
		TextDuration:     ms(cfg.Feedback.TextMs),
	}
}

func galaxyConfig(g config.GalaxyConfig) mapgen.GalaxyConfig {
	return mapgen.GalaxyConfig{
		Width:            g.Width,
		Height:           g.Height,
		Stars:            g.Stars,
		PlayerCount:      g.Players,
		NeighborRadius:   g.NeighborRadius,
		MinStarSpacing:   g.MinStarSpacing,
		HomeArmies:       g.HomeArmies,
		NeutralMinArmies: g.NeutralMinArmies,
		NeutralMaxArmies: g.NeutralMaxArmies,
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
