// Package combat resolves fleet attacks between territories: ships depart
// immediately, arrive after a fixed delay, then fight coin-flip rounds until
// one side is gone.
package combat

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/core"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/feedback"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/rules"
)

// NeutralColor tints feedback for unowned defenders.
var NeutralColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}

// Settings holds combat tuning.
type Settings struct {
	TravelDelay      time.Duration
	RoundInterval    time.Duration
	BaseWinChance    float64
	MinWinChance     float64
	MaxWinChance     float64
	DefaultSendRatio float64
	FlashDuration    time.Duration
	TextDuration     time.Duration
}

// DefaultSettings returns the standard pacing: one second of travel and a
// round every 50ms at even odds.
func DefaultSettings() Settings {
	return Settings{
		TravelDelay:      1000 * time.Millisecond,
		RoundInterval:    50 * time.Millisecond,
		BaseWinChance:    0.5,
		MinWinChance:     0.1,
		MaxWinChance:     0.9,
		DefaultSendRatio: 0.5,
		FlashDuration:    150 * time.Millisecond,
		TextDuration:     1500 * time.Millisecond,
	}
}

// WinChecker evaluates whether the session is decided.
type WinChecker interface {
	CheckGameOver(players []rules.Player) (bool, int)
}

// EngineConfig wires an engine to its world and collaborators.
// Zero-valued collaborators are replaced with defaults.
type EngineConfig struct {
	GameID   string
	Settings Settings
	World    *core.World
	Rng      core.Random
	Logger   zerolog.Logger
	Events   events.Publisher
	Feedback feedback.Sink
	Bonus    rules.BonusRule
	WinCheck WinChecker

	// OnThroneCaptured runs after an elimination cascade with the fallen
	// empire and the conqueror.
	OnThroneCaptured func(eliminated, winner *core.Player)
}

// Engine owns all battles of a session. It is not safe for concurrent use;
// every method runs on the simulation goroutine.
type Engine struct {
	gameID    string
	settings  Settings
	world     *core.World
	rng       core.Random
	logger    zerolog.Logger
	events    events.Publisher
	feedback  feedback.Sink
	bonus     rules.BonusRule
	winCheck  WinChecker
	onThrone  func(eliminated, winner *core.Player)
	namespace uuid.UUID

	now       time.Duration
	seq       int
	pending   []*Battle
	active    []*Battle
	transfers []*transfer

	gameOver bool
	winner   int
}

// NewEngine builds an engine. World and Rng are required.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.World == nil {
		return nil, fmt.Errorf("combat engine requires a world")
	}
	if cfg.Rng == nil {
		return nil, fmt.Errorf("combat engine requires a random source")
	}
	if cfg.GameID == "" {
		cfg.GameID = "local"
	}
	if cfg.Settings == (Settings{}) {
		cfg.Settings = DefaultSettings()
	}
	if cfg.Events == nil {
		cfg.Events = events.NopPublisher{}
	}
	if cfg.Feedback == nil {
		cfg.Feedback = feedback.Nop{}
	}
	if cfg.Bonus == nil {
		cfg.Bonus = rules.DefaultTechBonus()
	}
	logger := cfg.Logger.With().Str("component", "CombatEngine").Logger()
	if cfg.WinCheck == nil {
		cfg.WinCheck = rules.NewEliminationChecker(logger, len(cfg.World.Players()))
	}

	return &Engine{
		gameID:    cfg.GameID,
		settings:  cfg.Settings,
		world:     cfg.World,
		rng:       cfg.Rng,
		logger:    logger,
		events:    cfg.Events,
		feedback:  cfg.Feedback,
		bonus:     cfg.Bonus,
		winCheck:  cfg.WinCheck,
		onThrone:  cfg.OnThroneCaptured,
		namespace: uuid.NewSHA1(uuid.NameSpaceURL, []byte("thronestar:"+cfg.GameID)),
		winner:    -1,
	}, nil
}

// SendCount sizes a fleet as a fraction of the ships a territory can spare.
// Anything that can launch sends at least one ship; nothing leaves the last one.
func SendCount(armySize int, fraction float64) int {
	if armySize <= 1 {
		return 0
	}
	n := int(math.Floor(float64(armySize-1) * fraction))
	if n < 1 {
		n = 1
	}
	if n > armySize-1 {
		n = armySize - 1
	}
	return n
}

// Attack launches ships from src at dst. armies == 0 sends the default share.
// On failure nothing is mutated.
func (e *Engine) Attack(src, dst *core.Territory, armies int) (Launch, error) {
	sourceID, targetID := territoryIDs(src, dst)
	if err := e.validate(src, dst); err != nil {
		return Launch{}, e.reject("attack", src, sourceID, targetID, err)
	}
	if dst.OwnerID == src.OwnerID {
		return Launch{}, e.reject("attack", src, sourceID, targetID, core.ErrOwnTerritory)
	}
	n, err := e.commit(src, armies)
	if err != nil {
		return Launch{}, e.reject("attack", src, sourceID, targetID, err)
	}

	e.seq++
	b := &Battle{
		ID:         e.newID("battle"),
		SourceID:   src.ID,
		TargetID:   dst.ID,
		AttackerID: src.OwnerID,
		Armies:     n,
		LaunchedAt: e.now,
		ArrivalAt:  e.now + e.settings.TravelDelay,
	}
	e.pending = append(e.pending, b)

	e.feedback.LaunchShips(src, dst, true, n)
	e.events.Publish(events.NewBattleLaunchedEvent(e.gameID, b.ID, b.SourceID, b.TargetID, b.AttackerID, n, b.ArrivalAt, e.now))
	e.logger.Debug().
		Str("battle_id", b.ID).
		Int("source_id", src.ID).
		Int("target_id", dst.ID).
		Int("attacker_id", b.AttackerID).
		Int("armies", n).
		Dur("arrival_at", b.ArrivalAt).
		Msg("Attack launched")

	return Launch{ID: b.ID, Armies: n, ArrivalAt: b.ArrivalAt}, nil
}

// Transfer sends reinforcements between two territories of the same owner.
func (e *Engine) Transfer(src, dst *core.Territory, armies int) (Launch, error) {
	sourceID, targetID := territoryIDs(src, dst)
	if err := e.validate(src, dst); err != nil {
		return Launch{}, e.reject("transfer", src, sourceID, targetID, err)
	}
	if dst.OwnerID != src.OwnerID {
		return Launch{}, e.reject("transfer", src, sourceID, targetID, core.ErrNotFriendly)
	}
	n, err := e.commit(src, armies)
	if err != nil {
		return Launch{}, e.reject("transfer", src, sourceID, targetID, err)
	}

	e.seq++
	tr := &transfer{
		id:        e.newID("transfer"),
		sourceID:  src.ID,
		targetID:  dst.ID,
		playerID:  src.OwnerID,
		armies:    n,
		arrivalAt: e.now + e.settings.TravelDelay,
	}
	e.transfers = append(e.transfers, tr)

	e.feedback.LaunchShips(src, dst, false, n)
	e.logger.Debug().
		Str("transfer_id", tr.id).
		Int("source_id", src.ID).
		Int("target_id", dst.ID).
		Int("armies", n).
		Msg("Transfer launched")

	return Launch{ID: tr.id, Armies: n, ArrivalAt: tr.arrivalAt}, nil
}

// AttackByID resolves territory IDs and calls Attack.
func (e *Engine) AttackByID(sourceID, targetID, armies int) (Launch, error) {
	src, _ := e.world.Territory(sourceID)
	dst, _ := e.world.Territory(targetID)
	if src == nil || dst == nil {
		return Launch{}, e.reject("attack", src, sourceID, targetID, core.ErrMissingTerritory)
	}
	return e.Attack(src, dst, armies)
}

// TransferByID resolves territory IDs and calls Transfer.
func (e *Engine) TransferByID(sourceID, targetID, armies int) (Launch, error) {
	src, _ := e.world.Territory(sourceID)
	dst, _ := e.world.Territory(targetID)
	if src == nil || dst == nil {
		return Launch{}, e.reject("transfer", src, sourceID, targetID, core.ErrMissingTerritory)
	}
	return e.Transfer(src, dst, armies)
}

// validate holds the checks shared by attacks and transfers.
func (e *Engine) validate(src, dst *core.Territory) error {
	if e.gameOver {
		return core.ErrGameOver
	}
	if src == nil || dst == nil || !e.inWorld(src) || !e.inWorld(dst) {
		return core.ErrMissingTerritory
	}
	if src.ID == dst.ID {
		return core.ErrSameTerritory
	}
	if src.IsNeutral() {
		return core.ErrNeutralSource
	}
	if p, ok := e.world.Player(src.OwnerID); !ok || p.Eliminated {
		return core.ErrInvalidAttacker
	}
	if !src.CanLaunch() {
		return core.ErrInsufficientArmy
	}
	return nil
}

// commit sizes the fleet and deducts it from the source.
func (e *Engine) commit(src *core.Territory, requested int) (int, error) {
	n := requested
	if n == 0 {
		n = SendCount(src.ArmySize, e.settings.DefaultSendRatio)
	}
	if n < 0 || src.ArmySize-n < 1 {
		e.logger.Error().
			Int("territory_id", src.ID).
			Int("army_size", src.ArmySize).
			Int("requested", requested).
			Msg("Refusing army deduction that would leave territory undefended")
		return 0, core.ErrArmyDeduction
	}
	src.ArmySize -= n
	return n, nil
}

func (e *Engine) reject(op string, src *core.Territory, sourceID, targetID int, err error) error {
	playerID := core.NeutralID
	if src != nil {
		playerID = src.OwnerID
	}
	e.logger.Debug().
		Err(err).
		Str("op", op).
		Int("source_id", sourceID).
		Int("target_id", targetID).
		Msg("Command rejected")
	e.events.Publish(events.NewCommandRejectedEvent(e.gameID, playerID, sourceID, targetID, core.Reason(err)))
	return core.WrapCommandError(op, sourceID, targetID, err)
}

func (e *Engine) inWorld(t *core.Territory) bool {
	wt, ok := e.world.Territory(t.ID)
	return ok && wt == t
}

func (e *Engine) newID(kind string) string {
	return uuid.NewSHA1(e.namespace, []byte(fmt.Sprintf("%s/%d", kind, e.seq))).String()
}

func territoryIDs(src, dst *core.Territory) (int, int) {
	sourceID, targetID := -1, -1
	if src != nil {
		sourceID = src.ID
	}
	if dst != nil {
		targetID = dst.ID
	}
	return sourceID, targetID
}

// Update advances the combat clock by dt: convoys land, arrived fleets start
// fighting, and every active battle that is due fights one round.
func (e *Engine) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	e.now += dt

	e.landTransfers()
	e.promoteArrivals()
	e.fightRounds()
}

func (e *Engine) landTransfers() {
	kept := e.transfers[:0]
	for _, tr := range e.transfers {
		if tr.arrivalAt > e.now {
			kept = append(kept, tr)
			continue
		}
		target, ok := e.world.Territory(tr.targetID)
		if !ok {
			e.logger.Warn().Str("transfer_id", tr.id).Int("target_id", tr.targetID).Msg("Transfer target vanished, convoy lost")
			continue
		}
		if e.contested(target.ID) {
			kept = append(kept, tr)
			continue
		}
		player, ok := e.world.Player(tr.playerID)
		if !ok || player.Eliminated {
			e.logger.Debug().Str("transfer_id", tr.id).Int("player_id", tr.playerID).Msg("Convoy of eliminated empire disbanded")
			continue
		}
		if target.OwnerID == tr.playerID {
			target.ArmySize += tr.armies
			e.events.Publish(events.NewTransferLandedEvent(e.gameID, tr.sourceID, tr.targetID, tr.playerID, tr.armies, e.now))
			continue
		}

		// The destination fell while the convoy was in transit: it arrives as an attack.
		e.pending = append(e.pending, &Battle{
			ID:         tr.id,
			SourceID:   tr.sourceID,
			TargetID:   tr.targetID,
			AttackerID: tr.playerID,
			Armies:     tr.armies,
			LaunchedAt: tr.arrivalAt - e.settings.TravelDelay,
			ArrivalAt:  e.now,
		})
		e.logger.Info().Str("battle_id", tr.id).Int("target_id", tr.targetID).Msg("Convoy arrived at a lost territory and attacks")
	}
	e.transfers = kept
}

func (e *Engine) promoteArrivals() {
	kept := e.pending[:0]
	for _, b := range e.pending {
		if b.ArrivalAt > e.now {
			kept = append(kept, b)
			continue
		}
		target, ok := e.world.Territory(b.TargetID)
		if !ok {
			e.logger.Warn().Str("battle_id", b.ID).Int("target_id", b.TargetID).Msg("Battle target vanished before arrival, skipping")
			e.abandon(b)
			continue
		}
		// One fight per target at a time; later fleets wait in orbit.
		if e.contested(target.ID) {
			kept = append(kept, b)
			continue
		}
		attacker, ok := e.world.Player(b.AttackerID)
		if !ok || attacker.Eliminated {
			e.logger.Debug().Str("battle_id", b.ID).Int("attacker_id", b.AttackerID).Msg("Fleet of eliminated empire disbanded")
			e.abandon(b)
			continue
		}
		if target.OwnerID == b.AttackerID {
			target.ArmySize += b.Armies
			e.feedback.ShowFloatingText(target, fmt.Sprintf("+%d", b.Armies), e.settings.TextDuration)
			e.events.Publish(events.NewBattleCompletedEvent(e.gameID, b.ID, true, b.SourceID, b.TargetID, b.AttackerID, b.AttackerID, b.Armies, e.now))
			e.logger.Debug().Str("battle_id", b.ID).Int("target_id", target.ID).Msg("Fleet arrived at friendly territory and garrisons it")
			continue
		}
		e.activate(b, target, attacker)
	}
	e.pending = kept
}

func (e *Engine) activate(b *Battle, target *core.Territory, attacker *core.Player) {
	var defender *core.Player
	if p, ok := e.world.Player(target.OwnerID); ok {
		defender = p
	}
	chance := e.WinChance(attacker, defender)

	b.fight = &Engagement{
		DefenderID:    target.OwnerID,
		WinChance:     chance,
		AttackersLeft: b.Armies,
		DefendersLeft: target.ArmySize,
		LastRoundAt:   e.now,
	}
	e.active = append(e.active, b)

	e.events.Publish(events.NewBattleStartedEvent(e.gameID, b.ID, target.ID, b.AttackerID, target.OwnerID, chance, b.Armies, target.ArmySize, e.now))
	e.logger.Debug().
		Str("battle_id", b.ID).
		Int("target_id", target.ID).
		Float64("win_chance", chance).
		Int("attackers", b.Armies).
		Int("defenders", target.ArmySize).
		Msg("Fleet arrived, battle started")
}

// WinChance is the attacker's per-round odds against a defender, nil for neutral.
func (e *Engine) WinChance(attacker, defender *core.Player) float64 {
	chance := e.settings.BaseWinChance + e.bonus.AttackBonus(attacker)
	if defender != nil {
		chance -= e.bonus.DefenseBonus(defender)
	}
	return math.Max(e.settings.MinWinChance, math.Min(e.settings.MaxWinChance, chance))
}

func (e *Engine) fightRounds() {
	battles := e.active
	kept := make([]*Battle, 0, len(battles))
	for _, b := range battles {
		target, ok := e.world.Territory(b.TargetID)
		if !ok {
			e.logger.Warn().Str("battle_id", b.ID).Int("target_id", b.TargetID).Msg("Battle target vanished mid-fight, skipping")
			e.abandon(b)
			continue
		}
		if attacker, ok := e.world.Player(b.AttackerID); !ok || attacker.Eliminated {
			b.fight.AttackersLeft = 0
		}
		// A throne cascade elsewhere can hand the target to a new owner mid-fight.
		if target.OwnerID != b.fight.DefenderID && b.fight.AttackersLeft > 0 {
			if target.OwnerID == b.AttackerID {
				e.garrison(b, target)
				continue
			}
			e.changeDefender(b, target)
		}
		if b.over() {
			e.complete(b, target)
			continue
		}
		if e.now-b.fight.LastRoundAt < e.settings.RoundInterval {
			kept = append(kept, b)
			continue
		}
		e.fightRound(b, target)
		if b.over() {
			e.complete(b, target)
			continue
		}
		kept = append(kept, b)
	}
	e.active = kept
}

func (e *Engine) fightRound(b *Battle, target *core.Territory) {
	f := b.fight
	f.LastRoundAt = e.now

	attackerLost := e.rng.Float64() >= f.WinChance
	var loser color.RGBA
	if attackerLost {
		f.AttackersLeft--
		loser = e.playerColor(b.AttackerID)
	} else {
		f.DefendersLeft--
		target.ArmySize = max(0, f.DefendersLeft)
		loser = e.playerColor(f.DefenderID)
	}

	total := b.Armies + f.DefendersLeft + 1
	intensity := 1 - float64(f.AttackersLeft+f.DefendersLeft)/float64(total)
	e.feedback.FlashTerritory(target, loser, e.settings.FlashDuration)
	e.feedback.SpawnParticles(target.X, target.Y, loser, math.Max(0.2, intensity))
	e.events.Publish(events.NewBattleRoundEvent(e.gameID, b.ID, target.ID, attackerLost, f.AttackersLeft, f.DefendersLeft, e.now))
}

// garrison ends a battle whose target the attacker now owns: the surviving
// fleet lands on top of the existing garrison.
func (e *Engine) garrison(b *Battle, target *core.Territory) {
	f := b.fight
	target.ArmySize += f.AttackersLeft
	e.feedback.ShowFloatingText(target, fmt.Sprintf("+%d", f.AttackersLeft), e.settings.TextDuration)
	e.events.Publish(events.NewBattleCompletedEvent(e.gameID, b.ID, true, b.SourceID, b.TargetID, b.AttackerID, f.DefenderID, f.AttackersLeft, e.now))
	e.logger.Debug().
		Str("battle_id", b.ID).
		Int("target_id", target.ID).
		Int("armies", f.AttackersLeft).
		Msg("Target changed hands to the attacker mid-fight, fleet garrisons it")
}

// changeDefender keeps fighting against whoever holds the target now, with
// the garrison and odds read afresh.
func (e *Engine) changeDefender(b *Battle, target *core.Territory) {
	f := b.fight
	var defender *core.Player
	if p, ok := e.world.Player(target.OwnerID); ok {
		defender = p
	}
	attacker, _ := e.world.Player(b.AttackerID)

	previous := f.DefenderID
	f.DefenderID = target.OwnerID
	f.DefendersLeft = target.ArmySize
	f.WinChance = e.WinChance(attacker, defender)
	e.logger.Debug().
		Str("battle_id", b.ID).
		Int("target_id", target.ID).
		Int("previous_defender_id", previous).
		Int("defender_id", f.DefenderID).
		Float64("win_chance", f.WinChance).
		Msg("Target changed hands mid-fight, defender replaced")
}

// abandon drops a battle that can no longer resolve. Listeners still hear
// about it so nothing waits on it forever.
func (e *Engine) abandon(b *Battle) {
	defender := core.NeutralID
	if b.fight != nil {
		defender = b.fight.DefenderID
	}
	e.events.Publish(events.NewBattleCompletedEvent(e.gameID, b.ID, false, b.SourceID, b.TargetID, b.AttackerID, defender, 0, e.now))
}

func (e *Engine) contested(targetID int) bool {
	for _, b := range e.active {
		if b.TargetID == targetID {
			return true
		}
	}
	return false
}

func (e *Engine) playerColor(id int) color.RGBA {
	if p, ok := e.world.Player(id); ok {
		return p.Color
	}
	return NeutralColor
}

// Now returns the combat clock.
func (e *Engine) Now() time.Duration { return e.now }

// PendingBattles returns copies of the battles still in transit, in launch order.
func (e *Engine) PendingBattles() []Battle { return snapshots(e.pending) }

// ActiveBattles returns copies of the battles being fought, in activation order.
func (e *Engine) ActiveBattles() []Battle { return snapshots(e.active) }

// Battle looks up an unresolved battle by ID.
func (e *Engine) Battle(id string) (Battle, bool) {
	for _, list := range [][]*Battle{e.pending, e.active} {
		for _, b := range list {
			if b.ID == id {
				return b.snapshot(), true
			}
		}
	}
	return Battle{}, false
}

// TransfersInFlight counts convoys that have not landed.
func (e *Engine) TransfersInFlight() int { return len(e.transfers) }

// CommittedArmies sums ships launched by a player that have not resolved yet.
func (e *Engine) CommittedArmies(playerID int) int {
	total := 0
	for _, b := range e.pending {
		if b.AttackerID == playerID {
			total += b.Armies
		}
	}
	for _, b := range e.active {
		if b.AttackerID == playerID {
			total += b.fight.AttackersLeft
		}
	}
	for _, tr := range e.transfers {
		if tr.playerID == playerID {
			total += tr.armies
		}
	}
	return total
}

func (e *Engine) IsGameOver() bool { return e.gameOver }

// Winner returns the winning player ID, or -1 while undecided or on a draw.
func (e *Engine) Winner() int { return e.winner }

// Settings returns the tuning in use.
func (e *Engine) Settings() Settings { return e.settings }

// Tune swaps combat tuning. Battles already fighting keep their odds.
func (e *Engine) Tune(s Settings) {
	e.settings = s
	e.logger.Info().
		Dur("travel_delay", s.TravelDelay).
		Dur("round_interval", s.RoundInterval).
		Msg("Combat settings updated")
}

func snapshots(list []*Battle) []Battle {
	out := make([]Battle, len(list))
	for i, b := range list {
		out[i] = b.snapshot()
	}
	return out
}
