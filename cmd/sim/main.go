package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/ThroneStar/internal/config"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/session"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/states"
)

// sim runs autopilot-only galaxies as fast as the CPU allows and prints who
// won each one.
func main() {
	configPath := flag.String("config", "", "Path to config file")
	games := flag.Int("games", 1, "Number of galaxies to play")
	seed := flag.Int64("seed", 0, "Seed for the first galaxy (0 uses config, then time)")
	stars := flag.Int("stars", 0, "Stars per galaxy (0 uses config)")
	players := flag.Int("players", 0, "Empires per galaxy (0 uses config)")
	verbose := flag.Bool("v", false, "Log every battle")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := *config.Get()
	cfg.UI.AIOnly = true
	cfg.AI.Enabled = true
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *stars > 0 {
		cfg.Galaxy.Stars = *stars
	}
	if *players > 0 {
		cfg.Galaxy.Players = *players
	}
	if err := config.Validate(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	zerolog.SetGlobalLevel(level)

	wins := make(map[int]int)
	for i := 0; i < *games; i++ {
		if cfg.Simulation.Seed != 0 && i > 0 {
			cfg.Simulation.Seed++
		}
		winner, elapsed, battles, err := play(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "game %d: %v\n", i+1, err)
			os.Exit(1)
		}
		wins[winner]++
		if winner < 0 {
			fmt.Printf("game %d: undecided after %s (%d battles)\n", i+1, elapsed, battles)
			continue
		}
		fmt.Printf("game %d: empire %d won in %s (%d battles)\n", i+1, winner+1, elapsed, battles)
	}

	if *games > 1 {
		for p := 0; p < cfg.Galaxy.Players; p++ {
			fmt.Printf("empire %d: %d wins\n", p+1, wins[p])
		}
		fmt.Printf("undecided: %d\n", wins[-1])
	}
}

// play runs one galaxy to completion or the configured time limit.
func play(cfg config.Config, logger zerolog.Logger) (winner int, elapsed time.Duration, battles int, err error) {
	sess, err := session.New(cfg, session.Options{Logger: logger})
	if err != nil {
		return -1, 0, 0, err
	}
	sess.Bus().SubscribeFunc(events.TypeBattleCompleted, func(events.Event) { battles++ })
	if err := sess.Start(); err != nil {
		return -1, 0, 0, err
	}

	tick := time.Duration(cfg.Simulation.TickMs) * time.Millisecond
	limit := time.Duration(cfg.Simulation.MaxDurationS) * time.Second
	for sess.Phase() == states.PhaseRunning && sess.Elapsed() < limit {
		sess.Update(tick)
	}
	return sess.Winner(), sess.Elapsed().Round(time.Millisecond), battles, nil
}
