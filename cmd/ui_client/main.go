package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/ThroneStar/internal/config"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/session"
	"github.com/mitchelldurbincs/ThroneStar/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	aiOnly := flag.Bool("ai-only", false, "Watch computer empires play each other")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := *config.Get()
	if *aiOnly {
		cfg.UI.AIOnly = true
	}

	level := zerolog.InfoLevel
	if cfg.Development.VerboseLogging {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	sess, err := session.New(cfg, session.Options{Logger: log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}
	if err := sess.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start session")
	}

	uiGame := ui.NewUIGame(sess, cfg, log.Logger)

	ebiten.SetWindowSize(cfg.UI.Window.Width, cfg.UI.Window.Height)
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(uiGame); err != nil {
		log.Fatal().Err(err).Msg("UI exited with error")
	}
}
