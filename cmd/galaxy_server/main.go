package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/ThroneStar/internal/config"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/session"
	"github.com/mitchelldurbincs/ThroneStar/internal/monitoring"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay (loads config.<env>.yaml)")
	port := flag.Int("port", -1, "Listen port (-1 keeps server.port)")
	host := flag.String("host", "", "Listen host (empty keeps server.host)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (empty keeps server.log_level)")
	reflect := flag.Bool("enable-reflection", false, "Register gRPC reflection")
	watch := flag.Bool("watch-config", false, "Reload combat tuning when the config file changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	// The server has no human at the controls.
	cfg := *config.Get()
	cfg.UI.AIOnly = true

	if *port == -1 {
		*port = cfg.Server.Port
	}
	if *host == "" {
		*host = cfg.Server.Host
	}
	if *logLevel == "" {
		*logLevel = cfg.Server.LogLevel
	}
	*reflect = *reflect || cfg.Server.EnableReflection

	setupLogging(*logLevel, cfg.Server.LogFormat)

	sess, err := session.New(cfg, session.Options{Logger: log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}
	log.Info().
		Str("game_id", sess.ID()).
		Int("stars", cfg.Galaxy.Stars).
		Int("players", cfg.Galaxy.Players).
		Msg("Starting galaxy server")

	srv, err := newHost(*host, *port, *reflect)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := monitoring.NewSessionMonitor(30*time.Second, 1000)
	go monitor.Run(ctx)

	reloads := make(chan config.Config, 1)
	if *watch {
		config.WatchConfig(func(c *config.Config, err error) {
			if err != nil {
				log.Error().Err(err).Msg("Config reload rejected, keeping previous settings")
				return
			}
			select {
			case reloads <- *c:
			default:
				log.Warn().Msg("Config reload already queued")
			}
		})
		log.Info().Str("file", config.ConfigFilePath()).Msg("Watching config for changes")
	}

	if err := sess.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start session")
	}
	srv.sessionServing(true)

	go func() {
		runSession(ctx, sess, cfg.Simulation, monitor, reloads)
		// The process stays up after a decided galaxy so it can be inspected.
		srv.sessionServing(false)
	}()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		srv.stop(time.Duration(cfg.Server.GracefulShutdownDelay) * time.Second)
		cancel()
	}()

	go func() {
		if err := srv.serve(); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}

// setupLogging configures the global logger: a console writer for
// "console", JSON for anything else.
func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = newLogger(format, os.Stdout)
}

func newLogger(format string, out io.Writer) zerolog.Logger {
	if format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
