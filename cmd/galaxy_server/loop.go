package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/ThroneStar/internal/config"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/session"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/states"
	"github.com/mitchelldurbincs/ThroneStar/internal/monitoring"
)

// runSession advances sess in real time until it is decided, passes the
// configured limit, or ctx is cancelled. It is the only goroutine that
// touches the session; config reloads arrive on reloads.
func runSession(ctx context.Context, sess *session.Session, sim config.SimulationConfig, monitor *monitoring.SessionMonitor, reloads <-chan config.Config) {
	tick := time.Duration(sim.TickMs) * time.Millisecond
	limit := time.Duration(sim.MaxDurationS) * time.Second

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-reloads:
			sess.Tune(c)
		case <-ticker.C:
			sess.Update(tick)
			monitor.Record(sample(sess))

			if sess.Phase() == states.PhaseEnded {
				log.Info().Int("winner", sess.Winner()).Dur("sim_time", sess.Elapsed()).Msg("Galaxy decided")
				return
			}
			if limit > 0 && sess.Elapsed() >= limit {
				log.Warn().
					Dur("sim_time", sess.Elapsed()).
					Int("alive_players", sess.World().AlivePlayers()).
					Msg("Session hit its time limit undecided")
				return
			}
		}
	}
}

func sample(sess *session.Session) monitoring.Sample {
	eng := sess.Engine()
	return monitoring.Sample{
		Phase:             sess.Phase().String(),
		Elapsed:           sess.Elapsed(),
		AlivePlayers:      sess.World().AlivePlayers(),
		PendingBattles:    len(eng.PendingBattles()),
		ActiveBattles:     len(eng.ActiveBattles()),
		TransfersInFlight: eng.TransfersInFlight(),
	}
}
