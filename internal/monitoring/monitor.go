package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sample is one snapshot of a running session, recorded by the simulation loop
type Sample struct {
	Phase             string
	Elapsed           time.Duration
	AlivePlayers      int
	PendingBattles    int
	ActiveBattles     int
	TransfersInFlight int
}

// SessionMonitor keeps the latest session sample and goroutine counts and
// logs them periodically. Record is called from the simulation goroutine;
// everything else may run anywhere.
type SessionMonitor struct {
	mu             sync.RWMutex
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration

	latest      Sample
	samples     int
	peakBattles int

	baseline int
	current  int
	peak     int
}

// NewSessionMonitor creates a monitor that checks every interval
func NewSessionMonitor(interval time.Duration, alertThreshold int) *SessionMonitor {
	baseline := runtime.NumGoroutine()
	return &SessionMonitor{
		checkInterval:  interval,
		alertThreshold: alertThreshold,
		alertCooldown:  5 * time.Minute,
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
	}
}

// Record stores the latest sample
func (m *SessionMonitor) Record(s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latest = s
	m.samples++
	if battles := s.PendingBattles + s.ActiveBattles; battles > m.peakBattles {
		m.peakBattles = battles
	}
}

// Run checks on every interval until ctx is done
func (m *SessionMonitor) Run(ctx context.Context) {
	log.Info().
		Int("baseline_goroutines", m.baseline).
		Dur("interval", m.checkInterval).
		Msg("Started session monitoring")

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-ctx.Done():
			return
		}
	}
}

// check samples goroutines and logs the latest session state
func (m *SessionMonitor) check() {
	current := runtime.NumGoroutine()

	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	shouldAlert := m.alertThreshold > 0 && current > m.alertThreshold &&
		time.Since(m.lastAlert) > m.alertCooldown
	if shouldAlert {
		m.lastAlert = time.Now()
	}
	s := m.latest
	m.mu.Unlock()

	log.Info().
		Str("phase", s.Phase).
		Dur("sim_time", s.Elapsed).
		Int("alive_players", s.AlivePlayers).
		Int("pending_battles", s.PendingBattles).
		Int("active_battles", s.ActiveBattles).
		Int("transfers", s.TransfersInFlight).
		Int("goroutines", current).
		Msg("Session metrics")

	if shouldAlert {
		log.Warn().
			Int("current", current).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// GetMetrics returns current metrics
func (m *SessionMonitor) GetMetrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Metrics{
		Latest:             m.latest,
		Samples:            m.samples,
		PeakBattles:        m.peakBattles,
		Goroutines:         m.current,
		BaselineGoroutines: m.baseline,
		PeakGoroutines:     m.peak,
		GoroutineGrowth:    m.current - m.baseline,
	}
}

// Metrics contains session and goroutine statistics
type Metrics struct {
	Latest             Sample `json:"latest"`
	Samples            int    `json:"samples"`
	PeakBattles        int    `json:"peak_battles"`
	Goroutines         int    `json:"goroutines"`
	BaselineGoroutines int    `json:"baseline_goroutines"`
	PeakGoroutines     int    `json:"peak_goroutines"`
	GoroutineGrowth    int    `json:"goroutine_growth"`
}
