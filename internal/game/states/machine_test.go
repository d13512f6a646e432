package states

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
)

var allPhases = []GamePhase{
	PhaseInitializing, PhaseRunning, PhasePaused, PhaseEnded, PhaseError, PhaseReset,
}

// fakeClock drives GameContext.Now in tests.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newContext(clock *fakeClock) *GameContext {
	ctx := NewGameContext("test-game", 2, zerolog.Nop())
	ctx.Now = clock.Now
	return ctx
}

func TestGamePhase_String(t *testing.T) {
	tests := []struct {
		phase    GamePhase
		expected string
	}{
		{PhaseInitializing, "Initializing"},
		{PhaseRunning, "Running"},
		{PhasePaused, "Paused"},
		{PhaseEnded, "Ended"},
		{PhaseError, "Error"},
		{PhaseReset, "Reset"},
		{GamePhase(999), "Unknown(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
			if tt.phase != GamePhase(999) {
				assert.Equal(t, tt.phase, ParsePhase(tt.expected))
			}
		})
	}
	assert.Equal(t, PhaseInitializing, ParsePhase("Lobby"))
}

func TestGamePhase_Properties(t *testing.T) {
	assert.True(t, PhaseEnded.IsTerminal())
	assert.True(t, PhaseError.IsTerminal())
	assert.False(t, PhaseRunning.IsTerminal())
	assert.False(t, PhasePaused.IsTerminal())

	for _, p := range allPhases {
		assert.Equal(t, p == PhaseRunning, p.CanReceiveCommands(), p.String())
	}
}

func TestGamePhase_Transitions(t *testing.T) {
	tests := []struct {
		from    GamePhase
		allowed []GamePhase
	}{
		{PhaseInitializing, []GamePhase{PhaseRunning, PhaseError}},
		{PhaseRunning, []GamePhase{PhasePaused, PhaseEnded, PhaseError}},
		{PhasePaused, []GamePhase{PhaseRunning, PhaseEnded, PhaseError}},
		{PhaseEnded, []GamePhase{PhaseReset}},
		{PhaseError, []GamePhase{PhaseReset}},
		{PhaseReset, []GamePhase{PhaseInitializing}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())
			for _, target := range allPhases {
				assert.Equal(t, contains(tt.allowed, target), tt.from.CanTransitionTo(target), "%s -> %s", tt.from, target)
			}
		})
	}
	assert.Empty(t, GamePhase(42).AllowedTransitions())
}

func TestGameContext(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	ctx := newContext(clock)

	assert.Equal(t, "test-game", ctx.GameID)
	assert.Equal(t, 2, ctx.PlayerCount)
	assert.Equal(t, -1, ctx.Winner)
	assert.Equal(t, time.Duration(0), ctx.GetElapsedTime(), "not started")

	ctx.StartTime = clock.Now()
	clock.Advance(10 * time.Second)
	assert.Equal(t, 10*time.Second, ctx.GetElapsedTime())

	ctx.TotalPauseDuration = 4 * time.Second
	assert.Equal(t, 6*time.Second, ctx.GetElapsedTime())

	ctx.PauseTime = clock.Now()
	clock.Advance(time.Minute)
	assert.Equal(t, 6*time.Second, ctx.GetElapsedTime(), "frozen while paused")
}

func TestStateMachine(t *testing.T) {
	setup := func() (*StateMachine, *GameContext, *fakeClock, *[]*events.StateTransitionEvent) {
		clock := &fakeClock{now: time.Unix(1000, 0)}
		ctx := newContext(clock)
		bus := events.NewEventBus()
		var seen []*events.StateTransitionEvent
		bus.SubscribeFunc(events.TypeStateTransition, func(e events.Event) {
			seen = append(seen, e.(*events.StateTransitionEvent))
		})
		return NewStateMachine(ctx, bus), ctx, clock, &seen
	}

	t.Run("NewStateMachine", func(t *testing.T) {
		sm, ctx, _, _ := setup()
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Len(t, sm.impls, 6)
		assert.Same(t, ctx, sm.GetContext())
	})

	t.Run("Nil publisher", func(t *testing.T) {
		sm := NewStateMachine(newContext(&fakeClock{}), nil)
		assert.NoError(t, sm.TransitionTo(PhaseRunning, "start"))
	})

	t.Run("Full session", func(t *testing.T) {
		sm, ctx, clock, seen := setup()

		require.NoError(t, sm.TransitionTo(PhaseRunning, "galaxy ready"))
		started := ctx.StartTime
		assert.Equal(t, clock.Now(), started)

		clock.Advance(3 * time.Second)
		require.NoError(t, sm.TransitionTo(PhasePaused, "user paused"))
		clock.Advance(5 * time.Second)
		require.NoError(t, sm.TransitionTo(PhaseRunning, "user resumed"))
		assert.Equal(t, 5*time.Second, ctx.TotalPauseDuration)
		assert.Equal(t, started, ctx.StartTime, "resuming keeps the start time")
		assert.True(t, ctx.PauseTime.IsZero())

		clock.Advance(2 * time.Second)
		require.NoError(t, sm.End(1, "last empire standing"))
		assert.Equal(t, PhaseEnded, sm.CurrentPhase())
		assert.Equal(t, 1, ctx.Winner)
		assert.Equal(t, 1, sm.Winner())
		assert.Equal(t, 5*time.Second, ctx.GetElapsedTime(), "three seconds before the pause, two after")

		require.Len(t, *seen, 4)
		last := (*seen)[3]
		assert.Equal(t, "Running", last.FromPhase)
		assert.Equal(t, "Ended", last.ToPhase)
		assert.Equal(t, "last empire standing", last.Reason)
	})

	t.Run("Invalid Transitions", func(t *testing.T) {
		sm, _, _, seen := setup()

		err := sm.TransitionTo(PhaseEnded, "skip steps")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid transition")
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Empty(t, *seen)
		assert.Empty(t, sm.GetHistory())
	})

	t.Run("State Validation", func(t *testing.T) {
		sm, ctx, _, _ := setup()

		ctx.PlayerCount = 0
		err := sm.TransitionTo(PhaseRunning, "no empires")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no empires")

		ctx.PlayerCount = 2
		require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))

		err = sm.TransitionTo(PhaseError, "no error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires an error")

		err = sm.TransitionTo(PhaseEnded, "no reason recorded")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires an end reason")
		assert.Equal(t, PhaseRunning, sm.CurrentPhase())
	})

	t.Run("History Tracking", func(t *testing.T) {
		sm, _, _, _ := setup()

		require.NoError(t, sm.TransitionTo(PhaseRunning, "reason1"))
		require.NoError(t, sm.TransitionTo(PhasePaused, "reason2"))

		history := sm.GetHistory()
		require.Len(t, history, 2)
		assert.Equal(t, Transition{From: PhaseInitializing, To: PhaseRunning, Timestamp: time.Unix(1000, 0), Reason: "reason1"}, history[0])
		assert.Equal(t, PhasePaused, history[1].To)

		history[0].Reason = "mutated"
		assert.Equal(t, "reason1", sm.GetHistory()[0].Reason, "history is copied")
	})

	t.Run("History is bounded", func(t *testing.T) {
		sm, _, _, _ := setup()
		sm.maxHistorySize = 3
		require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))
		for i := 0; i < 5; i++ {
			require.NoError(t, sm.TransitionTo(PhasePaused, "pause"))
			require.NoError(t, sm.TransitionTo(PhaseRunning, "resume"))
		}
		history := sm.GetHistory()
		require.Len(t, history, 3)
		assert.Equal(t, PhaseRunning, history[2].To)
	})

	t.Run("Fail and Reset", func(t *testing.T) {
		sm, ctx, _, _ := setup()

		require.NoError(t, sm.Fail(errors.New("galaxy generation failed")))
		assert.Equal(t, PhaseError, sm.CurrentPhase())

		require.NoError(t, sm.Reset())
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Nil(t, ctx.Error)
		assert.Empty(t, sm.GetHistory())
	})

	t.Run("Reset after a win", func(t *testing.T) {
		sm, ctx, _, seen := setup()
		require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))
		require.NoError(t, sm.End(0, "human throne captured"))

		require.NoError(t, sm.Reset())
		assert.Equal(t, -1, ctx.Winner)
		assert.Empty(t, ctx.EndReason)
		assert.True(t, ctx.StartTime.IsZero())
		assert.Equal(t, "Initializing", (*seen)[len(*seen)-1].ToPhase)
	})

	t.Run("Draw", func(t *testing.T) {
		sm, _, _, _ := setup()
		require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))
		require.NoError(t, sm.End(-1, "mutual destruction"))
		assert.Equal(t, -1, sm.Winner())
	})

	t.Run("Reset requires a terminal phase", func(t *testing.T) {
		sm, _, _, _ := setup()
		require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))
		assert.Error(t, sm.Reset())
		assert.Equal(t, PhaseRunning, sm.CurrentPhase())
	})

	t.Run("CanTransitionTo", func(t *testing.T) {
		sm, _, _, _ := setup()
		assert.True(t, sm.CanTransitionTo(PhaseRunning))
		assert.True(t, sm.CanTransitionTo(PhaseError))
		assert.False(t, sm.CanTransitionTo(PhasePaused))
		assert.False(t, sm.CanTransitionTo(PhaseEnded))
	})
}

// MockState for testing custom state implementations
type MockState struct {
	phase       GamePhase
	enterCalled bool
	exitCalled  bool
	enterError  error
	exitError   error
}

func (m *MockState) Phase() GamePhase            { return m.phase }
func (m *MockState) Enter(*GameContext) error    { m.enterCalled = true; return m.enterError }
func (m *MockState) Exit(*GameContext) error     { m.exitCalled = true; return m.exitError }
func (m *MockState) Validate(*GameContext) error { return nil }

func TestStateMachine_CustomStates(t *testing.T) {
	t.Run("StateCallbacks", func(t *testing.T) {
		sm := NewStateMachine(newContext(&fakeClock{}), nil)
		initMock := &MockState{phase: PhaseInitializing, exitError: errors.New("ignored")}
		runMock := &MockState{phase: PhaseRunning}
		sm.RegisterState(initMock)
		sm.RegisterState(runMock)

		require.NoError(t, sm.TransitionTo(PhaseRunning, "test"))
		assert.True(t, initMock.exitCalled)
		assert.True(t, runMock.enterCalled)
	})

	t.Run("Enter failure rolls back", func(t *testing.T) {
		sm := NewStateMachine(newContext(&fakeClock{}), nil)
		sm.RegisterState(&MockState{phase: PhaseRunning, enterError: errors.New("boom")})

		err := sm.TransitionTo(PhaseRunning, "test")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	})
}

func contains(phases []GamePhase, p GamePhase) bool {
	for _, q := range phases {
		if q == p {
			return true
		}
	}
	return false
}
