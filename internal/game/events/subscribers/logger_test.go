package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ThroneStar/internal/game/events"
	"github.com/mitchelldurbincs/ThroneStar/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeBattleCompleted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "GameStartedEvent",
			event: events.NewGameStartedEvent("test-game-1", 4, 30, 0),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(4), logLine["num_players"])
				assert.Equal(t, float64(30), logLine["num_territories"])
			},
		},
		{
			name:  "BattleLaunchedEvent",
			event: events.NewBattleLaunchedEvent("test-game-1", "b-1", 3, 8, 0, 5, time.Second, 0),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "b-1", logLine["battle_id"])
				assert.Equal(t, float64(3), logLine["source_id"])
				assert.Equal(t, float64(8), logLine["target_id"])
				assert.Equal(t, float64(5), logLine["armies"])
			},
		},
		{
			name:  "BattleCompletedEvent",
			event: events.NewBattleCompletedEvent("test-game-1", "b-1", true, 3, 8, 0, 1, 2, time.Second),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, true, logLine["attacker_won"])
				assert.Equal(t, float64(0), logLine["attacker_id"])
				assert.Equal(t, float64(1), logLine["defender_id"])
				assert.Equal(t, float64(2), logLine["survivors"])
			},
		},
		{
			name:  "PlayerEliminatedEvent",
			event: events.NewPlayerEliminatedEvent("test-game-1", 2, 0, 6, time.Second),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["player_id"])
				assert.Equal(t, float64(0), logLine["eliminated_by"])
				assert.Equal(t, float64(6), logLine["territories_lost"])
			},
		},
		{
			name:  "GameEndedEvent",
			event: events.NewGameEndedEvent("test-game-1", 0, "throne captured", 5*time.Minute),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(0), logLine["winner"])
				assert.Equal(t, "throne captured", logLine["reason"])
				assert.Equal(t, float64(300000), logLine["sim_time"]) // 5 minutes in ms
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			logOutput := buf.String()
			require.NotEmpty(t, logOutput, "Log output should not be empty")

			var logLine map[string]interface{}
			err := json.Unmarshal([]byte(logOutput), &logLine)
			require.NoError(t, err, "Should be able to parse log output as JSON")

			assert.Equal(t, "Game event", logLine["message"])
			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "test-game-1", logLine["game_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberRoundsAreDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	logSub := subscribers.NewLoggerSubscriber("round-logger", logger, zerolog.InfoLevel)
	logSub.HandleEvent(events.NewBattleRoundEvent("g", "b", 1, false, 3, 2, 0))

	assert.Empty(t, buf.String(), "round events are suppressed above debug")
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("filtered-logger", logger, zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeGameStarted, events.TypeGameEnded})

	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeGameEnded))
	assert.False(t, logSub.InterestedIn(events.TypeBattleLaunched))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeBattleLaunched))
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("dev-logger", logger, zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewCommandRejectedEvent("g", 0, 1, 2, "need more armies for attack"))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
	assert.Equal(t, "need more armies for attack", logLine["reason"])
	assert.Contains(t, logLine, "event_data")
}

func TestLoggerSubscriberOnBus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	bus := events.NewEventBus()
	logSub := subscribers.NewLoggerSubscriber("bus-logger", logger, zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeTransferLanded})
	bus.Subscribe(logSub)

	bus.Publish(events.NewGameStartedEvent("g", 2, 10, 0))
	assert.Empty(t, buf.String())

	bus.Publish(events.NewTransferLandedEvent("g", 1, 2, 0, 4, time.Second))
	assert.Contains(t, buf.String(), `"armies":4`)
}
