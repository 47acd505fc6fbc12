package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("QUIZ_SUBMIT_GRACE", "")
	t.Setenv("AUTH_PROVIDER", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "jwt", cfg.Auth.Provider)
	assert.True(t, cfg.Quiz.EnforceTimeLimit)
	assert.Equal(t, 2*time.Minute, cfg.Quiz.SubmitGrace)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("QUIZ_SUBMIT_GRACE", "30s")
	t.Setenv("QUIZ_ENFORCE_TIME_LIMIT", "false")
	t.Setenv("CORS_ORIGINS", "https://lms.example.com, http://localhost:5173")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 30*time.Second, cfg.Quiz.SubmitGrace)
	assert.False(t, cfg.Quiz.EnforceTimeLimit)
	assert.Equal(t, []string{"https://lms.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.GetKafkaBrokers())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "mysql")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("casdoor without endpoint", func(t *testing.T) {
		t.Setenv("AUTH_PROVIDER", "casdoor")
		t.Setenv("CASDOOR_ENDPOINT", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestCreateEventPublisher_Mock(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, cfg := range []EventConfig{
		{Enabled: false, Publisher: "kafka"},
		{Enabled: true, Publisher: " Mock "},
		{Enabled: false, Publisher: "carrier-pigeon"},
	} {
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		_, ok := publisher.(*events.MockEventPublisher)
		assert.True(t, ok)
	}
}

func TestCreateEventPublisher_Misconfigured(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := (&EventConfig{Enabled: true, Publisher: "carrier-pigeon"}).CreateEventPublisher(logger)
	assert.ErrorContains(t, err, "unknown event publisher")

	_, err = (&EventConfig{Enabled: true, Publisher: "kafka", NotificationTopic: "notifications"}).CreateEventPublisher(logger)
	assert.ErrorContains(t, err, "no kafka brokers")
}
