package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/events"
)

const (
	PublisherKafka = "kafka"
	PublisherMock  = "mock"
)

// EventConfig configures where notification events go
type EventConfig struct {
	Enabled           bool
	Publisher         string
	KafkaBrokers      string
	NotificationTopic string
}

func (c *EventConfig) GetKafkaBrokers() []string {
	return splitList(c.KafkaBrokers)
}

// CreateEventPublisher returns the in-memory publisher when events are disabled.
// An unknown publisher kind is a configuration error.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	kind := strings.ToLower(strings.TrimSpace(c.Publisher))
	if !c.Enabled {
		kind = PublisherMock
	}

	switch kind {
	case PublisherKafka:
		brokers := c.GetKafkaBrokers()
		logger.Info("Creating Kafka event publisher", "brokers", brokers, "topic", c.NotificationTopic)
		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: brokers,
			TopicName:    c.NotificationTopic,
			Logger:       logger,
		})
	case PublisherMock:
		logger.Info("Events are kept in memory", "enabled", c.Enabled)
		return events.NewMockEventPublisher(logger), nil
	default:
		return nil, fmt.Errorf("unknown event publisher %q", c.Publisher)
	}
}
