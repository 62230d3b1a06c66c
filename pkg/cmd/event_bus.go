package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/inkflow/inkflow/pkg/channels/gochannel"
	"github.com/inkflow/inkflow/pkg/channels/kafka"
	"github.com/inkflow/inkflow/pkg/eventbus"
)

// NewEventBus builds the event bus from the provider name. Kafka is the
// production broker; the default in-memory gochannel serves development and
// single-process deployments.
func NewEventBus(provider, serviceName string, logger *slog.Logger) eventbus.EventBus {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, serviceName)
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	default:
		pub, sub := gochannel.CreateChannel(wmLogger)

		return eventbus.NewWatermillEventBus(pub, sub)
	}
}
