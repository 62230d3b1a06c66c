package eventbus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/inkflow/inkflow/pkg/events"
)

// WatermillEventBus adapts any watermill publisher/subscriber pair (in-memory
// gochannel for development and tests, Kafka in production) to the EventBus
// contract.
type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		subscriptions: make(map[events.EventType]EventHandler),
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) {
	eb.subscriptions[eventType] = handler
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

			handler, exists := eb.subscriptions[eventType]
			if !exists {
				msg.Ack()

				continue
			}

			event, err := decodeEvent(eventType, msg.Payload)
			if err != nil {
				msg.Nack()

				continue
			}

			err = handler(ctx, event)
			if err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}

func decodeEvent(eventType events.EventType, payload []byte) (any, error) {
	var event any

	switch eventType {
	case events.DomainEventType:
		event = &events.DomainEvent{}
	case events.ExecutionStartedEvent:
		event = &events.ExecutionStarted{}
	case events.ExecutionCompletedEvent:
		event = &events.ExecutionCompleted{}
	case events.ExecutionFailedEvent:
		event = &events.ExecutionFailed{}
	case events.NotificationCreatedEvent:
		event = &events.NotificationCreated{}
	default:
		return nil, ErrUnknownEventType
	}

	err := json.Unmarshal(payload, event)
	if err != nil {
		return nil, err
	}

	return event, nil
}
