// Package publisher delivers workout events to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/workoutmap/internal/events"
)

// HeaderEventType names the message header that carries the event type.
const HeaderEventType = "event_type"

// Publisher announces changes to the workout log.
type Publisher interface {
	WorkoutLogged(ctx context.Context, evt events.WorkoutLogged) error
	LogCleared(ctx context.Context, evt events.LogCleared) error
}

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// KafkaPublisher writes JSON encoded events to a single topic.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewKafkaPublisher constructs a KafkaPublisher.
func NewKafkaPublisher(writer messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, now: time.Now}
}

// WorkoutLogged implements Publisher. Messages are keyed by workout id.
func (p *KafkaPublisher) WorkoutLogged(ctx context.Context, evt events.WorkoutLogged) error {
	return p.publish(ctx, events.TypeWorkoutLogged, evt.WorkoutID, evt)
}

// LogCleared implements Publisher.
func (p *KafkaPublisher) LogCleared(ctx context.Context, evt events.LogCleared) error {
	return p.publish(ctx, events.TypeLogCleared, evt.EventID, evt)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  p.now().UTC(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(eventType)},
		},
	}
	start := time.Now()
	err = p.writer.WriteMessages(ctx, p.topic, msg)
	publishDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		failedCounter.WithLabelValues(eventType).Inc()
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	publishedCounter.WithLabelValues(eventType).Inc()
	return nil
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

// WorkoutLogged implements Publisher.
func (Noop) WorkoutLogged(context.Context, events.WorkoutLogged) error { return nil }

// LogCleared implements Publisher.
func (Noop) LogCleared(context.Context, events.LogCleared) error { return nil }
