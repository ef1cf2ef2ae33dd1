package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"example.com/workoutmap/internal/events"
	"example.com/workoutmap/internal/publisher"
)

// Tally counts the events seen by a LogHandler.
type Tally struct {
	Logged  map[string]int
	Cleared int
	Skipped int
}

// LogHandler writes each workout event to a logger.
type LogHandler struct {
	logger zerolog.Logger

	mu    sync.Mutex
	tally Tally
}

// NewLogHandler constructs a LogHandler.
func NewLogHandler(logger zerolog.Logger) *LogHandler {
	return &LogHandler{logger: logger, tally: Tally{Logged: make(map[string]int)}}
}

// Handle decodes the payload according to the event_type header. Unknown
// event types are skipped.
func (h *LogHandler) Handle(_ context.Context, msg Message) error {
	switch eventType := msg.Headers[publisher.HeaderEventType]; eventType {
	case events.TypeWorkoutLogged:
		var evt events.WorkoutLogged
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", eventType, err)
		}
		h.logger.Info().
			Str("workout_id", evt.WorkoutID).
			Str("type", evt.Type).
			Str("description", evt.Description).
			Float64("distance_km", evt.DistanceKm).
			Float64("duration_min", evt.DurationMin).
			Float64("metric", evt.Metric).
			Str("metric_unit", evt.MetricUnit).
			Msg("workout logged")

		h.mu.Lock()
		h.tally.Logged[evt.Type]++
		h.mu.Unlock()
	case events.TypeLogCleared:
		var evt events.LogCleared
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", eventType, err)
		}
		h.logger.Info().Int("removed", evt.Removed).Time("occurred_at", evt.OccurredAt).Msg("log cleared")

		h.mu.Lock()
		h.tally.Cleared++
		h.mu.Unlock()
	default:
		h.mu.Lock()
		h.tally.Skipped++
		h.mu.Unlock()
	}
	return nil
}

// Tally returns a copy of the counts so far.
func (h *LogHandler) Tally() Tally {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := Tally{Logged: make(map[string]int, len(h.tally.Logged)), Cleared: h.tally.Cleared, Skipped: h.tally.Skipped}
	for k, v := range h.tally.Logged {
		out.Logged[k] = v
	}
	return out
}
