// Package events defines the payloads published when the workout log changes.
package events

import (
	"time"

	"github.com/google/uuid"

	"example.com/workoutmap/internal/workout"
)

// Event type names carried in the event_type message header.
const (
	TypeWorkoutLogged = "workout.logged"
	TypeLogCleared    = "workout.log_cleared"
)

// Version of the payload schema.
const Version = "v1"

// WorkoutLogged is emitted after a workout is appended to the log.
type WorkoutLogged struct {
	EventID     string              `json:"event_id"`
	WorkoutID   string              `json:"workout_id"`
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Coords      workout.Coordinates `json:"coords"`
	DistanceKm  float64             `json:"distance_km"`
	DurationMin float64             `json:"duration_min"`
	Metric      float64             `json:"metric"`
	MetricUnit  string              `json:"metric_unit"`
	OccurredAt  time.Time           `json:"occurred_at"`
	Version     string              `json:"version"`
}

// LogCleared is emitted when the persisted log is removed.
type LogCleared struct {
	EventID    string    `json:"event_id"`
	Removed    int       `json:"removed"`
	OccurredAt time.Time `json:"occurred_at"`
	Version    string    `json:"version"`
}

// NewWorkoutLogged builds the event for a freshly logged record.
func NewWorkoutLogged(r workout.Record) WorkoutLogged {
	metric, unit := r.Metric()
	return WorkoutLogged{
		EventID:     uuid.NewString(),
		WorkoutID:   r.ID,
		Type:        string(r.Kind),
		Description: r.Description,
		Coords:      r.Coords,
		DistanceKm:  r.DistanceKm,
		DurationMin: r.DurationMin,
		Metric:      metric,
		MetricUnit:  unit,
		OccurredAt:  r.CreatedAt,
		Version:     Version,
	}
}

// NewLogCleared builds the event for a reset that dropped removed records.
func NewLogCleared(removed int, at time.Time) LogCleared {
	return LogCleared{
		EventID:    uuid.NewString(),
		Removed:    removed,
		OccurredAt: at.UTC(),
		Version:    Version,
	}
}
