// Package persistence saves and loads the workout log through a string key-value store.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"example.com/workoutmap/internal/workout"
)

// Key is the store key the whole log is written under.
const Key = "workouts"

// Store is the string key-value store the log is persisted to.
type Store interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	RemoveKey(ctx context.Context, key string) error
}

// Adapter serialises the log to and from a Store.
type Adapter struct {
	store  Store
	logger zerolog.Logger
}

// NewAdapter constructs an Adapter.
func NewAdapter(store Store, logger zerolog.Logger) *Adapter {
	return &Adapter{store: store, logger: logger}
}

// Save overwrites the stored log with records.
func (a *Adapter) Save(ctx context.Context, records []workout.Record) error {
	if records == nil {
		records = []workout.Record{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode workouts: %w", err)
	}
	if err := a.store.SetString(ctx, Key, string(body)); err != nil {
		return fmt.Errorf("store workouts: %w", err)
	}
	return nil
}

// Load returns the stored records. A missing key and an undecodable payload
// both yield (nil, nil). Stored metrics are returned as-is, never recomputed.
func (a *Adapter) Load(ctx context.Context) ([]workout.Record, error) {
	raw, ok, err := a.store.GetString(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("read workouts: %w", err)
	}
	if !ok || raw == "" || raw == "null" {
		return nil, nil
	}

	var records []workout.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		a.logger.Warn().Err(err).Str("key", Key).Msg("ignoring unreadable workout log")
		return nil, nil
	}
	return records, nil
}

// Clear removes the stored log.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.store.RemoveKey(ctx, Key); err != nil {
		return fmt.Errorf("remove workouts: %w", err)
	}
	return nil
}
