// Package geo resolves the user's current position.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"example.com/workoutmap/internal/workout"
)

// ErrUnavailable is returned when no position can be determined.
var ErrUnavailable = errors.New("position unavailable")

// Provider resolves a position once.
type Provider interface {
	Position(ctx context.Context) (workout.Coordinates, error)
}

// StaticProvider always answers with a fixed position.
type StaticProvider struct {
	Coords workout.Coordinates
}

// Position implements Provider.
func (p StaticProvider) Position(context.Context) (workout.Coordinates, error) {
	return p.Coords, nil
}

// UnavailableProvider never resolves a position.
type UnavailableProvider struct{}

// Position implements Provider.
func (UnavailableProvider) Position(context.Context) (workout.Coordinates, error) {
	return workout.Coordinates{}, ErrUnavailable
}

// HTTPProvider looks the position up from a JSON endpoint answering
// {"latitude": ..., "longitude": ...}.
type HTTPProvider struct {
	client *http.Client
	url    string
}

// NewHTTPProvider constructs an HTTPProvider.
func NewHTTPProvider(endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
	}
}

// Position implements Provider.
func (p *HTTPProvider) Position(ctx context.Context) (workout.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return workout.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return workout.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return workout.Coordinates{}, &LookupError{Status: resp.StatusCode}
	}

	var payload struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return workout.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if payload.Latitude == nil || payload.Longitude == nil {
		return workout.Coordinates{}, fmt.Errorf("%w: response missing latitude/longitude", ErrUnavailable)
	}
	return workout.Coordinates{Lat: *payload.Latitude, Lng: *payload.Longitude}, nil
}

// LookupError represents a non-successful lookup response.
type LookupError struct {
	Status int
}

func (e *LookupError) Error() string {
	return "position lookup failed with status " + http.StatusText(e.Status)
}

// Unwrap lets callers match lookup failures with errors.Is(err, ErrUnavailable).
func (e *LookupError) Unwrap() error {
	return ErrUnavailable
}
