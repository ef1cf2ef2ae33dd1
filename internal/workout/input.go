package workout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput is returned when a numeric form field is not a usable number.
	ErrInvalidInput = errors.New("input must be a positive number")
	// ErrUnknownType is returned for a form type other than running or cycling.
	ErrUnknownType = errors.New("unknown workout type")
)

// FormInput mirrors the raw values of the new-workout form.
type FormInput struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

// Entry is a validated form submission, ready to become a Record.
type Entry struct {
	Kind        Kind
	DistanceKm  float64
	DurationMin float64
	Cadence     float64
	Elevation   float64
}

// Parse converts and validates the form values.
//
// Every value must be finite. Distance, duration and cadence must be strictly
// positive. Elevation gain is only checked for finiteness, so zero or negative
// climbs are accepted for cycling. The derived pace or speed must be finite too,
// otherwise the record could not be stored.
func (in FormInput) Parse() (Entry, error) {
	kind := Kind(strings.TrimSpace(in.Type))
	if !kind.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}

	entry := Entry{
		Kind:        kind,
		DistanceKm:  parseNumber(in.Distance),
		DurationMin: parseNumber(in.Duration),
	}

	switch kind {
	case KindRunning:
		entry.Cadence = parseNumber(in.Cadence)
		if !finite(entry.DistanceKm, entry.DurationMin, entry.Cadence) ||
			!positive(entry.DistanceKm, entry.DurationMin, entry.Cadence) {
			return Entry{}, ErrInvalidInput
		}
	case KindCycling:
		entry.Elevation = parseNumber(in.Elevation)
		if !finite(entry.DistanceKm, entry.DurationMin, entry.Elevation) ||
			!positive(entry.DistanceKm, entry.DurationMin) {
			return Entry{}, ErrInvalidInput
		}
	}
	if !finite(entry.metric()) {
		return Entry{}, ErrInvalidInput
	}
	return entry, nil
}

// Record builds the variant record for the entry at the given coordinates.
func (e Entry) Record(clock Clock, coords Coordinates) Record {
	if e.Kind == KindCycling {
		return NewCycling(clock, coords, e.DistanceKm, e.DurationMin, e.Elevation)
	}
	return NewRunning(clock, coords, e.DistanceKm, e.DurationMin, e.Cadence)
}

func (e Entry) metric() float64 {
	if e.Kind == KindCycling {
		return speed(e.DistanceKm, e.DurationMin)
	}
	return pace(e.DistanceKm, e.DurationMin)
}

// parseNumber follows form semantics: a blank field reads as zero and
// anything unparsable reads as NaN.
func parseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func positive(values ...float64) bool {
	for _, v := range values {
		if !(v > 0) {
			return false
		}
	}
	return true
}
