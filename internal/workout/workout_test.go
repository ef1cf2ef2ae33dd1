package workout

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestNewRunningComputesPace(t *testing.T) {
	clock := fixedClock(time.Date(2024, time.April, 14, 9, 30, 0, 0, time.UTC))

	cases := []struct {
		distance, duration float64
	}{
		{5, 30},
		{3.3, 17},
		{42.195, 211.7},
		{0.1, 0.7},
	}
	for _, tc := range cases {
		r := NewRunning(clock, Coordinates{Lat: 10, Lng: 20}, tc.distance, tc.duration, 170)
		require.Equal(t, tc.duration/tc.distance, r.Pace)
		require.Equal(t, KindRunning, r.Kind)
		require.Equal(t, float64(170), r.Cadence)
		require.Zero(t, r.Speed)
	}
}

func TestNewCyclingKeepsSpeedFormula(t *testing.T) {
	clock := fixedClock(time.Date(2024, time.April, 14, 9, 30, 0, 0, time.UTC))

	r := NewCycling(clock, Coordinates{Lat: 1, Lng: 2}, 27, 95, 523)
	require.Equal(t, 27.0/95.0/60, r.Speed)
	require.Equal(t, float64(523), r.ElevationGain)
	require.Zero(t, r.Pace)

	value, unit := r.Metric()
	require.Equal(t, r.Speed, value)
	require.Equal(t, "km/h", unit)
}

func TestDescription(t *testing.T) {
	march3 := fixedClock(time.Date(2023, time.March, 3, 12, 0, 0, 0, time.UTC))
	require.Equal(t, "Running on March 3", NewRunning(march3, Coordinates{}, 1, 1, 1).Description)
	require.Equal(t, "Cycling on March 3", NewCycling(march3, Coordinates{}, 1, 1, 0).Description)

	dec31 := fixedClock(time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC))
	require.Equal(t, "Running on December 31", NewRunning(dec31, Coordinates{}, 1, 1, 1).Description)
}

func TestIDUsesLastTenDigitsOfMillis(t *testing.T) {
	at := time.UnixMilli(1713087000123).UTC()
	r := NewRunning(fixedClock(at), Coordinates{}, 1, 1, 1)
	require.Equal(t, "3087000123", r.ID)
	require.Equal(t, at, r.CreatedAt)
	require.Zero(t, r.ClickCount)
}

func TestClickIncrements(t *testing.T) {
	r := NewRunning(nil, Coordinates{}, 1, 1, 1)
	r.Click()
	r.Click()
	require.Equal(t, 2, r.ClickCount)
}

func TestCoordinatesJSONIsPair(t *testing.T) {
	raw, err := json.Marshal(Coordinates{Lat: 51.5, Lng: -0.12})
	require.NoError(t, err)
	require.JSONEq(t, `[51.5,-0.12]`, string(raw))

	var c Coordinates
	require.NoError(t, json.Unmarshal([]byte(`[10, 20]`), &c))
	require.Equal(t, Coordinates{Lat: 10, Lng: 20}, c)

	require.Error(t, json.Unmarshal([]byte(`[10]`), &c))
}

func TestParseRunning(t *testing.T) {
	entry, err := FormInput{Type: "running", Distance: "5", Duration: "30", Cadence: "150"}.Parse()
	require.NoError(t, err)
	require.Equal(t, Entry{Kind: KindRunning, DistanceKm: 5, DurationMin: 30, Cadence: 150}, entry)

	r := entry.Record(nil, Coordinates{Lat: 10, Lng: 20})
	require.Equal(t, float64(6), r.Pace)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		input FormInput
	}{
		{"negative distance", FormInput{Type: "running", Distance: "-5", Duration: "30", Cadence: "150"}},
		{"nan distance", FormInput{Type: "running", Distance: "NaN", Duration: "30", Cadence: "150"}},
		{"garbage duration", FormInput{Type: "running", Distance: "5", Duration: "abc", Cadence: "150"}},
		{"zero cadence", FormInput{Type: "running", Distance: "5", Duration: "30", Cadence: "0"}},
		{"blank cadence", FormInput{Type: "running", Distance: "5", Duration: "30"}},
		{"infinite duration", FormInput{Type: "cycling", Distance: "5", Duration: "Inf", Elevation: "10"}},
		{"zero cycling distance", FormInput{Type: "cycling", Distance: "0", Duration: "30", Elevation: "10"}},
		{"nan elevation", FormInput{Type: "cycling", Distance: "5", Duration: "30", Elevation: "x"}},
		{"pace overflows", FormInput{Type: "running", Distance: "1e-300", Duration: "1e300", Cadence: "150"}},
		{"speed overflows", FormInput{Type: "cycling", Distance: "1e300", Duration: "1e-300", Elevation: "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.Parse()
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Equal(t, "input must be a positive number", err.Error())
		})
	}
}

func TestParseAcceptsNonPositiveElevation(t *testing.T) {
	for _, elevation := range []string{"-10", "0", ""} {
		entry, err := FormInput{Type: "cycling", Distance: "20", Duration: "60", Elevation: elevation}.Parse()
		require.NoError(t, err, elevation)
		require.LessOrEqual(t, entry.Elevation, 0.0)
	}
}

func TestParseUnknownType(t *testing.T) {
	_, err := FormInput{Type: "swimming", Distance: "1", Duration: "1"}.Parse()
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestParseNumber(t *testing.T) {
	require.Equal(t, float64(0), parseNumber("  "))
	require.Equal(t, 2.5, parseNumber(" 2.5 "))
	require.True(t, math.IsNaN(parseNumber("1,5")))
}

func TestRecordJSONWritesVariantFields(t *testing.T) {
	clock := fixedClock(time.Date(2024, time.April, 14, 9, 30, 0, 0, time.UTC))

	flat := NewCycling(clock, Coordinates{Lat: 1, Lng: 2}, 20, 60, 0)
	raw, err := json.Marshal(flat)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.Contains(t, fields, "elevationGain")
	require.Contains(t, fields, "speed")
	require.NotContains(t, fields, "cadence")
	require.NotContains(t, fields, "pace")
	require.Equal(t, "cycling", fields["type"])

	var back Record
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, flat, back)

	run := NewRunning(clock, Coordinates{Lat: 1, Lng: 2}, 5, 30, 150)
	raw, err = json.Marshal(run)
	require.NoError(t, err)
	fields = nil
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.Equal(t, 150.0, fields["cadence"])
	require.Equal(t, 6.0, fields["pace"])
	require.NotContains(t, fields, "elevationGain")
	require.NotContains(t, fields, "speed")
}
