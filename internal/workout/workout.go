// Package workout defines the workout records logged on the map and the ordered log that holds them.
package workout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind discriminates the workout variants.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// Valid reports whether k names a known variant.
func (k Kind) Valid() bool {
	return k == KindRunning || k == KindCycling
}

// Label returns the capitalised variant name used in descriptions.
func (k Kind) Label() string {
	return cases.Title(language.English).String(string(k))
}

// Clock supplies the construction time of a record.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

var months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Coordinates is a latitude/longitude pair. It encodes as a two element JSON array.
type Coordinates struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the pair as [lat, lng].
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// UnmarshalJSON decodes a [lat, lng] array.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinates: expected [lat, lng], got %d values", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("[%g, %g]", c.Lat, c.Lng)
}

// Record is one logged workout. Base fields are shared; the variant fields are
// populated according to Kind. Derived metrics are computed once by the constructors.
type Record struct {
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"date"`
	Coords      Coordinates `json:"coords"`
	DistanceKm  float64     `json:"distance"`
	DurationMin float64     `json:"duration"`
	Kind        Kind        `json:"type"`
	Description string      `json:"description"`
	ClickCount  int         `json:"clicks"`

	// running
	Cadence float64 `json:"cadence"`
	Pace    float64 `json:"pace"`

	// cycling
	ElevationGain float64 `json:"elevationGain"`
	Speed         float64 `json:"speed"`
}

type plainRecord Record

// variantJSON shadows the variant fields of the embedded record so only the
// pair belonging to the record's kind is written.
type variantJSON struct {
	plainRecord
	Cadence       *float64 `json:"cadence,omitempty"`
	Pace          *float64 `json:"pace,omitempty"`
	ElevationGain *float64 `json:"elevationGain,omitempty"`
	Speed         *float64 `json:"speed,omitempty"`
}

// MarshalJSON writes cadence and pace for running records and elevationGain
// and speed for cycling records, zero values included.
func (r Record) MarshalJSON() ([]byte, error) {
	out := variantJSON{plainRecord: plainRecord(r)}
	switch r.Kind {
	case KindRunning:
		out.Cadence, out.Pace = &r.Cadence, &r.Pace
	case KindCycling:
		out.ElevationGain, out.Speed = &r.ElevationGain, &r.Speed
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a record written by MarshalJSON. Missing variant fields read as zero.
func (r *Record) UnmarshalJSON(data []byte) error {
	var in variantJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Record(in.plainRecord)
	r.Cadence = deref(in.Cadence)
	r.Pace = deref(in.Pace)
	r.ElevationGain = deref(in.ElevationGain)
	r.Speed = deref(in.Speed)
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// NewRunning builds a running record with its pace (min/km) precomputed.
func NewRunning(clock Clock, coords Coordinates, distanceKm, durationMin, cadence float64) Record {
	r := newBase(clock, KindRunning, coords, distanceKm, durationMin)
	r.Cadence = cadence
	r.Pace = pace(distanceKm, durationMin)
	return r
}

// NewCycling builds a cycling record with its speed precomputed.
//
// Speed is distance / duration / 60. Duration is already in minutes so this is
// not km/h; the formula is kept as-is so stored logs stay comparable.
func NewCycling(clock Clock, coords Coordinates, distanceKm, durationMin, elevationGain float64) Record {
	r := newBase(clock, KindCycling, coords, distanceKm, durationMin)
	r.ElevationGain = elevationGain
	r.Speed = speed(distanceKm, durationMin)
	return r
}

func pace(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

func speed(distanceKm, durationMin float64) float64 {
	return distanceKm / durationMin / 60
}

func newBase(clock Clock, kind Kind, coords Coordinates, distanceKm, durationMin float64) Record {
	if clock == nil {
		clock = SystemClock
	}
	now := clock()
	return Record{
		ID:          idFromTime(now),
		CreatedAt:   now.UTC(),
		Coords:      coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Kind:        kind,
		Description: describe(kind, now),
	}
}

// idFromTime keeps the last ten digits of the Unix millisecond timestamp. Two
// records created within the same millisecond collide; Log.Append rejects the second.
func idFromTime(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 10 {
		ms = ms[len(ms)-10:]
	}
	return ms
}

func describe(kind Kind, t time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Label(), months[t.Month()-1], t.Day())
}

// Click increments the interaction counter.
func (r *Record) Click() {
	r.ClickCount++
}

// Metric returns the derived metric for the record's variant and its unit.
func (r Record) Metric() (float64, string) {
	switch r.Kind {
	case KindRunning:
		return r.Pace, "min/km"
	case KindCycling:
		return r.Speed, "km/h"
	default:
		return 0, ""
	}
}

// Extra returns the variant specific input value and its unit.
func (r Record) Extra() (float64, string) {
	switch r.Kind {
	case KindRunning:
		return r.Cadence, "spm"
	case KindCycling:
		return r.ElevationGain, "m"
	default:
		return 0, ""
	}
}

// Icon is the emoji shown next to the record in popups and the list.
func (r Record) Icon() string {
	if r.Kind == KindRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}
