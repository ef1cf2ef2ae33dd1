package view

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"example.com/workoutmap/internal/workout"
)

var itemTemplate = template.Must(template.New("workout").Parse(`<li class="workout workout--{{.Kind}}" data-id="{{.ID}}">
  <h2 class="workout__title">{{.Description}}</h2>
  <div class="workout__details">
    <span class="workout__icon">{{.Icon}}</span>
    <span class="workout__value">{{.Distance}}</span>
    <span class="workout__unit">km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⏱</span>
    <span class="workout__value">{{.Duration}}</span>
    <span class="workout__unit">min</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value">{{.Metric}}</span>
    <span class="workout__unit">{{.MetricUnit}}</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">{{.ExtraIcon}}</span>
    <span class="workout__value">{{.Extra}}</span>
    <span class="workout__unit">{{.ExtraUnit}}</span>
  </div>
</li>`))

type item struct {
	ID          string
	Kind        workout.Kind
	Description string
	Icon        string
	Distance    string
	Duration    string
	Metric      string
	MetricUnit  string
	Extra       string
	ExtraUnit   string
	ExtraIcon   string
}

// FormState describes the entry form.
type FormState struct {
	Visible          bool         `json:"visible"`
	Type             workout.Kind `json:"type"`
	CadenceVisible   bool         `json:"cadence_visible"`
	ElevationVisible bool         `json:"elevation_visible"`
}

// Snapshot is a copy of everything the HTMLView has rendered.
type Snapshot struct {
	Form   FormState `json:"form"`
	Items  []string  `json:"items"`
	Alerts []string  `json:"alerts"`
}

// HTMLView renders list items as HTML fragments and tracks form visibility.
type HTMLView struct {
	mu      sync.RWMutex
	form    FormState
	items   []string
	alerts  []string
	printer *message.Printer
}

// NewHTMLView constructs an HTMLView with the form hidden and set to running.
func NewHTMLView() *HTMLView {
	return &HTMLView{
		form:    initialForm(),
		printer: message.NewPrinter(language.English),
	}
}

func initialForm() FormState {
	return FormState{Type: workout.KindRunning, CadenceVisible: true}
}

// ShowForm implements View.
func (v *HTMLView) ShowForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Visible = true
}

// HideForm implements View. The selected type is kept; field values are
// owned and cleared by the client, so there is nothing else to reset here.
func (v *HTMLView) HideForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Visible = false
}

// ToggleElevationField implements View.
func (v *HTMLView) ToggleElevationField() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.form.CadenceVisible = !v.form.CadenceVisible
	v.form.ElevationVisible = !v.form.ElevationVisible
	if v.form.ElevationVisible {
		v.form.Type = workout.KindCycling
	} else {
		v.form.Type = workout.KindRunning
	}
}

// RenderWorkout implements View. New items are inserted directly after the
// form, so the list reads newest first.
func (v *HTMLView) RenderWorkout(r workout.Record) {
	fragment, err := v.render(r)
	if err != nil {
		log.Error().Err(err).Str("workout_id", r.ID).Msg("render workout")
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append([]string{fragment}, v.items...)
}

// Alert implements View.
func (v *HTMLView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, message)
}

// Reset implements View.
func (v *HTMLView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.form = initialForm()
	v.items = nil
	v.alerts = nil
}

// Snapshot returns a copy of the rendered state.
func (v *HTMLView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return Snapshot{
		Form:   v.form,
		Items:  append([]string{}, v.items...),
		Alerts: append([]string{}, v.alerts...),
	}
}

// ListHTML returns the rendered list items in display order.
func (v *HTMLView) ListHTML() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return strings.Join(v.items, "\n")
}

func (v *HTMLView) render(r workout.Record) (string, error) {
	metric, metricUnit := r.Metric()
	extra, extraUnit := r.Extra()
	extraIcon := "🦶🏼"
	if r.Kind == workout.KindCycling {
		extraIcon = "⛰"
	}

	data := item{
		ID:          r.ID,
		Kind:        r.Kind,
		Description: r.Description,
		Icon:        r.Icon(),
		Distance:    v.printer.Sprint(number.Decimal(r.DistanceKm)),
		Duration:    v.printer.Sprint(number.Decimal(r.DurationMin)),
		Metric:      v.printer.Sprint(number.Decimal(metric, number.MaxFractionDigits(1))),
		MetricUnit:  metricUnit,
		Extra:       v.printer.Sprint(number.Decimal(extra)),
		ExtraUnit:   extraUnit,
		ExtraIcon:   extraIcon,
	}

	var buf bytes.Buffer
	if err := itemTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
