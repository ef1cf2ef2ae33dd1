// Package controller wires the map, the workout log, the view and persistence together.
//
// A Controller is a single actor: Run owns the State and executes commands one
// at a time, so concurrent callers observe a strictly sequential history.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"example.com/workoutmap/internal/events"
	"example.com/workoutmap/internal/geo"
	"example.com/workoutmap/internal/mapview"
	"example.com/workoutmap/internal/observability"
	"example.com/workoutmap/internal/publisher"
	"example.com/workoutmap/internal/view"
	"example.com/workoutmap/internal/workout"
)

const (
	// DefaultZoom is the zoom used when the map is created and when panning to a workout.
	DefaultZoom = 13
	// DefaultTileURL is the OpenStreetMap HOT tile template.
	DefaultTileURL = "https://{s}.tile.openstreetmap.fr/hot/{z}/{x}/{y}.png"
	// DefaultAttribution credits the tile provider.
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`

	// PositionAlert is shown once when the current position cannot be determined.
	PositionAlert = "Cannot access current location."
)

var (
	// ErrNoMapClick is returned when a workout is submitted before any map click.
	ErrNoMapClick = errors.New("no map position selected")
	// ErrMapNotReady is returned for map interactions before the map exists.
	ErrMapNotReady = errors.New("map not ready")
	// ErrStopped is returned once Run has exited.
	ErrStopped = errors.New("controller stopped")
	// ErrPersist wraps a failed save. The workout stays logged in memory.
	ErrPersist = errors.New("persist workout log")
)

// LogStore persists the whole workout log.
type LogStore interface {
	Load(ctx context.Context) ([]workout.Record, error)
	Save(ctx context.Context, records []workout.Record) error
	Clear(ctx context.Context) error
}

// State is owned by the Run loop.
type State struct {
	MapReady  bool
	Center    workout.Coordinates
	LastClick *workout.Coordinates
	FormOpen  bool
	Log       *workout.Log
}

func newState() *State {
	return &State{Log: workout.NewLog(nil)}
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	MapReady  bool                 `json:"map_ready"`
	Center    *workout.Coordinates `json:"center,omitempty"`
	Zoom      int                  `json:"zoom"`
	LastClick *workout.Coordinates `json:"last_click,omitempty"`
	FormOpen  bool                 `json:"form_open"`
	Workouts  []workout.Record     `json:"workouts"`
}

// Option configures controller behaviour.
type Option func(*Controller)

// WithLogger sets a custom logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock sets the clock used to stamp new workouts.
func WithClock(clock workout.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithPublisher announces logged workouts and resets.
func WithPublisher(p publisher.Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithZoom overrides DefaultZoom.
func WithZoom(zoom int) Option {
	return func(c *Controller) {
		if zoom > 0 {
			c.zoom = zoom
		}
	}
}

// WithTiles overrides the tile layer.
func WithTiles(url, attribution string) Option {
	return func(c *Controller) {
		if url != "" {
			c.tileURL = url
		}
		if attribution != "" {
			c.attribution = attribution
		}
	}
}

type command func(loop context.Context)

// Controller drives the workout map.
type Controller struct {
	provider  geo.Provider
	widget    mapview.Widget
	store     LogStore
	view      view.View
	publisher publisher.Publisher
	clock     workout.Clock
	logger    zerolog.Logger

	zoom        int
	tileURL     string
	attribution string

	cmds chan command
	done chan struct{}

	// loop owned
	state      *State
	generation int
}

// New constructs a Controller. Nothing happens until Run is called.
func New(provider geo.Provider, widget mapview.Widget, store LogStore, v view.View, opts ...Option) *Controller {
	c := &Controller{
		provider:    provider,
		widget:      widget,
		store:       store,
		view:        v,
		publisher:   publisher.Noop{},
		clock:       workout.SystemClock,
		logger:      log.Logger,
		zoom:        DefaultZoom,
		tileURL:     DefaultTileURL,
		attribution: DefaultAttribution,
		cmds:        make(chan command),
		done:        make(chan struct{}),
		state:       newState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loads the persisted log, requests the current position and then
// processes commands until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)

	c.start(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-c.cmds:
			cmd(ctx)
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (c *Controller) do(ctx context.Context, fn command) error {
	ran := make(chan struct{})
	cmd := func(loop context.Context) {
		defer close(ran)
		fn(loop)
	}

	select {
	case c.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
	<-ran
	return nil
}

// post queues fn without waiting for it.
func (c *Controller) post(ctx context.Context, fn command) {
	select {
	case c.cmds <- fn:
	case <-ctx.Done():
	case <-c.done:
	}
}

func (c *Controller) start(loop context.Context) {
	records, err := c.store.Load(loop)
	if err != nil {
		c.logger.Error().Err(err).Msg("load workout log")
	}
	c.state.Log = workout.NewLog(records)
	for _, id := range c.state.Log.Shadowed() {
		c.logger.Warn().Str("workout_id", id).Msg("duplicate workout id in stored log")
	}
	for _, r := range c.state.Log.Records() {
		c.view.RenderWorkout(r)
	}
	c.logger.Info().Int("workouts", c.state.Log.Len()).Msg("workout log loaded")

	gen := c.generation
	go func() {
		coords, err := c.provider.Position(loop)
		c.post(loop, func(context.Context) { c.positionResolved(gen, coords, err) })
	}()
}

func (c *Controller) positionResolved(gen int, coords workout.Coordinates, err error) {
	if gen != c.generation {
		return
	}
	if err != nil {
		observability.RecordPosition(false)
		c.logger.Warn().Err(err).Msg("position lookup failed")
		c.view.Alert(PositionAlert)
		return
	}
	observability.RecordPosition(true)

	c.widget.CreateView(coords, c.zoom)
	c.widget.AddTileLayer(c.tileURL, c.attribution)
	for _, r := range c.state.Log.Records() {
		c.renderMarker(r)
	}
	c.widget.OnClick(c.mapClicked)

	c.state.MapReady = true
	c.state.Center = coords
	c.logger.Info().Stringer("coords", coords).Int("zoom", c.zoom).Msg("map ready")
}

// mapClicked is the widget click listener. It runs on the caller's goroutine.
func (c *Controller) mapClicked(coords workout.Coordinates) {
	err := c.do(context.Background(), func(context.Context) {
		if !c.state.MapReady {
			return
		}
		c.state.LastClick = &coords
		c.state.FormOpen = true
		c.view.ShowForm()
	})
	if err != nil {
		c.logger.Debug().Err(err).Msg("map click dropped")
	}
}

func (c *Controller) renderMarker(r workout.Record) {
	id := c.widget.AddMarker(r.Coords)
	c.widget.BindPopup(id, fmt.Sprintf("%s %s", r.Icon(), r.Description), mapview.PopupOptions{
		MaxWidth:     250,
		MinWidth:     100,
		AutoClose:    false,
		CloseOnClick: false,
		ClassName:    string(r.Kind) + "-popup",
	})
}

// Submit validates the form against the last map click and logs the workout.
//
// On success the record is appended, its marker and list entry are rendered,
// the form is hidden and the log is saved. A failed save returns the record
// together with an error wrapping ErrPersist.
func (c *Controller) Submit(ctx context.Context, in workout.FormInput) (workout.Record, error) {
	var (
		rec workout.Record
		out error
	)
	err := c.do(ctx, func(loop context.Context) {
		if c.state.LastClick == nil {
			out = ErrNoMapClick
			return
		}

		entry, err := in.Parse()
		if err != nil {
			if errors.Is(err, workout.ErrInvalidInput) {
				observability.RecordValidationFailure()
				c.view.Alert(err.Error())
			}
			out = err
			return
		}

		r := entry.Record(c.clock, *c.state.LastClick)
		if err := c.state.Log.Append(r); err != nil {
			out = err
			return
		}
		rec = r

		c.renderMarker(r)
		c.view.RenderWorkout(r)
		c.view.HideForm()
		c.state.FormOpen = false
		observability.RecordWorkoutLogged(string(r.Kind))
		c.logger.Info().Str("workout_id", r.ID).Str("type", string(r.Kind)).Msg("workout logged")

		if err := c.store.Save(ctx, c.state.Log.Records()); err != nil {
			observability.RecordPersistFailure()
			c.logger.Error().Err(err).Str("workout_id", r.ID).Msg("save workout log")
			out = fmt.Errorf("%w: %v", ErrPersist, err)
		}

		if err := c.publisher.WorkoutLogged(ctx, events.NewWorkoutLogged(r)); err != nil {
			c.logger.Warn().Err(err).Str("workout_id", r.ID).Msg("publish workout logged")
		}
	})
	if err != nil {
		return workout.Record{}, err
	}
	return rec, out
}

// SelectWorkout pans the map to the workout the list click landed on. It
// reports false, without error, when the click is not on a workout item, the
// id is unknown or the map is not ready.
func (c *Controller) SelectWorkout(ctx context.Context, click view.Click) (workout.Record, bool, error) {
	var (
		rec   workout.Record
		found bool
	)
	err := c.do(ctx, func(context.Context) {
		el, ok := click.Closest("workout")
		if !ok {
			return
		}
		r, ok := c.state.Log.Find(el.Data["id"])
		if !ok || !c.state.MapReady {
			return
		}

		c.widget.SetView(r.Coords, c.zoom, mapview.PanOptions{Animate: true, PanDuration: time.Second})
		observability.RecordMapPan()
		rec, found = r, true
	})
	return rec, found, err
}

// ToggleType switches the form between the running and cycling fields.
func (c *Controller) ToggleType(ctx context.Context) error {
	return c.do(ctx, func(context.Context) {
		c.view.ToggleElevationField()
	})
}

// Reset removes the persisted log and restarts from an empty state.
func (c *Controller) Reset(ctx context.Context) error {
	var out error
	err := c.do(ctx, func(loop context.Context) {
		if err := c.store.Clear(ctx); err != nil {
			out = fmt.Errorf("reset: %w", err)
			return
		}
		removed := c.state.Log.Len()
		if err := c.publisher.LogCleared(ctx, events.NewLogCleared(removed, c.clock())); err != nil {
			c.logger.Warn().Err(err).Msg("publish log cleared")
		}

		c.generation++
		c.state = newState()
		c.view.Reset()
		c.widget.Reset()
		c.logger.Info().Int("removed", removed).Msg("workout log reset")
		c.start(loop)
	})
	if err != nil {
		return err
	}
	return out
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := c.do(ctx, func(context.Context) {
		snap = Snapshot{
			MapReady: c.state.MapReady,
			Zoom:     c.zoom,
			FormOpen: c.state.FormOpen,
			Workouts: c.state.Log.Records(),
		}
		if c.state.MapReady {
			center := c.state.Center
			snap.Center = &center
		}
		if c.state.LastClick != nil {
			click := *c.state.LastClick
			snap.LastClick = &click
		}
	})
	return snap, err
}
