package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/workoutmap/internal/workout"
)

func clockAt(t time.Time) workout.Clock {
	return func() time.Time { return t }
}

func TestClosestWalksUpFromTarget(t *testing.T) {
	click := ItemClick("3087000123")

	el, ok := click.Closest("workout")
	require.True(t, ok)
	require.Equal(t, "3087000123", el.Data["id"])

	_, ok = click.Closest("sidebar")
	require.False(t, ok)

	_, ok = Click{Path: []Element{{Classes: []string{"workouts"}}}}.Closest("workout")
	require.False(t, ok)
}

func TestFormToggle(t *testing.T) {
	v := NewHTMLView()
	snap := v.Snapshot()
	require.False(t, snap.Form.Visible)
	require.Equal(t, workout.KindRunning, snap.Form.Type)
	require.True(t, snap.Form.CadenceVisible)
	require.False(t, snap.Form.ElevationVisible)

	v.ToggleElevationField()
	snap = v.Snapshot()
	require.Equal(t, workout.KindCycling, snap.Form.Type)
	require.False(t, snap.Form.CadenceVisible)
	require.True(t, snap.Form.ElevationVisible)

	v.ToggleElevationField()
	require.Equal(t, workout.KindRunning, v.Snapshot().Form.Type)

	v.ShowForm()
	require.True(t, v.Snapshot().Form.Visible)
	v.HideForm()
	require.False(t, v.Snapshot().Form.Visible)
}

func TestHideFormKeepsSelectedType(t *testing.T) {
	v := NewHTMLView()
	v.ToggleElevationField()
	v.ShowForm()
	v.HideForm()

	form := v.Snapshot().Form
	require.False(t, form.Visible)
	require.Equal(t, workout.KindCycling, form.Type)
	require.True(t, form.ElevationVisible)
}

func TestRenderWorkoutNewestFirst(t *testing.T) {
	v := NewHTMLView()
	first := workout.NewRunning(clockAt(time.Date(2024, time.April, 14, 9, 0, 0, 0, time.UTC)), workout.Coordinates{Lat: 1, Lng: 2}, 5, 30, 170)
	second := workout.NewCycling(clockAt(time.Date(2024, time.April, 15, 9, 0, 0, 0, time.UTC)), workout.Coordinates{Lat: 3, Lng: 4}, 27, 95, 523)

	v.RenderWorkout(first)
	v.RenderWorkout(second)

	items := v.Snapshot().Items
	require.Len(t, items, 2)
	require.Contains(t, items[0], `class="workout workout--cycling"`)
	require.Contains(t, items[0], `data-id="`+second.ID+`"`)
	require.Contains(t, items[0], "Cycling on April 15")
	require.Contains(t, items[0], "km/h")
	require.Contains(t, items[1], `class="workout workout--running"`)
	require.Contains(t, items[1], "Running on April 14")
	require.Contains(t, items[1], `<span class="workout__value">6</span>`)
	require.Contains(t, items[1], "min/km")
	require.Contains(t, items[1], "spm")
}

func TestAlertsAndReset(t *testing.T) {
	v := NewHTMLView()
	v.Alert("input must be a positive number")
	v.ShowForm()
	v.ToggleElevationField()
	v.RenderWorkout(workout.NewRunning(clockAt(time.Now()), workout.Coordinates{}, 1, 1, 1))

	require.Equal(t, []string{"input must be a positive number"}, v.Snapshot().Alerts)
	require.NotEmpty(t, v.ListHTML())

	v.Reset()
	snap := v.Snapshot()
	require.Empty(t, snap.Items)
	require.Empty(t, snap.Alerts)
	require.False(t, snap.Form.Visible)
	require.Equal(t, workout.KindRunning, snap.Form.Type)
}
