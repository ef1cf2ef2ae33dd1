package mapview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/workoutmap/internal/workout"
)

func TestCanvasRecordsCommands(t *testing.T) {
	c := NewCanvas()
	require.False(t, c.State().Ready)

	c.CreateView(workout.Coordinates{Lat: 1, Lng: 2}, 13)
	c.AddTileLayer("https://tiles/{z}/{x}/{y}.png", "attribution")
	id := c.AddMarker(workout.Coordinates{Lat: 3, Lng: 4})
	c.BindPopup(id, "🏃‍♂️ Running on April 14", PopupOptions{MaxWidth: 250, MinWidth: 100, ClassName: "running-popup"})

	state := c.State()
	require.True(t, state.Ready)
	require.Equal(t, 13, state.Zoom)
	require.Equal(t, workout.Coordinates{Lat: 1, Lng: 2}, state.Center)
	require.Len(t, state.Markers, 1)
	require.Equal(t, "running-popup", state.Markers[0].Options.ClassName)
	require.True(t, state.Markers[0].PopupOpen)

	c.SetView(workout.Coordinates{Lat: 3, Lng: 4}, 13, PanOptions{Animate: true, PanDuration: time.Second})
	state = c.State()
	require.Equal(t, workout.Coordinates{Lat: 3, Lng: 4}, state.Center)
	require.NotNil(t, state.LastPan)
	require.True(t, state.LastPan.Animate)
}

func TestCanvasClickNeedsListener(t *testing.T) {
	c := NewCanvas()
	require.False(t, c.Click(workout.Coordinates{}))

	var got workout.Coordinates
	c.OnClick(func(coords workout.Coordinates) { got = coords })
	require.True(t, c.State().Listening)
	require.True(t, c.Click(workout.Coordinates{Lat: 5, Lng: 6}))
	require.Equal(t, workout.Coordinates{Lat: 5, Lng: 6}, got)

	c.Reset()
	require.False(t, c.Click(workout.Coordinates{}))
	require.Empty(t, c.State().Markers)
}

func TestStateIsACopy(t *testing.T) {
	c := NewCanvas()
	c.AddMarker(workout.Coordinates{Lat: 1})
	state := c.State()
	state.Markers[0].Popup = "mutated"
	require.Empty(t, c.State().Markers[0].Popup)
}
