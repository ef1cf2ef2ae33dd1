// Package mapview defines the map widget driven by the controller and a headless implementation of it.
package mapview

import (
	"time"

	"example.com/workoutmap/internal/workout"
)

// MarkerID identifies a marker added to the map.
type MarkerID int

// PopupOptions mirrors the popup settings bound to a marker.
type PopupOptions struct {
	MaxWidth     int    `json:"max_width"`
	MinWidth     int    `json:"min_width"`
	AutoClose    bool   `json:"auto_close"`
	CloseOnClick bool   `json:"close_on_click"`
	ClassName    string `json:"class_name"`
}

// PanOptions controls how SetView moves the map.
type PanOptions struct {
	Animate     bool          `json:"animate"`
	PanDuration time.Duration `json:"pan_duration"`
}

// ClickHandler receives the coordinates of a map click.
type ClickHandler func(workout.Coordinates)

// Widget is the interactive map the controller renders onto.
type Widget interface {
	CreateView(center workout.Coordinates, zoom int)
	AddTileLayer(url, attribution string)
	OnClick(handler ClickHandler)
	AddMarker(coords workout.Coordinates) MarkerID
	BindPopup(id MarkerID, content string, opts PopupOptions)
	SetView(coords workout.Coordinates, zoom int, opts PanOptions)
	Reset()
}

// Clicker delivers user clicks to the map.
type Clicker interface {
	Click(coords workout.Coordinates) bool
}
