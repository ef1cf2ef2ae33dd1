package mapview

import (
	"sync"

	"example.com/workoutmap/internal/workout"
)

// Marker is a pin on the canvas together with its popup.
type Marker struct {
	ID        MarkerID            `json:"id"`
	Coords    workout.Coordinates `json:"coords"`
	Popup     string              `json:"popup,omitempty"`
	Options   PopupOptions        `json:"options"`
	PopupOpen bool                `json:"popup_open"`
}

// State is a snapshot of the canvas.
type State struct {
	Ready       bool                `json:"ready"`
	Center      workout.Coordinates `json:"center"`
	Zoom        int                 `json:"zoom"`
	TileURL     string              `json:"tile_url,omitempty"`
	Attribution string              `json:"attribution,omitempty"`
	Listening   bool                `json:"listening"`
	Markers     []Marker            `json:"markers"`
	LastPan     *PanOptions         `json:"last_pan,omitempty"`
}

// Canvas is a headless Widget. It records every rendering command so the map
// can be served to a client or inspected in tests.
type Canvas struct {
	mu      sync.RWMutex
	state   State
	handler ClickHandler
}

// NewCanvas constructs an empty, uninitialised Canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// CreateView implements Widget.
func (c *Canvas) CreateView(center workout.Coordinates, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Ready = true
	c.state.Center = center
	c.state.Zoom = zoom
}

// AddTileLayer implements Widget.
func (c *Canvas) AddTileLayer(url, attribution string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.TileURL = url
	c.state.Attribution = attribution
}

// OnClick implements Widget.
func (c *Canvas) OnClick(handler ClickHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler = handler
	c.state.Listening = handler != nil
}

// AddMarker implements Widget.
func (c *Canvas) AddMarker(coords workout.Coordinates) MarkerID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := MarkerID(len(c.state.Markers) + 1)
	c.state.Markers = append(c.state.Markers, Marker{ID: id, Coords: coords})
	return id
}

// BindPopup implements Widget. The popup is opened immediately.
func (c *Canvas) BindPopup(id MarkerID, content string, opts PopupOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.state.Markers {
		if c.state.Markers[i].ID != id {
			continue
		}
		c.state.Markers[i].Popup = content
		c.state.Markers[i].Options = opts
		c.state.Markers[i].PopupOpen = true
		return
	}
}

// SetView implements Widget.
func (c *Canvas) SetView(coords workout.Coordinates, zoom int, opts PanOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Center = coords
	c.state.Zoom = zoom
	c.state.LastPan = &opts
}

// Reset implements Widget.
func (c *Canvas) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{}
	c.handler = nil
}

// Click delivers a user click. It reports false when no listener is attached.
func (c *Canvas) Click(coords workout.Coordinates) bool {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()

	if handler == nil {
		return false
	}
	handler(coords)
	return true
}

// State returns a copy of the canvas state.
func (c *Canvas) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := c.state
	out.Markers = make([]Marker, len(c.state.Markers))
	copy(out.Markers, c.state.Markers)
	if c.state.LastPan != nil {
		pan := *c.state.LastPan
		out.LastPan = &pan
	}
	return out
}
