// Package view renders the entry form, the workout list and user alerts.
package view

import (
	"slices"

	"example.com/workoutmap/internal/workout"
)

// View receives rendering commands from the controller.
type View interface {
	ShowForm()
	// HideForm hides the form. Input values are cleared by the client.
	HideForm()
	ToggleElevationField()
	RenderWorkout(r workout.Record)
	Alert(message string)
	Reset()
}

// Element is one node on the path of a list click.
type Element struct {
	Classes []string          `json:"classes"`
	Data    map[string]string `json:"data,omitempty"`
}

// HasClass reports whether the element carries the class.
func (e Element) HasClass(name string) bool {
	return slices.Contains(e.Classes, name)
}

// Click is a click inside the rendered list. Path runs from the clicked
// element up through its ancestors.
type Click struct {
	Path []Element `json:"path"`
}

// Closest returns the nearest element on the path, starting at the target, with the class.
func (c Click) Closest(class string) (Element, bool) {
	for _, el := range c.Path {
		if el.HasClass(class) {
			return el, true
		}
	}
	return Element{}, false
}

// ItemClick builds the click path produced by clicking the value of a rendered workout item.
func ItemClick(id string) Click {
	return Click{Path: []Element{
		{Classes: []string{"workout__value"}},
		{Classes: []string{"workout__details"}},
		{Classes: []string{"workout"}, Data: map[string]string{"id": id}},
		{Classes: []string{"workouts"}},
	}}
}
