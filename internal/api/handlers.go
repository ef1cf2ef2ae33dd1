// Package api exposes the workout map over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"example.com/workoutmap/internal/controller"
	"example.com/workoutmap/internal/mapview"
	"example.com/workoutmap/internal/persistence"
	"example.com/workoutmap/internal/view"
	"example.com/workoutmap/internal/workout"
)

// Controller is the subset of controller.Controller the handlers drive.
type Controller interface {
	Submit(ctx context.Context, in workout.FormInput) (workout.Record, error)
	SelectWorkout(ctx context.Context, click view.Click) (workout.Record, bool, error)
	ToggleType(ctx context.Context) error
	Reset(ctx context.Context) error
	Snapshot(ctx context.Context) (controller.Snapshot, error)
}

// Map is the clickable map surface.
type Map interface {
	mapview.Clicker
	State() mapview.State
}

// Renderer exposes what the view has rendered.
type Renderer interface {
	Snapshot() view.Snapshot
	ListHTML() string
}

// Handler coordinates HTTP requests with the controller.
type Handler struct {
	ctrl     Controller
	canvas   Map
	renderer Renderer
}

// NewHandler builds a Handler.
func NewHandler(ctrl Controller, canvas Map, renderer Renderer) *Handler {
	return &Handler{ctrl: ctrl, canvas: canvas, renderer: renderer}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.HandleFunc("/v1/state", h.state).Methods(http.MethodGet)
	r.HandleFunc("/v1/map/click", h.mapClick).Methods(http.MethodPost)
	r.HandleFunc("/v1/workouts", h.submitWorkout).Methods(http.MethodPost)
	r.HandleFunc("/v1/workouts", h.listWorkouts).Methods(http.MethodGet)
	r.HandleFunc("/v1/workouts/{id}/select", h.selectWorkout).Methods(http.MethodPost)
	r.HandleFunc("/v1/list", h.listHTML).Methods(http.MethodGet)
	r.HandleFunc("/v1/list/click", h.listClick).Methods(http.MethodPost)
	r.HandleFunc("/v1/form/type", h.toggleType).Methods(http.MethodPost)
	r.HandleFunc("/v1/reset", h.reset).Methods(http.MethodPost)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.Snapshot(r.Context())
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{
		Controller: snap,
		Map:        h.canvas.State(),
		View:       h.renderer.Snapshot(),
	})
}

func (h *Handler) mapClick(w http.ResponseWriter, r *http.Request) {
	var req MapClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if !h.canvas.Click(workout.Coordinates{Lat: req.Lat, Lng: req.Lng}) {
		writeError(w, http.StatusConflict, "map_not_ready", controller.ErrMapNotReady.Error())
		return
	}

	snap, err := h.ctrl.Snapshot(r.Context())
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) submitWorkout(w http.ResponseWriter, r *http.Request) {
	var req workout.FormInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	rec, err := h.ctrl.Submit(r.Context(), req)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	snap, err := h.ctrl.Snapshot(r.Context())
	if err != nil {
		writeControllerError(w, err)
		return
	}

	items, next := persistence.Page(snap.Workouts, cursor, limit)
	writeJSON(w, http.StatusOK, ListWorkoutsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) selectWorkout(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, ok, err := h.ctrl.SelectWorkout(r.Context(), view.ItemClick(id))
	if err != nil {
		writeControllerError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "workout not found or map not ready")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) listClick(w http.ResponseWriter, r *http.Request) {
	var click view.Click
	if err := json.NewDecoder(r.Body).Decode(&click); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	rec, ok, err := h.ctrl.SelectWorkout(r.Context(), click)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	resp := ListClickResponse{Selected: ok}
	if ok {
		resp.Workout = &rec
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.renderer.ListHTML()))
}

func (h *Handler) toggleType(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.ToggleType(r.Context()); err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.renderer.Snapshot().Form)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Reset(r.Context()); err != nil {
		writeControllerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MapClickRequest is the payload for POST /v1/map/click.
type MapClickRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate ensures request correctness.
func (r MapClickRequest) Validate() error {
	if math.IsNaN(r.Lat) || math.IsInf(r.Lat, 0) || r.Lat < -90 || r.Lat > 90 {
		return errors.New("lat must be within [-90, 90]")
	}
	if math.IsNaN(r.Lng) || math.IsInf(r.Lng, 0) || r.Lng < -180 || r.Lng > 180 {
		return errors.New("lng must be within [-180, 180]")
	}
	return nil
}

// StateResponse combines controller, map and view state.
type StateResponse struct {
	Controller controller.Snapshot `json:"controller"`
	Map        mapview.State       `json:"map"`
	View       view.Snapshot       `json:"view"`
}

// ListWorkoutsResponse packages list results.
type ListWorkoutsResponse struct {
	Items      []workout.Record `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ListClickResponse reports whether a list click selected a workout.
type ListClickResponse struct {
	Selected bool            `json:"selected"`
	Workout  *workout.Record `json:"workout,omitempty"`
}

func writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrInvalidInput), errors.Is(err, workout.ErrUnknownType):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, controller.ErrNoMapClick):
		writeError(w, http.StatusConflict, "no_map_click", err.Error())
	case errors.Is(err, workout.ErrDuplicateID):
		writeError(w, http.StatusConflict, "duplicate_id", err.Error())
	case errors.Is(err, controller.ErrPersist):
		writeError(w, http.StatusInternalServerError, "persist_failed", err.Error())
	case errors.Is(err, controller.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

// writeJSON encodes before writing the header so an encoding failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("encode response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{
			"type":   "server_error",
			"detail": "unable to encode response",
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
