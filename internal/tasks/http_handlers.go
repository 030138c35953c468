package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"taskboard-backend/internal/analytics"
)

type TaskHandler struct {
	Store  Store
	Events analytics.Recorder
	Logger *slog.Logger

	// Strict maps validation errors to 400 and unknown ids to 404.
	// When false every failure is a 500.
	Strict bool

	now func() time.Time
}

func New(store Store, events analytics.Recorder, logger *slog.Logger, strict bool) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		Store:  store,
		Events: events,
		Logger: logger,
		Strict: strict,
		now:    time.Now,
	}
}

// -------------------------------
// HANDLERS
// -------------------------------

// List serves GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create serves POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.Store.Create(r.Context(), body.Title, body.Description)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, analytics.TaskCreated, t.ID, map[string]any{
		"task_id":         t.ID,
		"title_len":       len(t.Title),
		"has_description": t.Description != nil,
	})

	writeJSON(w, http.StatusCreated, t)
}

// Update serves PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var patch Patch
	if err := decodeBody(r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	// previous state only feeds the activity log
	prev, prevErr := h.Store.Get(r.Context(), id)

	t, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, analytics.TaskUpdated, t.ID, map[string]any{
		"task_id": t.ID,
		"fields":  patchFields(patch),
	})
	if prevErr == nil && prev.Completed != t.Completed {
		name := analytics.TaskUncompleted
		if t.Completed {
			name = analytics.TaskCompleted
		}
		h.record(r, name, t.ID, map[string]any{
			"task_id":                t.ID,
			"time_since_created_sec": int(t.UpdatedAt.Sub(t.CreatedAt).Seconds()),
		})
	}

	writeJSON(w, http.StatusOK, t)
}

// Delete serves DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, analytics.TaskDeleted, id, map[string]any{"task_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// Stats serves GET /tasks/stats?days=N with the dashboard chart data.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days := DefaultStatsDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxStatsDays {
			h.fail(w, r, &ValidationError{Field: "days", Reason: fmt.Sprintf("must be between 1 and %d", MaxStatsDays)})
			return
		}
		days = n
	}

	list, err := h.Store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BuildStats(list, h.now(), days))
}

// -------------------------------
// HELPERS
// -------------------------------

func (h *TaskHandler) record(r *http.Request, name string, taskID int64, props map[string]any) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Log(r.Context(), analytics.FromRequest(r), name, taskID, props); err != nil {
		h.Logger.Warn("activity log write failed", "event", name, "task_id", taskID, "error", err)
	}
}

func (h *TaskHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err, h.Strict)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.Logger.Info("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// StatusFor maps a handler error to an HTTP status.
func StatusFor(err error, strict bool) int {
	if !strict {
		return http.StatusInternalServerError
	}
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a valid task id", raw)}
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ValidationError{Field: "body", Reason: "is not valid JSON: " + err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func patchFields(p Patch) []string {
	fields := make([]string, 0, 3)
	if p.Title.Set {
		fields = append(fields, "title")
	}
	if p.Description.Set {
		fields = append(fields, "description")
	}
	if p.Completed.Set {
		fields = append(fields, "completed")
	}
	return fields
}
