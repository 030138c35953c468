package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// TaskEventsHandler serves GET /tasks/{id}/events: the activity history of
// one task, oldest first. Events outlive the task they describe.
func TaskEventsHandler(rec Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid task id"})
			return
		}

		events, err := rec.ForTask(r.Context(), id)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(events)
	}
}
