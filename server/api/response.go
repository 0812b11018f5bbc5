package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mynextid/zk-agegate/models"
)

func eventList(list []models.Event) models.EventListResponse {
	if list == nil {
		list = []models.Event{}
	}
	return models.EventListResponse{Events: list, Count: len(list)}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, models.ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	})
}
