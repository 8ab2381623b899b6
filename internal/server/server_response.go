package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brk3/habitcal/internal/storage"
	"github.com/brk3/habitcal/pkg/habit"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HabitListResponse struct {
	Habits []habit.Summary `json:"habits"`
}

type CategoryListResponse struct {
	Categories []habit.Category `json:"categories"`
}

type CreateHabitRequest struct {
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Category string `json:"category,omitempty"`
}

// UpdateHabitRequest changes only the fields that are present.
type UpdateHabitRequest struct {
	Name     *string `json:"name,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	Category *string `json:"category,omitempty"`
}

type CheckInResponse struct {
	Outcome habit.Outcome `json:"outcome"`
	Habit   habit.Habit   `json:"habit"`
}

type EntryResponse struct {
	HabitID string      `json:"habit_id"`
	Entry   habit.Entry `json:"entry"`
}

type HabitSummaryResponse struct {
	HabitID string      `json:"habit_id"`
	Stats   habit.Stats `json:"stats"`
}

type CalendarResponse struct {
	HabitID string               `json:"habit_id"`
	Month   habit.Month          `json:"month"`
	Cells   []habit.CalendarCell `json:"cells"`
}

type TrendResponse struct {
	HabitID string             `json:"habit_id"`
	Month   habit.Month        `json:"month"`
	Points  []habit.TrendPoint `json:"points"`
}

type APIKeyResponse struct {
	APIKey  string `json:"api_key"`
	KeyHash string `json:"key_hash"`
}

type APIKeyInfo struct {
	KeyHash string `json:"key_hash"`
	Display string `json:"display"`
}

type APIKeyListResponse struct {
	Keys []APIKeyInfo `json:"keys"`
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	_ = writeJSON(w, code, ErrorResponse{Error: msg})
}

// writeStoreError maps engine and storage errors onto HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "habit not found")
	case errors.Is(err, habit.ErrInvalidDate), errors.Is(err, habit.ErrInvalidHabit):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrWriteFailed):
		writeError(w, http.StatusInternalServerError, "database write failed")
	default:
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}
