package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/brk3/habitcal/internal/logger"
	"github.com/brk3/habitcal/pkg/habit"
	"github.com/brk3/habitcal/pkg/versioninfo"
	"github.com/go-chi/chi/v5"
)

func (s *Server) today() habit.Day {
	return habit.FromTime(s.now())
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month.
func (s *Server) monthParam(r *http.Request) (habit.Month, error) {
	m := r.URL.Query().Get("month")
	if m == "" {
		return habit.MonthOf(s.today()), nil
	}
	return habit.ParseMonth(m)
}

// loadHabit resolves the request's user and habit, writing the error
// response itself when it returns false.
func (s *Server) loadHabit(w http.ResponseWriter, r *http.Request) (string, habit.Habit, bool) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || habitID == "" {
		logger.Warn("Missing required parameters", "user_id", userID, "habit_id", habitID)
		writeError(w, http.StatusBadRequest, "user id and habit id are required")
		return "", habit.Habit{}, false
	}
	h, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		logger.Debug("Failed to load habit", "user_id", userID, "habit_id", habitID, "error", err)
		writeStoreError(w, err)
		return "", habit.Habit{}, false
	}
	return userID, h, true
}

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	if err := writeJSON(w, http.StatusOK, versioninfo.Get()); err != nil {
		logger.Error("Failed to serialize version info response", "error", err)
	}
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, CategoryListResponse{Categories: habit.Categories})
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Debug("Listing habits", "user_id", userID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}
	habits, err := s.store.ListHabits(userID)
	if err != nil {
		logger.Error("Failed to list habits", "user_id", userID, "error", err)
		writeStoreError(w, err)
		return
	}
	UpdateActiveHabitsForUser(userID, len(habits))

	today := s.today()
	summaries := make([]habit.Summary, 0, len(habits))
	for _, h := range habits {
		summaries = append(summaries, habit.Summarize(h, today))
	}
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: summaries}); err != nil {
		logger.Error("Failed to serialize habit list response", "user_id", userID, "error", err)
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}
	var req CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid JSON in create habit request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h, err := habit.New(s.newID(), req.Name, req.Icon, req.Category, s.now())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.PutHabit(userID, h); err != nil {
		logger.Error("Failed to store habit", "user_id", userID, "habit_name", h.Name, "error", err)
		writeStoreError(w, err)
		return
	}
	logger.Info("Habit created", "user_id", userID, "habit_id", h.ID, "habit_name", h.Name)
	s.refreshHabitCount(userID)

	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "user_id", userID, "error", err)
	}
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	_, h, ok := s.loadHabit(w, r)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, h.Refresh(s.today()))
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	userID, h, ok := s.loadHabit(w, r)
	if !ok {
		return
	}
	var req UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name != nil {
		if err := habit.ValidateName(*req.Name); err != nil {
			writeStoreError(w, err)
			return
		}
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Icon != nil && *req.Icon != "" {
		h.Icon = *req.Icon
	}
	if req.Category != nil {
		h.Category = *req.Category
		if h.Category == "" {
			h.Category = habit.OtherCategory
		}
		h.Color = habit.ColorFor(h.Category)
	}

	if err := s.store.PutHabit(userID, h); err != nil {
		logger.Error("Failed to update habit", "user_id", userID, "habit_id", h.ID, "error", err)
		writeStoreError(w, err)
		return
	}
	logger.Info("Habit updated", "user_id", userID, "habit_id", h.ID)
	_ = writeJSON(w, http.StatusOK, h.Refresh(s.today()))
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Info("Deleting habit", "user_id", userID, "habit_id", habitID)
	if userID == "" || habitID == "" {
		writeError(w, http.StatusBadRequest, "user id and habit id are required")
		return
	}
	if err := s.store.DeleteHabit(userID, habitID); err != nil {
		logger.Error("Failed to delete habit", "user_id", userID, "habit_id", habitID, "error", err)
		writeStoreError(w, err)
		return
	}
	s.refreshHabitCount(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	userID, h, ok := s.loadHabit(w, r)
	if !ok {
		return
	}
	var in habit.CheckIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := habit.ValidateNote(in.Note); err != nil {
		writeStoreError(w, err)
		return
	}

	updated, outcome, err := habit.RecordCheckIn(h, in, s.now())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.PutHabit(userID, updated); err != nil {
		logger.Error("Failed to store check-in", "user_id", userID, "habit_id", h.ID, "error", err)
		writeStoreError(w, err)
		return
	}
	recordCheckInMetrics(outcome, updated.Streak)
	logger.Info("Habit checked in", "user_id", userID, "habit_id", h.ID, "outcome", outcome, "streak", updated.Streak)

	code := http.StatusCreated
	if outcome == habit.AlreadyCheckedIn {
		code = http.StatusOK
	}
	_ = writeJSON(w, code, CheckInResponse{Outcome: outcome, Habit: updated})
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	day, err := habit.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	_, h, ok := s.loadHabit(w, r)
	if !ok {
		return
	}
	e, found := habit.EntryOn(h.History, day)
	if !found {
		writeError(w, http.StatusNotFound, "no check-in on "+day.String())
		return
	}
	_ = writeJSON(w, http.StatusOK, EntryResponse{HabitID: h.ID, Entry: e})
}

func (s *Server) getHabitSummary(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	_, h, ok := s.loadHabit(w, r)
	if !ok {
		return
	}
	stats := habit.ComputeStats(h, month, s.today())
	_ = writeJSON(w, http.StatusOK, HabitSummaryResponse{HabitID: h.ID, Stats: stats})
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	_, h, ok := s.loadHabit(w, r)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, CalendarResponse{
		HabitID: h.ID,
		Month:   month,
		Cells:   habit.BuildMonthGrid(h, month, s.today()),
	})
}

func (s *Server) getTrend(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	_, h, ok := s.loadHabit(w, r)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, TrendResponse{
		HabitID: h.ID,
		Month:   month,
		Points:  habit.BuildMonthlyTrend(h, month),
	})
}

func (s *Server) refreshHabitCount(userID string) {
	habits, err := s.store.ListHabits(userID)
	if err != nil {
		logger.Warn("Failed to update active habits metric", "user_id", userID, "error", err)
		return
	}
	UpdateActiveHabitsForUser(userID, len(habits))
}
