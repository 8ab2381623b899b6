package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brk3/habitcal/internal/config"
	"github.com/brk3/habitcal/pkg/habit"
	"github.com/brk3/habitcal/pkg/versioninfo"
)

var testNow = time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)

const testUser = "anonymous"

func newTestServer(t *testing.T, st *memStore) http.Handler {
	t.Helper()
	s, err := New(&config.Config{}, st)
	if err != nil {
		t.Fatalf("error creating server: %v", err)
	}
	s.now = func() time.Time { return testNow }
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
	return s.Router()
}

func seedHabit(t *testing.T, st *memStore, id, name string, days ...string) habit.Habit {
	t.Helper()
	h, err := habit.New(id, name, "", "Hobbies", testNow.AddDate(0, -1, 0))
	if err != nil {
		t.Fatalf("habit.New failed: %v", err)
	}
	for _, d := range days {
		day, err := habit.ParseDay(d)
		if err != nil {
			t.Fatalf("bad day %q: %v", d, err)
		}
		h.History = append(h.History, habit.Entry{Day: day, Note: "note " + d})
	}
	if err := st.PutHabit(testUser, h); err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}
	return h
}

func mockRequest(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal error: %v (body %s)", err, rr.Body.String())
	}
}

func TestVersion(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodGet, "/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var info versioninfo.VersionInfo
	decode(t, rr, &info)
	if info.Version != versioninfo.Version {
		t.Fatalf("got version %q", info.Version)
	}
}

func TestListCategories(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodGet, "/categories", nil)
	var resp CategoryListResponse
	decode(t, rr, &resp)
	if len(resp.Categories) != len(habit.Categories) {
		t.Fatalf("got %d categories want %d", len(resp.Categories), len(habit.Categories))
	}
}

func TestListHabits_Empty(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodGet, "/habits/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var resp HabitListResponse
	decode(t, rr, &resp)
	if len(resp.Habits) != 0 {
		t.Fatalf("len=%d want 0", len(resp.Habits))
	}
}

func TestListHabits_RecomputesWithoutWriteBack(t *testing.T) {
	st := newMemStore()
	stale := seedHabit(t, st, "a", "guitar", "2024-06-09", "2024-06-10")
	stale.Streak = 99
	if err := st.PutHabit(testUser, stale); err != nil {
		t.Fatal(err)
	}
	seedHabit(t, st, "b", "walk", "2024-06-01")
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodGet, "/habits/", nil)
	var resp HabitListResponse
	decode(t, rr, &resp)
	if len(resp.Habits) != 2 {
		t.Fatalf("got %d habits want 2", len(resp.Habits))
	}

	byID := map[string]habit.Summary{}
	for _, s := range resp.Habits {
		byID[s.ID] = s
	}
	if got := byID["a"]; got.CurrentStreak != 2 || !got.CheckedToday {
		t.Fatalf("guitar summary = %+v", got)
	}
	if got := byID["b"]; got.CurrentStreak != 0 || got.CheckedToday {
		t.Fatalf("walk summary = %+v", got)
	}

	stored, _ := st.GetHabit(testUser, "a")
	if stored.Streak != 99 {
		t.Fatalf("list wrote back streak %d", stored.Streak)
	}
}

func TestCreateHabit(t *testing.T) {
	st := newMemStore()
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodPost, "/habits/", CreateHabitRequest{Name: " guitar ", Category: "Hobbies"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("got %d want 201: %s", rr.Code, rr.Body.String())
	}
	var got habit.Habit
	decode(t, rr, &got)
	if got.ID != "h1" || got.Name != "guitar" || got.Color != "#FDFD96" || got.Icon != habit.DefaultIcon {
		t.Fatalf("got %+v", got)
	}
	if _, err := st.GetHabit(testUser, "h1"); err != nil {
		t.Fatalf("habit not stored: %v", err)
	}
}

func TestCreateHabit_Invalid(t *testing.T) {
	h := newTestServer(t, newMemStore())

	for _, name := range []string{"", "   ", strings.Repeat("x", habit.MaxNameLength+1)} {
		rr := mockRequest(h, http.MethodPost, "/habits/", CreateHabitRequest{Name: name})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("name %q: got %d want 400", name, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/habits/", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad JSON: got %d want 400", rr.Code)
	}
}

func TestGetHabit_RefreshesStreak(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar", "2024-06-08", "2024-06-09")
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodGet, "/habits/a", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var got habit.Habit
	decode(t, rr, &got)
	if got.Streak != 2 {
		t.Fatalf("got streak %d want 2", got.Streak)
	}
}

func TestGetHabit_NotFound(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodGet, "/habits/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d want 404", rr.Code)
	}
	var resp ErrorResponse
	decode(t, rr, &resp)
	if resp.Error == "" {
		t.Fatal("expected error message")
	}
}

func TestUpdateHabit(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar")
	h := newTestServer(t, st)

	name, category := "  piano ", "Study"
	rr := mockRequest(h, http.MethodPatch, "/habits/a", UpdateHabitRequest{Name: &name, Category: &category})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200: %s", rr.Code, rr.Body.String())
	}
	got, _ := st.GetHabit(testUser, "a")
	if got.Name != "piano" || got.Category != "Study" || got.Color != "#C6DEF1" {
		t.Fatalf("got %+v", got)
	}

	bad := ""
	rr = mockRequest(h, http.MethodPatch, "/habits/a", UpdateHabitRequest{Name: &bad})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty name: got %d want 400", rr.Code)
	}
}

func TestDeleteHabit(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar")
	h := newTestServer(t, st)

	if rr := mockRequest(h, http.MethodDelete, "/habits/a", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("got %d want 204", rr.Code)
	}
	if rr := mockRequest(h, http.MethodDelete, "/habits/a", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d want 404", rr.Code)
	}
}

func TestCheckIn_RecordedThenAlreadyCheckedIn(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar", "2024-06-09")
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodPost, "/habits/a/checkins", habit.CheckIn{Note: "scales"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("got %d want 201: %s", rr.Code, rr.Body.String())
	}
	var first CheckInResponse
	decode(t, rr, &first)
	if first.Outcome != habit.Recorded || first.Habit.Streak != 2 {
		t.Fatalf("got %s streak %d", first.Outcome, first.Habit.Streak)
	}

	rr = mockRequest(h, http.MethodPost, "/habits/a/checkins", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200: %s", rr.Code, rr.Body.String())
	}
	var second CheckInResponse
	decode(t, rr, &second)
	if second.Outcome != habit.AlreadyCheckedIn || second.Habit.Streak != 2 {
		t.Fatalf("got %s streak %d", second.Outcome, second.Habit.Streak)
	}

	stored, _ := st.GetHabit(testUser, "a")
	if len(stored.History) != 2 || stored.History[1].Note != "scales" {
		t.Fatalf("got history %v", stored.History)
	}
}

func TestCheckIn_Errors(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar")
	h := newTestServer(t, st)

	if rr := mockRequest(h, http.MethodPost, "/habits/missing/checkins", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("missing habit: got %d want 404", rr.Code)
	}

	long := habit.CheckIn{Note: strings.Repeat("n", habit.MaxNoteLength+1)}
	if rr := mockRequest(h, http.MethodPost, "/habits/a/checkins", long); rr.Code != http.StatusBadRequest {
		t.Fatalf("long note: got %d want 400", rr.Code)
	}

	st.failPut = true
	if rr := mockRequest(h, http.MethodPost, "/habits/a/checkins", nil); rr.Code != http.StatusInternalServerError {
		t.Fatalf("write failure: got %d want 500", rr.Code)
	}
}

func TestGetEntry(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar", "2024-06-09")
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodGet, "/habits/a/entries/2024-06-09", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var resp EntryResponse
	decode(t, rr, &resp)
	if resp.Entry.Note != "note 2024-06-09" {
		t.Fatalf("got entry %+v", resp.Entry)
	}

	if rr := mockRequest(h, http.MethodGet, "/habits/a/entries/2024-06-01", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("unchecked day: got %d want 404", rr.Code)
	}
	if rr := mockRequest(h, http.MethodGet, "/habits/a/entries/yesterday", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date: got %d want 400", rr.Code)
	}
}

func TestGetHabitSummary(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar", "2024-06-08", "2024-06-09", "2024-06-10")
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodGet, "/habits/a/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200: %s", rr.Code, rr.Body.String())
	}
	var resp HabitSummaryResponse
	decode(t, rr, &resp)
	s := resp.Stats
	if s.CurrentStreak != 3 || s.LongestStreak != 3 || s.MonthCompletions != 3 || s.ConsistencyPercent != 10 {
		t.Fatalf("got %+v", s)
	}

	rr = mockRequest(h, http.MethodGet, "/habits/a/summary?month=2024-05", nil)
	decode(t, rr, &resp)
	if resp.Stats.MonthCompletions != 0 || resp.Stats.CurrentStreak != 3 {
		t.Fatalf("May: got %+v", resp.Stats)
	}

	if rr := mockRequest(h, http.MethodGet, "/habits/a/summary?month=2024-13", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad month: got %d want 400", rr.Code)
	}
}

func TestGetCalendar(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar", "2024-06-09")
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodGet, "/habits/a/calendar?month=2024-06", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var resp CalendarResponse
	decode(t, rr, &resp)
	if len(resp.Cells) != 30 {
		t.Fatalf("got %d cells want 30", len(resp.Cells))
	}
	todays := 0
	for _, c := range resp.Cells {
		if c.IsToday {
			todays++
		}
	}
	if todays != 1 || !resp.Cells[8].IsChecked || !resp.Cells[8].IsInteractive {
		t.Fatalf("unexpected grid %+v", resp.Cells[8])
	}
}

func TestGetTrend(t *testing.T) {
	st := newMemStore()
	seedHabit(t, st, "a", "guitar", "2024-05-31", "2024-06-01", "2024-06-02")
	h := newTestServer(t, st)

	rr := mockRequest(h, http.MethodGet, "/habits/a/trend?month=2024-06", nil)
	var resp TrendResponse
	decode(t, rr, &resp)
	if len(resp.Points) != 30 {
		t.Fatalf("got %d points want 30", len(resp.Points))
	}
	if resp.Points[0].RunLength != 1 || resp.Points[1].RunLength != 2 || resp.Points[2].RunLength != 0 {
		t.Fatalf("got %v", resp.Points[:3])
	}
}
