package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brk3/habitcal/internal/server"
	"github.com/brk3/habitcal/pkg/habit"
	"github.com/brk3/habitcal/pkg/versioninfo"
)

type Client struct {
	BaseURL string
	// Token is sent as a bearer token: an API key or a "provider:jwt" session token.
	Token string
	HTTP  *http.Client
}

func New(base, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		Token:   token,
		HTTP:    http.DefaultClient,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
	}
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e server.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&e)
		return res.StatusCode, &StatusError{Code: res.StatusCode, Message: e.Error}
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return res.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return res.StatusCode, nil
}

func habitPath(id string, rest ...string) string {
	p := "/habits/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func monthQuery(m habit.Month) string {
	return "?month=" + m.String()
}

func (c *Client) Version(ctx context.Context) (versioninfo.VersionInfo, error) {
	var out versioninfo.VersionInfo
	_, err := c.do(ctx, http.MethodGet, "/version", nil, &out)
	return out, err
}

func (c *Client) ListHabits(ctx context.Context) ([]habit.Summary, error) {
	var out server.HabitListResponse
	if _, err := c.do(ctx, http.MethodGet, "/habits/", nil, &out); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return out.Habits, nil
}

func (c *Client) CreateHabit(ctx context.Context, req server.CreateHabitRequest) (habit.Habit, error) {
	var out habit.Habit
	_, err := c.do(ctx, http.MethodPost, "/habits/", req, &out)
	return out, err
}

func (c *Client) GetHabit(ctx context.Context, id string) (habit.Habit, error) {
	var out habit.Habit
	_, err := c.do(ctx, http.MethodGet, habitPath(id), nil, &out)
	return out, err
}

func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, habitPath(id), nil, nil)
	return err
}

func (c *Client) CheckIn(ctx context.Context, id string, in habit.CheckIn) (server.CheckInResponse, error) {
	var out server.CheckInResponse
	_, err := c.do(ctx, http.MethodPost, habitPath(id, "checkins"), in, &out)
	return out, err
}

func (c *Client) GetHabitSummary(ctx context.Context, id string, month habit.Month) (habit.Stats, error) {
	var out server.HabitSummaryResponse
	_, err := c.do(ctx, http.MethodGet, habitPath(id, "summary")+monthQuery(month), nil, &out)
	return out.Stats, err
}

func (c *Client) Calendar(ctx context.Context, id string, month habit.Month) ([]habit.CalendarCell, error) {
	var out server.CalendarResponse
	_, err := c.do(ctx, http.MethodGet, habitPath(id, "calendar")+monthQuery(month), nil, &out)
	return out.Cells, err
}

func (c *Client) Trend(ctx context.Context, id string, month habit.Month) ([]habit.TrendPoint, error) {
	var out server.TrendResponse
	_, err := c.do(ctx, http.MethodGet, habitPath(id, "trend")+monthQuery(month), nil, &out)
	return out.Points, err
}

// ResolveHabit accepts either a habit id or a habit name.
func (c *Client) ResolveHabit(ctx context.Context, idOrName string) (habit.Summary, error) {
	habits, err := c.ListHabits(ctx)
	if err != nil {
		return habit.Summary{}, err
	}
	for _, h := range habits {
		if h.ID == idOrName {
			return h, nil
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, idOrName) {
			return h, nil
		}
	}
	return habit.Summary{}, fmt.Errorf("no habit named %q", idOrName)
}
