package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/brk3/habitcal/internal/logger"
	"github.com/brk3/habitcal/pkg/habit"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "habitcal"

var requestLabels = []string{"route", "method", "status_code"}

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by chi route pattern, method and status.",
	}, requestLabels)

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by chi route pattern, method and status.",
		Buckets:   prometheus.DefBuckets,
	}, requestLabels)

	userRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "user_requests_total",
		Help:      "Authenticated requests per user.",
	}, []string{"user_id", "route", "method"})

	authEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "auth_events_total",
		Help:      "Login, verification and API key events by result.",
	}, []string{"event_type", "result", "provider"})

	checkinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "checkins_total",
		Help:      "Check-ins by outcome (recorded or already_checked_in).",
	}, []string{"outcome"})

	checkinStreakLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "checkin_streak_days",
		Help:      "Current streak length right after a recorded check-in.",
		Buckets:   []float64{1, 2, 3, 7, 14, 30, 60, 100, 365},
	})

	activeHabitsPerUser = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "habits_per_user",
		Help:      "Habits stored per user, as of their last list or delete.",
	}, []string{"user_id"})
)

// statusRecorder remembers the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// routePattern labels requests by their chi pattern rather than the raw
// path, keeping habit ids and dates out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"route":       routePattern(r),
			"method":      r.Method,
			"status_code": strconv.Itoa(rec.status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) userAwareMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if user, ok := r.Context().Value(userCtxKey{}).(*User); ok {
			userRequestsTotal.WithLabelValues(user.UserID, routePattern(r), r.Method).Inc()
		}
	})
}

func RecordAuthEvent(eventType, result, provider string) {
	authEventsTotal.WithLabelValues(eventType, result, provider).Inc()
	logger.Debug("Recorded auth event", "type", eventType, "result", result, "provider", provider)
}

// recordCheckInMetrics counts the outcome; only a recorded check-in moves
// the streak, so only those are observed in the histogram.
func recordCheckInMetrics(outcome habit.Outcome, streak int) {
	checkinsTotal.WithLabelValues(outcome.String()).Inc()
	if outcome == habit.Recorded {
		checkinStreakLength.Observe(float64(streak))
	}
}

func UpdateActiveHabitsForUser(userID string, count int) {
	activeHabitsPerUser.WithLabelValues(userID).Set(float64(count))
}
