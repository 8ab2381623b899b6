package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/brk3/habitcal/internal/config"
	"github.com/brk3/habitcal/internal/logger"
	"github.com/brk3/habitcal/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg           *config.Config
	store         storage.Store
	authConf      map[string]*AuthProvider
	sessionCookie *securecookie.SecureCookie

	// now and newID are replaced in tests.
	now   func() time.Time
	newID func() string
}

func New(cfg *config.Config, store storage.Store) (*Server, error) {
	s := &Server{
		cfg:   cfg,
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	if cfg.AuthEnabled {
		providers, cookie, err := ConfigureOIDCProviders(cfg)
		if err != nil {
			return nil, err
		}
		s.authConf = providers
		s.sessionCookie = cookie
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	if s.cfg.AuthEnabled {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", s.simpleLogin)
			r.Get("/login/{id}", s.login)
			r.Get("/callback/{id}", s.callback)
			r.Post("/logout", s.logout)
			r.Get("/token", s.getAPIToken)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/api_keys", s.generateAPIKey)
				r.Get("/api_keys", s.listAPIKeys)
				r.Delete("/api_keys/{key_hash}", s.revokeAPIKey)
			})
		})
	}

	r.Group(func(r chi.Router) {
		if s.cfg.AuthEnabled {
			r.Use(s.authMiddleware)
			r.Use(s.userAwareMetricsMiddleware)
		}

		r.Get("/categories", s.listCategories)
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.listHabits)
			r.Post("/", s.createHabit)
			r.Get("/{habit_id}", s.getHabit)
			r.Patch("/{habit_id}", s.updateHabit)
			r.Delete("/{habit_id}", s.deleteHabit)
			r.Post("/{habit_id}/checkins", s.checkIn)
			r.Get("/{habit_id}/entries/{date}", s.getEntry)
			r.Get("/{habit_id}/summary", s.getHabitSummary)
			r.Get("/{habit_id}/calendar", s.getCalendar)
			r.Get("/{habit_id}/trend", s.getTrend)
		})
	})
	return r
}

// ListenAndServe serves the API on the configured address until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", s.cfg.ListenAddr, "auth_enabled", s.cfg.AuthEnabled)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
