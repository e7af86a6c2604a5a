// Package server runs the HTTP API together with its background jobs.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"

	"anime-news/api/router"
	"anime-news/config"
	"anime-news/scheduler"
	"anime-news/services"
	"anime-news/tracker"
)

const shutdownTimeout = 10 * time.Second

// Handler wraps the gin router with CORS for the configured front-end origins.
func Handler(app *services.App) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   app.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Span-Id"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	})
	return c.Handler(router.New(app))
}

// NewScheduler returns the cleanup scheduler for app, or nil when no schedule is configured.
func NewScheduler(app *services.App) (*scheduler.Scheduler, error) {
	expr := app.Config.Cleanup.Schedule
	if expr == "" {
		return nil, nil
	}
	loc := tracker.OptionsFromConfig(app.Config.Tracker).Location
	s := scheduler.New(app.Trackers, loc, app.Config.Cleanup.Timeout)
	if err := s.Schedule(expr); err != nil {
		return nil, err
	}
	return s, nil
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func Run(ctx context.Context, app *services.App) error {
	sched, err := NewScheduler(app)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
	}

	app.StartBackground(ctx)

	srv := &http.Server{
		Addr:              app.Config.Server.Addr,
		Handler:           Handler(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infof("api: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if sched != nil {
			sched.Stop(context.Background())
		}
		if err != nil {
			return fmt.Errorf("api: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	config.Logger.Info("api: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return nil
}
