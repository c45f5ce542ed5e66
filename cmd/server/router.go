package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/prepdeck/prepdeck-api/internal/api"
	"github.com/prepdeck/prepdeck-api/internal/api/middleware"
)

// setupRouter wires the middleware chain and all API routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		app.logger,
	)
	sessionHandler := api.NewSessionHandler(app.sessionService, app.guard, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.logger)
	bookmarkHandler := api.NewBookmarkHandler(app.bookmarkService, app.guard, app.logger)
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/sessions", sessionHandler.Start)
			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Get("/questions/next", sessionHandler.NextQuestion)
				r.Get("/questions/{questionID}", sessionHandler.GetQuestion)
				r.Post("/questions/{questionID}/mark", sessionHandler.ToggleMarkForReview)
				r.Post("/answers", sessionHandler.SubmitAnswer)
				r.Post("/review", sessionHandler.EnterReview)
				r.Get("/review", sessionHandler.GetReview)
				r.Post("/end", sessionHandler.End)
			})

			r.Get("/dashboard", statsHandler.GetDashboard)
			r.Get("/dashboard/missed", statsHandler.ListMissedQuestions)

			r.Post("/questions/{questionID}/bookmark", bookmarkHandler.Toggle)
			r.Get("/bookmarks", bookmarkHandler.List)
		})
	})

	r.Get("/health", app.healthCheck)

	return r
}

// healthCheck reports liveness and database reachability.
func (app *application) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		app.logger.Error("health check failed", "error", err.Error())
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", "error", err.Error())
	}
}
