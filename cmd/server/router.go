package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-tutor/internal/api"
	apiMiddleware "github.com/phrazzld/scry-tutor/internal/api/middleware"
)

// setupRouter creates the router from the application's services.
func (app *application) setupRouter() http.Handler {
	handler := api.NewLessonHandler(app.generationService, app.lessonService, app.continuity, app.logger)
	return newRouter(handler, app.logger)
}

// newRouter mounts the lesson routes and shared middleware.
func newRouter(h *api.LessonHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/lessons", func(r chi.Router) {
			r.Post("/", h.GenerateLesson)
			r.Post("/template", h.GenerateTemplateLesson)
			r.Post("/batch", h.GenerateBatch)
		})

		r.Route("/learners/{learnerID}", func(r chi.Router) {
			r.Get("/continuity", h.GetContinuity)
			r.Get("/lessons/{lessonID}", h.GetLesson)
			r.Post("/lessons/{lessonID}/share", h.ShareLesson)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
