package server

import (
	"net/http"

	"github.com/daywise-ai/daywise/internal/api"
	"github.com/daywise-ai/daywise/internal/api/handlers"
	"github.com/daywise-ai/daywise/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	MentorHandler     *handlers.MentorHandler
	ReflectionHandler *handlers.ReflectionHandler
	SyllabusHandler   *handlers.SyllabusHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/mentor/ask", cfg.MentorHandler.Ask)
	r.Post("/reflection", cfg.ReflectionHandler.Submit)

	r.Route("/syllabus", func(r chi.Router) {
		r.Get("/", cfg.SyllabusHandler.Get)
		r.Post("/generate", cfg.SyllabusHandler.Generate)
		r.Route("/days/{n}", func(r chi.Router) {
			r.Post("/skip", cfg.SyllabusHandler.Skip)
			r.Post("/leave", cfg.SyllabusHandler.Leave)
			r.Post("/complete", cfg.SyllabusHandler.Complete)
		})
	})

	return r
}
