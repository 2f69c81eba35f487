package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router mounts the API surface behind the usual request plumbing.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.HandleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.HandleSearch)
		r.Post("/analyze", s.HandleAnalyze)
		r.Get("/dataset", s.HandleDataset)
		r.Get("/keywords", s.HandleKeywords)
		r.Get("/labels", s.HandleLabels)
		r.Get("/runs/{runID}", s.HandleArchivedRun)
	})

	return r
}
