package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the HTTP routing table. Middleware is supplied by
// the caller so tests can run without it.
func NewRouter(
	links *LinkHandler,
	redirects *RedirectHandler,
	health *HealthHandler,
	middleware ...func(http.Handler) http.Handler,
) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware...)

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/", Root)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/links", links.Create)
		r.Get("/links", links.List)
		r.Delete("/links/expired", links.ClearExpired)
		r.Delete("/links/{id}", links.Delete)
		r.Get("/stats", links.Stats)
	})

	r.Get("/{shortCode}", redirects.Redirect)

	return r
}
