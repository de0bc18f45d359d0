package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP routes. Reads are public; mutations require a
// bearer token.
func NewRouter(h *Handler, jwtSecret string, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/rounds", h.ListRounds)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(jwtSecret))
			r.Post("/rounds", h.ProposeRound)
			r.Post("/rounds/{roundID}/entries", h.CreateEntry)
			r.Delete("/entries/{entryID}", h.RemoveEntry)
			r.Patch("/entries/{entryID}/guests", h.UpdateGuests)
		})
	})

	return r
}
