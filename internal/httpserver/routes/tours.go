package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/mw"
)

func init() { Register(registerTours) }

// Tour routes record views, so they share one rate limiter.
func registerTours(r chi.Router, d deps.Deps) {
	cfg := d.RateLimit
	cfg.TrustProxy = d.TrustProxy
	limit := mw.RateLimit(cfg)

	tours := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), limit)
	tours.Get("/tours/{city}/{slug}", handlers.Tour(d))
	tours.Get("/tours/{city}/{slug}/page", handlers.TourPage(d))
}
