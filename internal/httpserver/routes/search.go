package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/mw"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	public := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	public.Get("/search", handlers.Search(d))
	public.Get("/popular", handlers.Popular(d))
	public.Get("/recently-viewed", handlers.RecentlyViewed(d))
}
