package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
)

type (
	// Registrar mounts a group of routes. Each route file registers one from init().
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type group struct {
	mount Registrar
	use   []Middleware
}

var groups []group

// Register adds a route group with optional middlewares shared by the whole group.
func Register(reg Registrar, mws ...Middleware) {
	groups = append(groups, group{mount: reg, use: mws})
}

// RegisterAll mounts every registered group on r. Called once per router.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		target := r
		if len(g.use) > 0 {
			target = r.With(g.use...)
		}
		g.mount(target, d)
	}
}
