package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready       bool `json:"ready"`
	ToursLoaded int  `json:"tours_loaded"`
}

// Readyz reports ready once the catalog has been loaded into the index.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Index.Count()
		status := http.StatusOK
		if count == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{
			Ready:       count > 0,
			ToursLoaded: count,
		})
	}
}
