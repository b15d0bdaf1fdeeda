package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	ToursLoaded *int   `json:"tours_loaded,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Breaker     string `json:"breaker,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		toursCount := d.Index.Count()
		lastReload := d.Index.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:          toursCount > 0,
				ToursLoaded: &toursCount,
				LastReload:  lastReloadStr,
			},
			"redis": checkRedis(r.Context(), d),
			"recently_viewed": {
				OK:   true,
				Mode: "cookie",
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			ServingMode: determineServingMode(components),
			Components:  components,
		})
	}
}

func determineServingMode(components map[string]componentStatus) string {
	if catalog, exists := components["catalog"]; exists {
		if !catalog.OK || (catalog.ToursLoaded != nil && *catalog.ToursLoaded == 0) {
			return "critical" // no tours to serve
		}
	}

	// Redis only backs popularity and the search cache
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}

	return "full"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "popularity-from-memory",
			Error:  "redis not configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Mode:    "degraded",
			Breaker: d.Store.BreakerState(),
			Impact:  "popularity-from-memory",
			Error:   err.Error(),
		}
	}

	return componentStatus{
		OK:      true,
		Mode:    "optimal",
		Breaker: d.Store.BreakerState(),
		Impact:  "popularity-persisted",
	}
}
