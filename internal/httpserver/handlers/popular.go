package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
)

const maxPopularLimit = 100

type popularResponse struct {
	Source string        `json:"source"`
	Tours  []tourSummary `json:"tours"`
}

// Popular lists the most viewed tours. Counts come from redis when it is
// available, from the memory index otherwise.
func Popular(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := d.PopularLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		if limit < 1 {
			limit = 10
		}
		limit = min(limit, maxPopularLimit)

		if d.Store != nil {
			tours, err := popularFromStore(d, r, limit)
			if err == nil {
				writeJSON(w, http.StatusOK, popularResponse{Source: "redis", Tours: tours})
				return
			}
			d.Logger.Warn("popular from redis failed, using memory index", logger.Error(err))
		}

		writeJSON(w, http.StatusOK, popularResponse{
			Source: "memory",
			Tours:  summarizeAll(d.Index.TopViewed(limit)),
		})
	}
}

func popularFromStore(d deps.Deps, r *http.Request, limit int) ([]tourSummary, error) {
	// ask for a few more so disabled or removed tours can be skipped
	counts, err := d.Store.TopViewed(r.Context(), limit+10)
	if err != nil {
		return nil, err
	}

	out := make([]tourSummary, 0, limit)
	for _, c := range counts {
		if len(out) == limit {
			break
		}
		tour, ok := d.Index.GetTour(c.TourID)
		if !ok || tour.Disabled {
			continue
		}
		tour.Views = c.Views
		out = append(out, summarize(tour))
	}
	return out, nil
}

func summarizeAll(tours []*domain.Tour) []tourSummary {
	out := make([]tourSummary, 0, len(tours))
	for _, t := range tours {
		out = append(out, summarize(t))
	}
	return out
}
