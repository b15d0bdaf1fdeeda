package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
	redisstore "github.com/MrSnakeDoc/wayfare/internal/store/redis"
)

type searchResult struct {
	tourSummary
	Score float64 `json:"score,omitempty"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Cached  bool           `json:"cached"`
	Results []searchResult `json:"results"`
}

// Search ranks tours for q. "city/words" restricts the search to one city.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		raw := strings.TrimSpace(r.URL.Query().Get("q"))
		if raw == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}

		query := domain.ParseQuery(raw)
		if query.Empty() {
			writeJSON(w, http.StatusOK, searchResponse{Query: query.Raw, Results: []searchResult{}})
			return
		}

		if results, ok := cachedResults(ctx, d, query.Raw); ok {
			d.Logger.Debug("search cache hit", logger.String("query", query.Raw))
			writeJSON(w, http.StatusOK, searchResponse{Query: query.Raw, Cached: true, Results: results})
			return
		}

		candidates := domain.RankCandidates(query, d.Index.GetAllTours())
		if d.SearchLimit > 0 && len(candidates) > d.SearchLimit {
			candidates = candidates[:d.SearchLimit]
		}

		results := make([]searchResult, 0, len(candidates))
		ids := make([]string, 0, len(candidates))
		for _, c := range candidates {
			results = append(results, searchResult{tourSummary: summarize(c.Tour), Score: c.TotalScore})
			ids = append(ids, c.Tour.ID)
		}

		d.Logger.Info("search request",
			logger.String("query", query.Raw),
			logger.Int("results", len(results)))

		if d.Store != nil {
			ttl := d.SearchCacheTTL
			if ttl <= 0 {
				ttl = redisstore.DefaultCacheTTL
			}
			if err := d.Store.CacheSearch(ctx, query.Raw, ids, ttl); err != nil {
				d.Logger.Debug("failed to cache search", logger.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, searchResponse{Query: query.Raw, Results: results})
	}
}

// cachedResults resolves a cached result list against the index. A stale
// entry (a tour was removed or disabled since) is invalidated.
func cachedResults(ctx context.Context, d deps.Deps, query string) ([]searchResult, bool) {
	if d.Store == nil {
		return nil, false
	}
	ids, err := d.Store.GetCachedSearch(ctx, query)
	if err != nil || ids == nil {
		return nil, false
	}

	results := make([]searchResult, 0, len(ids))
	for _, id := range ids {
		tour, ok := d.Index.GetTour(id)
		if !ok || tour.Disabled {
			_ = d.Store.InvalidateSearch(ctx, query)
			return nil, false
		}
		results = append(results, searchResult{tourSummary: summarize(tour)})
	}
	return results, true
}
