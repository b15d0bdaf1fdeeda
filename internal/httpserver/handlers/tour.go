package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/metrics"
	"github.com/MrSnakeDoc/wayfare/internal/page"
	"github.com/MrSnakeDoc/wayfare/internal/recent"
	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

type tourResponse struct {
	tourSummary
	Tags           []string        `json:"tags,omitempty"`
	Widgets        []widget.Config `json:"widgets,omitempty"`
	RecentlyViewed []recent.Entry  `json:"recentlyViewed"`
}

// Tour returns the tour detail and records the view.
func Tour(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tour, ok := lookupTour(d, r)
		if !ok {
			writeError(w, http.StatusNotFound, "tour not found")
			return
		}

		list := recordView(d, w, r, tour)

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, tourResponse{
			tourSummary:    summarize(tour),
			Tags:           tour.Tags,
			Widgets:        tour.Widgets,
			RecentlyViewed: list,
		})
	}
}

// TourPage renders the tour page with its booking widgets and the
// recently viewed strip, and records the view.
func TourPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tour, ok := lookupTour(d, r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		entry := tour.ToEntry()
		list := recordView(d, w, r, tour)

		others := make([]recent.Entry, 0, len(list))
		for _, e := range list {
			if !e.Same(entry) {
				others = append(others, e)
			}
		}

		var buf bytes.Buffer
		err := d.Pages.Render(&buf, page.View{
			Tour:    entry,
			Widgets: tour.Widgets,
			Recent:  others,
		})
		if err != nil {
			d.Logger.Error("failed to render tour page",
				logger.String("tour", tour.Path()),
				logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := buf.WriteTo(w); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

// RecentlyViewed returns the list stored in the client's cookie.
func RecentlyViewed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, d.Recent.Read(r))
	}
}

func lookupTour(d deps.Deps, r *http.Request) (*domain.Tour, bool) {
	city := strings.ToLower(chi.URLParam(r, "city"))
	slug := strings.ToLower(chi.URLParam(r, "slug"))

	tour, ok := d.Index.GetByPath(city, slug)
	if !ok || tour.Disabled {
		d.Logger.Debug("tour not found",
			logger.String("city", city),
			logger.String("slug", slug))
		return nil, false
	}
	return tour, true
}

// recordView updates the visitor's cookie and the popularity counters. The
// redis counter is best effort.
func recordView(d deps.Deps, w http.ResponseWriter, r *http.Request, tour *domain.Tour) []recent.Entry {
	list := d.Recent.RecordView(w, r, tour.ToEntry())

	views := d.Index.IncrementViews(tour.ID)
	metrics.TourViews.Inc()

	if d.Store != nil {
		n, err := d.Store.IncrementViews(r.Context(), tour.ID)
		if err != nil {
			d.Logger.Debug("failed to persist view",
				logger.String("tour", tour.ID),
				logger.Error(err))
		} else if n > views {
			// another replica recorded views too
			d.Index.SetViews(map[string]int64{tour.ID: n})
		}
	}
	return list
}
