package handlers

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// tourSummary is the listing shape shared by search, popular and tour responses.
type tourSummary struct {
	ID          string  `json:"id"`
	CitySlug    string  `json:"citySlug"`
	Slug        string  `json:"slug"`
	City        string  `json:"city,omitempty"`
	Title       string  `json:"title"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency,omitempty"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Duration    string  `json:"duration,omitempty"`
	Views       int64   `json:"views"`
}

func summarize(t *domain.Tour) tourSummary {
	return tourSummary{
		ID:          t.ID,
		CitySlug:    t.CitySlug,
		Slug:        t.Slug,
		City:        t.City,
		Title:       t.Title,
		ImageURL:    t.ImageURL,
		Price:       t.Price,
		Currency:    t.Currency,
		Rating:      t.Rating,
		ReviewCount: t.ReviewCount,
		Duration:    t.Duration,
		Views:       t.Views,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
