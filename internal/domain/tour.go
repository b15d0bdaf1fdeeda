package domain

import (
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/recent"
	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

// Tour represents the canonical runtime truth of a bookable tour.
//
// It is NOT tied to the catalog file or Redis.
// All inputs (catalog, snapshot, view counts) are merged into this structure.
//
// A Tour is uniquely identified by its ID, and also addressable by
// CitySlug + Slug.
type Tour struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the catalog identifier.
	ID string

	// CitySlug and Slug form the public path /tours/{city}/{slug}.
	CitySlug string
	Slug     string

	// ─────────────────────────────
	// Listing
	// (may be overwritten by catalog reload)
	// ─────────────────────────────

	City        string
	Title       string
	ImageURL    string
	Price       float64
	Currency    string
	Rating      float64
	ReviewCount int
	Duration    string
	Tags        []string

	// Widgets are the booking integrations shown on the tour page.
	Widgets []widget.Config

	// ─────────────────────────────
	// Provenance & observation
	// ─────────────────────────────

	// Sources indicates where this tour was loaded from.
	// Example: catalog, redis
	Sources []string

	// Views is the number of recorded detail views.
	Views int64

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastViewedAt time.Time

	// Disabled hides a tour from search and pages without dropping its views.
	Disabled bool
}

// Path is the city/slug address of the tour.
func (t *Tour) Path() string {
	return t.CitySlug + "/" + t.Slug
}

// ToEntry is the recently viewed snapshot of the tour.
func (t *Tour) ToEntry() recent.Entry {
	return recent.Entry{
		ID:          t.ID,
		CitySlug:    t.CitySlug,
		Slug:        t.Slug,
		Title:       t.Title,
		ImageURL:    t.ImageURL,
		Price:       t.Price,
		Rating:      t.Rating,
		ReviewCount: t.ReviewCount,
		Duration:    t.Duration,
	}
}

// Clone returns a copy that shares no slices with t.
func (t *Tour) Clone() *Tour {
	c := *t
	c.Tags = append([]string(nil), t.Tags...)
	c.Widgets = append([]widget.Config(nil), t.Widgets...)
	c.Sources = append([]string(nil), t.Sources...)
	return &c
}
