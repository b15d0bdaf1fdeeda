// Package recent keeps the bounded, most-recent-first list of viewed tours
// that the site persists in the browser-readable recentlyViewed cookie.
package recent

import (
	"errors"
	"time"
)

const (
	// CardCapacity is the size used by the product-card strip.
	CardCapacity = 6
	// DefaultCapacity is the size of the generic list.
	DefaultCapacity = 10
)

var ErrMissingKey = errors.New("entry has neither id nor city/slug")

// Entry is one viewed tour as stored in the cookie.
type Entry struct {
	ID          string  `json:"id" validate:"required_without=Slug,max=128"`
	CitySlug    string  `json:"citySlug" validate:"required_with=Slug,max=128"`
	Slug        string  `json:"slug" validate:"max=256"`
	Title       string  `json:"title" validate:"max=512"`
	ImageURL    string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Price       float64 `json:"price" validate:"gte=0"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int     `json:"reviewCount" validate:"gte=0"`
	Duration    string  `json:"duration,omitempty"`
	Timestamp   int64   `json:"timestamp"` // unix milliseconds of the view
}

// Key names the tour: the id, or city/slug when the id is empty. It is empty
// for an entry that identifies nothing.
func (e Entry) Key() string {
	if e.ID != "" {
		return e.ID
	}
	if e.CitySlug == "" && e.Slug == "" {
		return ""
	}
	return e.CitySlug + "/" + e.Slug
}

// identity is the deduplication key. Ids and city/slug paths live in separate
// namespaces so an id that looks like a path never matches one.
func (e Entry) identity() string {
	if e.ID != "" {
		return "id:" + e.ID
	}
	if e.CitySlug == "" && e.Slug == "" {
		return ""
	}
	return "path:" + e.CitySlug + "/" + e.Slug
}

// Same reports whether e and o refer to the same tour.
func (e Entry) Same(o Entry) bool {
	id := e.identity()
	return id != "" && id == o.identity()
}

// Record returns list with e moved (or added) to the front, stamped with now,
// and cut to capacity. list is not modified.
func Record(list []Entry, e Entry, capacity int, now time.Time) []Entry {
	if capacity < 1 {
		capacity = 1
	}
	e.Timestamp = now.UnixMilli()
	key := e.identity()

	out := make([]Entry, 0, min(len(list)+1, capacity))
	out = append(out, e)
	for _, old := range list {
		if len(out) == capacity {
			break
		}
		if old.identity() == key {
			continue
		}
		out = append(out, old)
	}
	return out
}

// Normalize drops keyless and duplicate entries (first occurrence wins) and
// truncates to capacity. Used on rehydrated data, which may come from an
// older or tampered cookie.
func Normalize(list []Entry, capacity int) []Entry {
	seen := make(map[string]struct{}, len(list))
	out := make([]Entry, 0, min(len(list), capacity))
	for _, e := range list {
		if len(out) >= capacity {
			break
		}
		key := e.identity()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
