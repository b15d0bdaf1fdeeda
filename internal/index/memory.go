package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
)

// MemoryIndex provides in-memory storage and lookup for tours.
// It is the source of truth for reads; Redis only persists views and snapshots.
type MemoryIndex struct {
	mu         sync.RWMutex
	tours      map[string]*domain.Tour // ID -> Tour
	paths      map[string]string       // city/slug -> ID
	lastReload time.Time               // Timestamp of last catalog reload
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		tours: make(map[string]*domain.Tour),
		paths: make(map[string]string),
	}
}

// UpdateTours replaces all tours in the index. View counters of tours that
// survive the reload are kept.
func (idx *MemoryIndex) UpdateTours(tours []*domain.Tour) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	previous := idx.tours

	// Clear and rebuild
	idx.tours = make(map[string]*domain.Tour, len(tours))
	idx.paths = make(map[string]string, len(tours))
	for _, tour := range tours {
		t := tour.Clone()
		if old, ok := previous[t.ID]; ok && old.Views > t.Views {
			t.Views = old.Views
			t.LastViewedAt = old.LastViewedAt
		}
		idx.tours[t.ID] = t
		idx.paths[t.Path()] = t.ID
	}
	idx.lastReload = time.Now()
}

// GetTour retrieves a copy of a tour by ID
func (idx *MemoryIndex) GetTour(id string) (*domain.Tour, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	tour, ok := idx.tours[id]
	if !ok {
		return nil, false
	}
	return tour.Clone(), true
}

// GetByPath retrieves a copy of a tour by its city and slug
func (idx *MemoryIndex) GetByPath(city, slug string) (*domain.Tour, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	id, ok := idx.paths[city+"/"+slug]
	if !ok {
		return nil, false
	}
	return idx.tours[id].Clone(), true
}

// GetAllTours returns copies of all tours ordered by path
func (idx *MemoryIndex) GetAllTours() []*domain.Tour {
	idx.mu.RLock()
	tours := make([]*domain.Tour, 0, len(idx.tours))
	for _, tour := range idx.tours {
		tours = append(tours, tour.Clone())
	}
	idx.mu.RUnlock()

	sort.Slice(tours, func(i, j int) bool { return tours[i].Path() < tours[j].Path() })
	return tours
}

// DeleteTour removes a tour from the index
func (idx *MemoryIndex) DeleteTour(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.tours[id]; ok {
		delete(idx.paths, old.Path())
		delete(idx.tours, id)
	}
}

// Count returns the number of tours in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.tours)
}

// IncrementViews increments the view counter of a tour and returns the new value
func (idx *MemoryIndex) IncrementViews(id string) int64 {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tour, ok := idx.tours[id]
	if !ok {
		return 0
	}
	tour.Views++
	tour.LastViewedAt = time.Now()
	return tour.Views
}

// SetViews overwrites view counters, typically with the values persisted in Redis.
func (idx *MemoryIndex) SetViews(views map[string]int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for id, n := range views {
		if tour, ok := idx.tours[id]; ok {
			tour.Views = n
		}
	}
}

// TopViewed returns up to n enabled tours with at least one view, most viewed first.
func (idx *MemoryIndex) TopViewed(n int) []*domain.Tour {
	all := idx.GetAllTours()
	viewed := all[:0]
	for _, t := range all {
		if !t.Disabled && t.Views > 0 {
			viewed = append(viewed, t)
		}
	}
	sort.SliceStable(viewed, func(i, j int) bool { return viewed[i].Views > viewed[j].Views })
	if n > 0 && len(viewed) > n {
		viewed = viewed[:n]
	}
	return viewed
}

// GetLastReload returns the timestamp of the last catalog reload
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
