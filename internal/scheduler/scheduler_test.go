package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
	"github.com/MrSnakeDoc/wayfare/internal/index"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
)

type fakeStore struct {
	mu       sync.Mutex
	saved    []*domain.Tour
	snapshot []*domain.Tour
	views    map[string]int64
	deleted  []string
	trimKeep int
	flushed  int
	err      error
}

func (f *fakeStore) SaveToursMany(_ context.Context, tours []*domain.Tour) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = tours
	return f.err
}

func (f *fakeStore) GetAllTours(context.Context) ([]*domain.Tour, error) {
	return f.snapshot, f.err
}

func (f *fakeStore) DeleteTour(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeStore) GetViewStats(context.Context) (map[string]int64, error) {
	return f.views, f.err
}

func (f *fakeStore) TrimViews(_ context.Context, keep int) (int64, error) {
	f.trimKeep = keep
	return 3, f.err
}

func (f *fakeStore) FlushCache(context.Context) error {
	f.flushed++
	return f.err
}

const twoTours = `cities:
  - slug: paris
    name: Paris
    tours:
      - id: t-1
        slug: louvre
        title: Louvre
      - id: t-2
        slug: orsay
        title: Orsay
`

const oneTour = `cities:
  - slug: paris
    name: Paris
    tours:
      - id: t-1
        slug: louvre
        title: Louvre
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
}

func TestCatalogReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tours.yaml")
	writeFile(t, path, twoTours)

	store := &fakeStore{}
	memIndex := index.NewMemoryIndex()
	cr := NewCatalogReloader(path, store, memIndex, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if memIndex.Count() != 2 || len(store.saved) != 2 || store.flushed != 1 {
		t.Fatalf("first reload: count=%d saved=%d flushed=%d", memIndex.Count(), len(store.saved), store.flushed)
	}

	// t-2 leaves the catalog
	writeFile(t, path, oneTour)
	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	orsay, ok := memIndex.GetTour("t-2")
	if !ok {
		t.Fatal("removed tour should be kept until garbage collected")
	}
	if !orsay.Disabled || orsay.UpdatedAt.IsZero() {
		t.Errorf("removed tour should be disabled, got %+v", orsay)
	}
	if louvre, _ := memIndex.GetTour("t-1"); louvre.Disabled {
		t.Error("tour still in the catalog must stay enabled")
	}
}

func TestCatalogReloader_InvalidCatalogKeepsIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tours.yaml")
	writeFile(t, path, twoTours)

	memIndex := index.NewMemoryIndex()
	cr := NewCatalogReloader(path, nil, memIndex, logger.NewNop(), time.Hour, nil)
	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	writeFile(t, path, "cities: []")
	if err := cr.Reload(context.Background()); err == nil {
		t.Fatal("Reload() should fail on an invalid catalog")
	}
	if memIndex.Count() != 2 {
		t.Errorf("index should be untouched, got %d tours", memIndex.Count())
	}
}

func TestCatalogReloader_StoreErrorIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tours.yaml")
	writeFile(t, path, oneTour)

	store := &fakeStore{err: errors.New("redis down")}
	memIndex := index.NewMemoryIndex()
	cr := NewCatalogReloader(path, store, memIndex, logger.NewNop(), time.Hour, nil)

	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v, redis failures must not fail the reload", err)
	}
	if memIndex.Count() != 1 {
		t.Errorf("Count() = %d, want 1", memIndex.Count())
	}
}

func TestCatalogReloader_ManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tours.yaml")
	writeFile(t, path, oneTour)

	trigger := make(chan struct{}, 1)
	memIndex := index.NewMemoryIndex()
	cr := NewCatalogReloader(path, nil, memIndex, logger.NewNop(), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cr.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer cr.Stop()

	writeFile(t, path, twoTours)
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for memIndex.Count() != 2 {
		if time.Now().After(deadline) {
			t.Fatal("manual trigger did not reload the catalog")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRedisSyncer(t *testing.T) {
	store := &fakeStore{
		snapshot: []*domain.Tour{
			{ID: "t-1", CitySlug: "paris", Slug: "louvre"},
			{ID: "t-2", CitySlug: "rome", Slug: "colosseum"},
		},
		views: map[string]int64{"t-2": 12},
	}
	memIndex := index.NewMemoryIndex()
	rs := NewRedisSyncer(store, memIndex, logger.NewNop())

	if err := rs.SyncTours(context.Background()); err != nil {
		t.Fatalf("SyncTours() error = %v", err)
	}
	if err := rs.SyncViews(context.Background()); err != nil {
		t.Fatalf("SyncViews() error = %v", err)
	}

	tour, ok := memIndex.GetByPath("rome", "colosseum")
	if !ok || tour.Views != 12 {
		t.Errorf("synced tour = %+v", tour)
	}

	store.err = errors.New("redis down")
	if err := rs.SyncTours(context.Background()); err == nil {
		t.Error("SyncTours() should report store errors")
	}
}

func TestGarbageCollector_Collect(t *testing.T) {
	memIndex := index.NewMemoryIndex()

	now := time.Now()
	memIndex.UpdateTours([]*domain.Tour{
		{ID: "active", CitySlug: "paris", Slug: "a", UpdatedAt: now},
		{ID: "recently-disabled", CitySlug: "paris", Slug: "b", Disabled: true, UpdatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: "old-disabled", CitySlug: "paris", Slug: "c", Disabled: true, UpdatedAt: now.Add(-35 * 24 * time.Hour)},
	})

	store := &fakeStore{}
	gc := NewGarbageCollector(store, memIndex, logger.NewNop(), 24*time.Hour, 30*24*time.Hour, 50)

	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if memIndex.Count() != 2 {
		t.Errorf("Expected 2 tours after GC, got %d", memIndex.Count())
	}
	if _, ok := memIndex.GetTour("active"); !ok {
		t.Error("Active tour was incorrectly removed")
	}
	if _, ok := memIndex.GetTour("recently-disabled"); !ok {
		t.Error("Recently disabled tour was incorrectly removed")
	}
	if _, ok := memIndex.GetTour("old-disabled"); ok {
		t.Error("Old disabled tour was not removed")
	}
	if len(store.deleted) != 1 || store.deleted[0] != "old-disabled" {
		t.Errorf("redis deletes = %v", store.deleted)
	}
	if store.trimKeep != 50 {
		t.Errorf("TrimViews keep = %d, want 50", store.trimKeep)
	}
}

func TestGarbageCollector_WithoutStore(t *testing.T) {
	memIndex := index.NewMemoryIndex()
	gc := NewGarbageCollector(nil, memIndex, logger.NewNop(), time.Hour, 0, 0)

	if gc.threshold != DefaultGCThreshold || gc.keep != DefaultPopularKeep {
		t.Errorf("defaults not applied: threshold=%v keep=%d", gc.threshold, gc.keep)
	}
	if err := gc.Collect(context.Background()); err != nil {
		t.Errorf("Collect() without store error = %v", err)
	}
}
