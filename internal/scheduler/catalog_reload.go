package scheduler

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
	"github.com/MrSnakeDoc/wayfare/internal/index"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/sources/catalog"
)

// CatalogReloader handles periodic reloading of tours.yaml
type CatalogReloader struct {
	loader        *catalog.Loader
	mapper        *catalog.Mapper
	store         SnapshotStore
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader. store may be nil.
func NewCatalogReloader(
	catalogFile string,
	store SnapshotStore,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalog.NewLoader(catalogFile),
		mapper:        catalog.NewMapper(),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once, then reloads on every tick or manual trigger
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog", logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog", logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload loads tours.yaml and updates index + store. An invalid catalog
// leaves the current index untouched.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	cr.logger.Info("reloading catalog", logger.String("file", cr.loader.Path()))

	file, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	tours, err := cr.mapper.MapTours(file)
	if err != nil {
		return fmt.Errorf("failed to map catalog: %w", err)
	}

	cr.logger.Info("loaded tours from catalog", logger.Int("count", len(tours)))

	// Tours that left the catalog stay, disabled, until garbage collected
	loaded := make(map[string]bool, len(tours))
	for _, t := range tours {
		loaded[t.ID] = true
	}
	var removed []*domain.Tour
	now := time.Now()
	for _, existing := range cr.index.GetAllTours() {
		if loaded[existing.ID] || !slices.Contains(existing.Sources, "catalog") {
			continue
		}
		if !existing.Disabled {
			existing.Disabled = true
			existing.UpdatedAt = now
		}
		removed = append(removed, existing)
	}
	if len(removed) > 0 {
		cr.logger.Info("marking removed tours as disabled", logger.Int("count", len(removed)))
	}

	all := append(tours, removed...)
	cr.index.UpdateTours(all)

	// Redis is best effort, the memory index is the primary source
	if cr.store != nil {
		if err := cr.store.SaveToursMany(ctx, all); err != nil {
			cr.logger.Warn("failed to save tours to redis", logger.Error(err))
		} else {
			cr.logger.Debug("tours saved to redis")
		}
		if err := cr.store.FlushCache(ctx); err != nil {
			cr.logger.Warn("failed to flush search cache", logger.Error(err))
		}
	}

	return nil
}
