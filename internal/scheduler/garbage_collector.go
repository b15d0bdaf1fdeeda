package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/index"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
)

const (
	// DefaultGCThreshold is the duration after which disabled tours are deleted
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
	// DefaultPopularKeep is the number of tours kept in the popularity ranking
	DefaultPopularKeep = 500
)

// GarbageCollector deletes tours disabled for too long and trims the
// popularity ranking
type GarbageCollector struct {
	store     SnapshotStore
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	keep      int
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector. store may be nil.
func NewGarbageCollector(
	store SnapshotStore,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
	keep int,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}
	if keep <= 0 {
		keep = DefaultPopularKeep
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		keep:      keep,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed", logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed", logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes tours disabled for longer than the threshold, then trims
// the popularity ranking to the configured size
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	now := time.Now()
	deleted := 0

	for _, tour := range gc.index.GetAllTours() {
		if !tour.Disabled || tour.UpdatedAt.IsZero() {
			continue
		}

		disabledFor := now.Sub(tour.UpdatedAt)
		if disabledFor < gc.threshold {
			continue
		}

		gc.index.DeleteTour(tour.ID)

		if gc.store != nil {
			if err := gc.store.DeleteTour(ctx, tour.ID); err != nil {
				gc.logger.Warn("failed to delete tour from redis",
					logger.String("tour_id", tour.ID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected disabled tour",
			logger.String("tour_id", tour.ID),
			logger.String("path", tour.Path()),
			logger.Duration("disabled_for", disabledFor))
		deleted++
	}

	var trimmed int64
	if gc.store != nil {
		n, err := gc.store.TrimViews(ctx, gc.keep)
		if err != nil {
			return err
		}
		trimmed = n
	}

	if deleted > 0 || trimmed > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("tours_deleted", deleted),
			logger.Int64("views_trimmed", trimmed))
	} else {
		gc.logger.Debug("no items to garbage collect")
	}

	return nil
}
