package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/wayfare/internal/index"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
)

// RedisSyncer restores tours and view counts from Redis on startup
type RedisSyncer struct {
	store  SnapshotStore
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(store SnapshotStore, idx *index.MemoryIndex, log logger.Logger) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// SyncTours seeds an empty index with the last snapshot, so pages can be
// served before the catalog is read.
func (rs *RedisSyncer) SyncTours(ctx context.Context) error {
	rs.logger.Info("syncing tours from redis to memory")

	tours, err := rs.store.GetAllTours(ctx)
	if err != nil {
		return fmt.Errorf("failed to read tour snapshot: %w", err)
	}
	if len(tours) == 0 {
		rs.logger.Info("no tours found in redis")
		return nil
	}

	rs.index.UpdateTours(tours)
	rs.logger.Info("synced tours from redis", logger.Int("count", len(tours)))
	return nil
}

// SyncViews copies persisted view counts into the index.
func (rs *RedisSyncer) SyncViews(ctx context.Context) error {
	stats, err := rs.store.GetViewStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read view counts: %w", err)
	}
	rs.index.SetViews(stats)
	rs.logger.Debug("synced view counts from redis", logger.Int("count", len(stats)))
	return nil
}
