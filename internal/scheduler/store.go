package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
)

// SnapshotStore persists the catalog between restarts. *redis.Store implements it.
type SnapshotStore interface {
	SaveToursMany(ctx context.Context, tours []*domain.Tour) error
	GetAllTours(ctx context.Context) ([]*domain.Tour, error)
	DeleteTour(ctx context.Context, id string) error
	GetViewStats(ctx context.Context) (map[string]int64, error)
	TrimViews(ctx context.Context, keep int) (int64, error)
	FlushCache(ctx context.Context) error
}
