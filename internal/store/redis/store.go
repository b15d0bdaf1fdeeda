package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
)

const (
	// DefaultTourTTL is the default TTL for tour snapshots (48 hours)
	DefaultTourTTL = 48 * time.Hour
	// DefaultCacheTTL is the default TTL for cached searches
	DefaultCacheTTL = 10 * time.Minute
)

// Store handles Redis operations for tour snapshots, views and search cache
type Store struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[any]
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client, opts BreakerOptions, log logger.Logger) *Store {
	return &Store{
		client:  client,
		breaker: newBreaker(opts, log),
	}
}

// Ping checks the connection, bypassing the breaker.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetAllTours retrieves all tour snapshots. Expired or unreadable entries are skipped.
func (s *Store) GetAllTours(ctx context.Context) ([]*domain.Tour, error) {
	var ids []string
	err := s.do(func() error {
		var err error
		ids, err = s.client.SMembers(ctx, AllToursKey()).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tour IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Tour{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = TourKey(id)
	}

	var values []any
	err = s.do(func() error {
		var err error
		values, err = s.client.MGet(ctx, keys...).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tours: %w", err)
	}

	tours := make([]*domain.Tour, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var tour domain.Tour
		if err := json.Unmarshal([]byte(raw), &tour); err != nil {
			continue
		}
		tours = append(tours, &tour)
	}

	return tours, nil
}

// DeleteTour removes a tour snapshot and its view count
func (s *Store) DeleteTour(ctx context.Context, id string) error {
	err := s.do(func() error {
		pipe := s.client.TxPipeline()
		pipe.Del(ctx, TourKey(id))
		pipe.SRem(ctx, AllToursKey(), id)
		pipe.ZRem(ctx, ViewsKey(), id)
		_, err := pipe.Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	return nil
}

// SaveToursMany stores multiple tour snapshots in Redis (bulk operation)
func (s *Store) SaveToursMany(ctx context.Context, tours []*domain.Tour) error {
	if len(tours) == 0 {
		return nil
	}

	payloads := make(map[string][]byte, len(tours))
	for _, tour := range tours {
		data, err := json.Marshal(tour)
		if err != nil {
			return fmt.Errorf("failed to marshal tour %s: %w", tour.ID, err)
		}
		payloads[tour.ID] = data
	}

	err := s.do(func() error {
		pipe := s.client.Pipeline()
		for id, data := range payloads {
			pipe.Set(ctx, TourKey(id), data, DefaultTourTTL)
			pipe.SAdd(ctx, AllToursKey(), id)
		}
		_, err := pipe.Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save tours: %w", err)
	}
	return nil
}
