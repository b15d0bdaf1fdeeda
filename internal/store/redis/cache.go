package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// CacheSearch stores the ranked tour IDs of a query
func (s *Store) CacheSearch(ctx context.Context, query string, tourIDs []string, ttl time.Duration) error {
	data, err := json.Marshal(tourIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}
	err = s.do(func() error {
		return s.client.Set(ctx, SearchKey(query), data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to cache search: %w", err)
	}
	return nil
}

// GetCachedSearch retrieves a cached search, nil on a miss
func (s *Store) GetCachedSearch(ctx context.Context, query string) ([]string, error) {
	var data []byte
	err := s.do(func() error {
		var err error
		data, err = s.client.Get(ctx, SearchKey(query)).Bytes()
		return err
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached search: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached search: %w", err)
	}
	return ids, nil
}

// InvalidateSearch removes a cached search
func (s *Store) InvalidateSearch(ctx context.Context, query string) error {
	err := s.do(func() error {
		return s.client.Del(ctx, SearchKey(query)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// FlushCache removes all cached searches
func (s *Store) FlushCache(ctx context.Context) error {
	return s.do(func() error {
		iter := s.client.Scan(ctx, 0, KeyPrefixSearch+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("failed to delete cache key: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to flush cache: %w", err)
		}
		return nil
	})
}
