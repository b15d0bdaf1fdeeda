package redis

import (
	"context"
	"fmt"
)

// ViewCount is one entry of the popularity ranking.
type ViewCount struct {
	TourID string
	Views  int64
}

// IncrementViews adds one view to a tour and returns its new count
func (s *Store) IncrementViews(ctx context.Context, tourID string) (int64, error) {
	var score float64
	err := s.do(func() error {
		var err error
		score, err = s.client.ZIncrBy(ctx, ViewsKey(), 1, tourID).Result()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return int64(score), nil
}

// TopViewed returns the n most viewed tours, most viewed first
func (s *Store) TopViewed(ctx context.Context, n int) ([]ViewCount, error) {
	if n <= 0 {
		return []ViewCount{}, nil
	}
	return s.viewRange(ctx, 0, int64(n-1))
}

// GetViewStats retrieves the view count of every ranked tour
func (s *Store) GetViewStats(ctx context.Context) (map[string]int64, error) {
	all, err := s.viewRange(ctx, 0, -1)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int64, len(all))
	for _, vc := range all {
		stats[vc.TourID] = vc.Views
	}
	return stats, nil
}

func (s *Store) viewRange(ctx context.Context, start, stop int64) ([]ViewCount, error) {
	var out []ViewCount
	err := s.do(func() error {
		res, err := s.client.ZRevRangeWithScores(ctx, ViewsKey(), start, stop).Result()
		if err != nil {
			return err
		}
		out = make([]ViewCount, 0, len(res))
		for _, z := range res {
			id, ok := z.Member.(string)
			if !ok {
				continue
			}
			out = append(out, ViewCount{TourID: id, Views: int64(z.Score)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read views: %w", err)
	}
	return out, nil
}

// TrimViews keeps the keep most viewed tours and drops the rest. It returns
// the number of removed entries.
func (s *Store) TrimViews(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var removed int64
	err := s.do(func() error {
		var err error
		// ranks are ascending: drop everything below the top keep
		removed, err = s.client.ZRemRangeByRank(ctx, ViewsKey(), 0, int64(-keep-1)).Result()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to trim views: %w", err)
	}
	return removed, nil
}

