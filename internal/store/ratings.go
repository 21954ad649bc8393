package store

import (
	"context"
	"math"
)

// RatingsStore 用户对商品的评分，productID -> rating。
type RatingsStore struct {
	base
}

// All 返回全部评分。
func (s *RatingsStore) All(ctx context.Context, profileID string) (map[string]float64, error) {
	m, err := load[map[string]float64](ctx, s.base, profileID, KeyRatings)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]float64{}
	}
	return m, nil
}

// Get 返回评分，未评分时 ok 为 false。
func (s *RatingsStore) Get(ctx context.Context, profileID, productID string) (float64, bool, error) {
	m, err := s.All(ctx, profileID)
	if err != nil {
		return 0, false, err
	}
	r, ok := m[productID]
	return r, ok, nil
}

// Set 保存评分并返回实际存储的值。
//
// rating 取最近的 0.5 并夹在 [0,5]；NaN/Inf 返回 ErrInvalidRating。
func (s *RatingsStore) Set(ctx context.Context, profileID, productID string, rating float64) (float64, error) {
	if math.IsNaN(rating) || math.IsInf(rating, 0) || productID == "" {
		return 0, ErrInvalidRating
	}
	stored := NormalizeRating(rating)
	_, err := update(ctx, s.base, profileID, KeyRatings, func(m *map[string]float64) (bool, error) {
		if *m == nil {
			*m = map[string]float64{}
		}
		if prev, ok := (*m)[productID]; ok && prev == stored {
			return false, nil
		}
		(*m)[productID] = stored
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// NormalizeRating 取最近的 0.5 并夹在 [0,5]。
func NormalizeRating(r float64) float64 {
	return math.Max(0, math.Min(5, math.Round(r*2)/2))
}
