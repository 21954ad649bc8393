package store

import (
	"context"
	"slices"
)

// FavoritesStore 收藏的商品 ID 列表，按收藏顺序。
type FavoritesStore struct {
	base
}

// List 返回收藏列表。
func (s *FavoritesStore) List(ctx context.Context, profileID string) ([]string, error) {
	ids, err := load[[]string](ctx, s.base, profileID, KeyFavorites)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Contains 是否已收藏。
func (s *FavoritesStore) Contains(ctx context.Context, profileID, productID string) (bool, error) {
	ids, err := s.List(ctx, profileID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, productID), nil
}

// Toggle 切换收藏状态，返回切换后是否处于收藏中。
func (s *FavoritesStore) Toggle(ctx context.Context, profileID, productID string) (bool, error) {
	var favorite bool
	_, err := update(ctx, s.base, profileID, KeyFavorites, func(ids *[]string) (bool, error) {
		if i := slices.Index(*ids, productID); i >= 0 {
			*ids = slices.Delete(*ids, i, i+1)
			favorite = false
		} else {
			*ids = append(*ids, productID)
			favorite = true
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return favorite, nil
}

// Add 收藏（已收藏时不变）。
func (s *FavoritesStore) Add(ctx context.Context, profileID string, productIDs ...string) ([]string, error) {
	ids, err := update(ctx, s.base, profileID, KeyFavorites, func(ids *[]string) (bool, error) {
		changed := false
		for _, id := range productIDs {
			if !slices.Contains(*ids, id) {
				*ids = append(*ids, id)
				changed = true
			}
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
