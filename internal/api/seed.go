package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const demoFavorites = 3

// SeedDemoProfile 为演示 profile 预置收藏和购物车。
//
// 已有收藏时不做任何修改，重启多次结果一致。
func (s *Server) SeedDemoProfile(ctx context.Context) error {
	profileID := s.cfg.App.DemoProfileID
	if profileID == "" {
		return nil
	}
	if _, err := uuid.Parse(profileID); err != nil {
		return fmt.Errorf("demo profile id %q: %w", profileID, err)
	}

	favs, err := s.store.Favorites.List(ctx, profileID)
	if err != nil {
		return fmt.Errorf("load demo favorites: %w", err)
	}
	if len(favs) > 0 {
		return nil
	}

	products := s.catalog.Products()
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, demoFavorites)
	for i := 0; i < demoFavorites && i < len(products); i++ {
		ids = append(ids, products[i].ID)
	}
	if _, err := s.store.Favorites.Add(ctx, profileID, ids...); err != nil {
		return fmt.Errorf("seed demo favorites: %w", err)
	}

	items, err := s.store.Cart.Items(ctx, profileID)
	if err != nil {
		return fmt.Errorf("load demo cart: %w", err)
	}
	if len(items) == 0 {
		first := products[0]
		if _, err := s.store.Cart.Add(ctx, profileID, first.ID, first.BrandID, 1); err != nil {
			return fmt.Errorf("seed demo cart: %w", err)
		}
	}

	s.logger.Info("demo profile seeded",
		slog.String("profile_id", profileID),
		slog.Int("favorites", len(ids)))
	return nil
}
