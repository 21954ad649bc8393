package store

import (
	"context"

	"avnu/internal/model"
)

// MaxQuantity 单行数量上限。
const MaxQuantity = 999

// CartStore 有序的购物车条目，每个商品至多一行。
type CartStore struct {
	base
}

// Items 返回购物车条目（加入顺序）。
func (s *CartStore) Items(ctx context.Context, profileID string) ([]model.CartItem, error) {
	items, err := load[[]model.CartItem](ctx, s.base, profileID, KeyCart)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

// Add 加入购物车：已有该商品时累加数量，否则追加到末尾。
//
// 参数:
//
//	productID: 商品 ID
//	brandID: 商品所属品牌 ID
//	quantity: 数量，1 到 MaxQuantity
//
// 返回值:
//
//	[]model.CartItem: 更新后的条目
//	error: quantity 非法或累加后超过 MaxQuantity 时为 ErrInvalidQuantity
func (s *CartStore) Add(ctx context.Context, profileID, productID, brandID string, quantity int) ([]model.CartItem, error) {
	if quantity < 1 || quantity > MaxQuantity || productID == "" {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, profileID, func(items *[]model.CartItem) (bool, error) {
		for i := range *items {
			if (*items)[i].ProductID == productID {
				if quantity > MaxQuantity-(*items)[i].Quantity {
					return false, ErrInvalidQuantity
				}
				(*items)[i].Quantity += quantity
				return true, nil
			}
		}
		*items = append(*items, model.CartItem{ProductID: productID, BrandID: brandID, Quantity: quantity})
		return true, nil
	})
}

// UpdateQuantity 设置数量；quantity <= 0 时移除该行，超过 MaxQuantity 返回 ErrInvalidQuantity，
// 商品不在购物车时不做任何事。
func (s *CartStore) UpdateQuantity(ctx context.Context, profileID, productID string, quantity int) ([]model.CartItem, error) {
	if quantity <= 0 {
		return s.Remove(ctx, profileID, productID)
	}
	if quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, profileID, func(items *[]model.CartItem) (bool, error) {
		for i := range *items {
			if (*items)[i].ProductID == productID {
				if (*items)[i].Quantity == quantity {
					return false, nil
				}
				(*items)[i].Quantity = quantity
				return true, nil
			}
		}
		return false, nil
	})
}

// Increment 数量加一。
func (s *CartStore) Increment(ctx context.Context, profileID, productID string) ([]model.CartItem, error) {
	return s.step(ctx, profileID, productID, 1)
}

// Decrement 数量减一，减到 0 时移除。
func (s *CartStore) Decrement(ctx context.Context, profileID, productID string) ([]model.CartItem, error) {
	return s.step(ctx, profileID, productID, -1)
}

func (s *CartStore) step(ctx context.Context, profileID, productID string, delta int) ([]model.CartItem, error) {
	return s.mutate(ctx, profileID, func(items *[]model.CartItem) (bool, error) {
		for i := range *items {
			if (*items)[i].ProductID != productID {
				continue
			}
			if delta > MaxQuantity-(*items)[i].Quantity {
				return false, ErrInvalidQuantity
			}
			q := (*items)[i].Quantity + delta
			if q <= 0 {
				*items = append((*items)[:i], (*items)[i+1:]...)
			} else {
				(*items)[i].Quantity = q
			}
			return true, nil
		}
		return false, nil
	})
}

// Remove 移除一行。
func (s *CartStore) Remove(ctx context.Context, profileID, productID string) ([]model.CartItem, error) {
	return s.mutate(ctx, profileID, func(items *[]model.CartItem) (bool, error) {
		out := (*items)[:0]
		for _, it := range *items {
			if it.ProductID != productID {
				out = append(out, it)
			}
		}
		removed := len(out) != len(*items)
		*items = out
		return removed, nil
	})
}

// Clear 清空购物车。
func (s *CartStore) Clear(ctx context.Context, profileID string) error {
	_, err := s.mutate(ctx, profileID, func(items *[]model.CartItem) (bool, error) {
		if len(*items) == 0 {
			return false, nil
		}
		*items = []model.CartItem{}
		return true, nil
	})
	return err
}

// Quantity 某商品的数量，不在购物车时为 0。
func (s *CartStore) Quantity(ctx context.Context, profileID, productID string) (int, error) {
	items, err := s.Items(ctx, profileID)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if it.ProductID == productID {
			return it.Quantity, nil
		}
	}
	return 0, nil
}

// TotalItems 所有行数量之和。
func (s *CartStore) TotalItems(ctx context.Context, profileID string) (int, error) {
	items, err := s.Items(ctx, profileID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total, nil
}

func (s *CartStore) mutate(ctx context.Context, profileID string, fn func(*[]model.CartItem) (bool, error)) ([]model.CartItem, error) {
	items, err := update(ctx, s.base, profileID, KeyCart, fn)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}
