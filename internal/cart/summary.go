// Package cart 把购物车条目与目录数据合并为按品牌分组的汇总视图。
package cart

import (
	"avnu/internal/model"

	"github.com/shopspring/decimal"
)

const (
	UnknownBrandID   = "unknown"
	UnknownBrandName = "Unknown Brand"
)

var hundred = decimal.NewFromInt(100)

// Lookup 汇总时需要的目录查询，*catalog.Catalog 满足该接口。
type Lookup interface {
	Product(id string) (model.Product, bool)
	Brand(id string) (model.Brand, bool)
}

// Line 购物车中的一行。
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Known     bool            `json:"known"`
}

// FreeShipping 品牌免运费进度。
type FreeShipping struct {
	Threshold  decimal.Decimal `json:"threshold"`
	AlwaysFree bool            `json:"alwaysFree"`
	Remaining  decimal.Decimal `json:"remaining"`
	Unlocked   bool            `json:"unlocked"`
	Progress   decimal.Decimal `json:"progress"` // 百分比，最大 100
}

// BrandGroup 同一品牌下的条目和小计。
type BrandGroup struct {
	BrandID   string          `json:"brandId"`
	BrandName string          `json:"brandName"`
	Lines     []Line          `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  *FreeShipping   `json:"shipping,omitempty"`
}

// Summary 整个购物车的汇总。
type Summary struct {
	Groups     []BrandGroup    `json:"groups"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Summarize 按品牌首次出现的顺序分组并计算金额。
//
// 未知品牌归入 "unknown" 组且不计算免运费进度；未知商品按单价 0 计入。
//
// 参数:
//
//	items: 购物车条目（按加入顺序）
//	lookup: 目录查询
//
// 返回值:
//
//	Summary: 分组、件数与总金额
func Summarize(items []model.CartItem, lookup Lookup) Summary {
	sum := Summary{Groups: []BrandGroup{}, Subtotal: decimal.Zero}
	groupIndex := make(map[string]int)
	brands := make(map[string]model.Brand)

	for _, item := range items {
		brand, known := lookup.Brand(item.BrandID)
		groupID := UnknownBrandID
		groupName := UnknownBrandName
		if known {
			groupID, groupName = brand.ID, brand.Name
			brands[groupID] = brand
		}

		gi, ok := groupIndex[groupID]
		if !ok {
			gi = len(sum.Groups)
			groupIndex[groupID] = gi
			sum.Groups = append(sum.Groups, BrandGroup{
				BrandID:   groupID,
				BrandName: groupName,
				Lines:     []Line{},
				Subtotal:  decimal.Zero,
			})
		}

		line := Line{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: decimal.Zero}
		if p, ok := lookup.Product(item.ProductID); ok {
			line.Known = true
			line.Name = p.Name
			line.UnitPrice = decimal.NewFromInt(int64(p.Price))
			if len(p.Images) > 0 {
				line.Image = p.Images[0]
			}
		}
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		g := &sum.Groups[gi]
		g.Lines = append(g.Lines, line)
		g.Subtotal = g.Subtotal.Add(line.LineTotal)
		sum.Subtotal = sum.Subtotal.Add(line.LineTotal)
		sum.TotalItems += item.Quantity
	}

	for i := range sum.Groups {
		g := &sum.Groups[i]
		if b, ok := brands[g.BrandID]; ok {
			shipping := Progress(b.FreeShippingThreshold, g.Subtotal)
			g.Shipping = &shipping
		}
	}
	return sum
}

// Progress 计算免运费进度。threshold <= 0 表示始终免运费。
func Progress(threshold int, subtotal decimal.Decimal) FreeShipping {
	if threshold <= 0 {
		return FreeShipping{
			Threshold:  decimal.Zero,
			AlwaysFree: true,
			Remaining:  decimal.Zero,
			Unlocked:   true,
			Progress:   hundred,
		}
	}
	t := decimal.NewFromInt(int64(threshold))
	remaining := t.Sub(subtotal)
	progress := decimal.Min(subtotal.Div(t).Mul(hundred), hundred)
	return FreeShipping{
		Threshold: t,
		Remaining: remaining,
		Unlocked:  !remaining.IsPositive(),
		Progress:  progress,
	}
}
