package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"avnu/internal/model"
)

//go:embed data/brands.json
var defaultBrandsJSON []byte

// ErrNoBrands 品牌列表为空。
var ErrNoBrands = errors.New("brand list is empty")

// DefaultBrands 返回内置的品牌列表。
func DefaultBrands() []model.Brand {
	brands, err := ParseBrands(defaultBrandsJSON)
	if err != nil {
		// 内置数据随二进制一起发布，解析失败说明构建产物已损坏
		panic(fmt.Sprintf("embedded brands: %v", err))
	}
	return brands
}

// LoadBrands 从 JSON 文件读取品牌列表，path 为空时使用内置数据。
func LoadBrands(path string) ([]model.Brand, error) {
	if path == "" {
		return DefaultBrands(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brands file: %w", err)
	}
	return ParseBrands(data)
}

// ParseBrands 解析并校验品牌 JSON 数组。
//
// 品牌顺序会影响商品 ID，所以这里保持输入顺序不变。
func ParseBrands(data []byte) ([]model.Brand, error) {
	var brands []model.Brand
	if err := json.Unmarshal(data, &brands); err != nil {
		return nil, fmt.Errorf("parse brands: %w", err)
	}
	if len(brands) == 0 {
		return nil, ErrNoBrands
	}
	seen := make(map[string]struct{}, len(brands))
	for i, b := range brands {
		if b.ID == "" {
			return nil, fmt.Errorf("brand #%d: missing id", i)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("brand %q: duplicate id", b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return brands, nil
}
