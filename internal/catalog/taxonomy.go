package catalog

import (
	"strings"

	"avnu/internal/model"
)

var categoryTree = []model.Category{
	{ID: "apparel", Name: "Apparel", Subcategories: []model.Subcategory{
		{ID: "apparel-tops", Name: "Tops"},
		{ID: "apparel-bottoms", Name: "Bottoms"},
		{ID: "apparel-outerwear", Name: "Outerwear"},
		{ID: "apparel-loungewear", Name: "Loungewear"},
		{ID: "apparel-knitwear", Name: "Knitwear"},
		{ID: "apparel-footwear", Name: "Footwear"},
	}},
	{ID: "home-living", Name: "Home & Living", Subcategories: []model.Subcategory{
		{ID: "home-bedding", Name: "Bedding", Leaves: []model.CategoryLeaf{
			{ID: "home-bedding-sheets", Name: "Sheets"},
			{ID: "home-bedding-blankets", Name: "Blankets"},
			{ID: "home-bedding-pillows", Name: "Pillows"},
		}},
		{ID: "home-kitchen", Name: "Kitchen", Leaves: []model.CategoryLeaf{
			{ID: "home-kitchen-drinkware", Name: "Drinkware"},
			{ID: "home-kitchen-cookware", Name: "Cookware"},
			{ID: "home-kitchen-serveware", Name: "Serveware"},
		}},
		{ID: "home-furniture", Name: "Furniture"},
		{ID: "home-decor", Name: "Decor"},
		{ID: "home-bath", Name: "Bath"},
		{ID: "home-lighting", Name: "Lighting"},
		{ID: "home-organization", Name: "Organization"},
		{ID: "home-electronics", Name: "Electronics"},
	}},
	{ID: "outdoors", Name: "Outdoors", Subcategories: []model.Subcategory{
		{ID: "outdoors-camping", Name: "Camping", Leaves: []model.CategoryLeaf{
			{ID: "outdoors-camping-tents", Name: "Tents"},
			{ID: "outdoors-camping-sleeping", Name: "Sleeping"},
			{ID: "outdoors-camping-cooking", Name: "Cooking"},
		}},
		{ID: "outdoors-hiking", Name: "Hiking"},
		{ID: "outdoors-travel", Name: "Travel"},
		{ID: "outdoors-water", Name: "Water"},
		{ID: "outdoors-outdoor-living", Name: "Outdoor Living"},
	}},
	{ID: "pet", Name: "Pet", Subcategories: []model.Subcategory{
		{ID: "pet-toys", Name: "Toys"},
		{ID: "pet-grooming", Name: "Grooming"},
		{ID: "pet-leashes", Name: "Leashes"},
		{ID: "pet-beds", Name: "Beds"},
	}},
	{ID: "beauty", Name: "Beauty", Subcategories: []model.Subcategory{
		{ID: "beauty-skincare", Name: "Skincare", Leaves: []model.CategoryLeaf{
			{ID: "beauty-skincare-cleansers", Name: "Cleansers"},
			{ID: "beauty-skincare-moisturizers", Name: "Moisturizers"},
			{ID: "beauty-skincare-serums", Name: "Serums"},
		}},
		{ID: "beauty-body", Name: "Body"},
		{ID: "beauty-hair", Name: "Hair"},
		{ID: "beauty-fragrance", Name: "Fragrance"},
	}},
	{ID: "kids", Name: "Kids", Subcategories: []model.Subcategory{
		{ID: "kids-play", Name: "Play"},
		{ID: "kids-nursery", Name: "Nursery"},
		{ID: "kids-apparel", Name: "Apparel"},
		{ID: "kids-books", Name: "Books"},
	}},
	{ID: "accessories", Name: "Accessories", Subcategories: []model.Subcategory{
		{ID: "accessories-jewelry", Name: "Jewelry"},
		{ID: "accessories-bags", Name: "Bags"},
		{ID: "accessories-wallets", Name: "Wallets"},
		{ID: "accessories-hats", Name: "Hats"},
		{ID: "accessories-tech", Name: "Tech"},
	}},
	{ID: "wellness", Name: "Wellness", Subcategories: []model.Subcategory{
		{ID: "wellness-supplements", Name: "Supplements"},
		{ID: "wellness-sleep", Name: "Sleep"},
		{ID: "wellness-mindfulness", Name: "Mindfulness"},
		{ID: "wellness-recovery", Name: "Recovery"},
	}},
	{ID: "food-drink", Name: "Food & Drink", Subcategories: []model.Subcategory{
		{ID: "food-pantry", Name: "Pantry", Leaves: []model.CategoryLeaf{
			{ID: "food-pantry-oils", Name: "Oils & Vinegars"},
			{ID: "food-pantry-spices", Name: "Spices"},
			{ID: "food-pantry-grains", Name: "Grains"},
		}},
		{ID: "food-snacks", Name: "Snacks"},
		{ID: "food-tea", Name: "Tea"},
		{ID: "food-coffee", Name: "Coffee"},
	}},
}

// 商品上的类目名 -> 类目树 ID
var categoryIDByName = map[string]string{
	"Home & Living": "home-living",
	"Apparel":       "apparel",
	"Beauty":        "beauty",
	"Outdoors":      "outdoors",
	"Pet":           "pet",
	"Kids":          "kids",
	"Food":          "food-drink",
	"Accessories":   "accessories",
	"Wellness":      "wellness",
}

// CategoryRef 商品在类目树中的位置。
type CategoryRef struct {
	CategoryID    string `json:"categoryId"`
	SubcategoryID string `json:"subcategoryId"`
}

// Categories 返回类目树的深拷贝。
func Categories() []model.Category {
	out := make([]model.Category, len(categoryTree))
	for i, c := range categoryTree {
		subs := make([]model.Subcategory, len(c.Subcategories))
		for j, s := range c.Subcategories {
			s.Leaves = append([]model.CategoryLeaf(nil), s.Leaves...)
			subs[j] = s
		}
		c.Subcategories = subs
		out[i] = c
	}
	return out
}

// CategoryPath 返回类目路径的展示名，遇到第一个未知 ID 即停止。
func CategoryPath(categoryID, subcategoryID, leafID string) []string {
	path := []string{}
	if categoryID == "" {
		return path
	}
	cat := findCategory(categoryID)
	if cat == nil {
		return path
	}
	path = append(path, cat.Name)

	if subcategoryID == "" {
		return path
	}
	var sub *model.Subcategory
	for i := range cat.Subcategories {
		if cat.Subcategories[i].ID == subcategoryID {
			sub = &cat.Subcategories[i]
			break
		}
	}
	if sub == nil {
		return path
	}
	path = append(path, sub.Name)

	if leafID == "" {
		return path
	}
	for _, leaf := range sub.Leaves {
		if leaf.ID == leafID {
			return append(path, leaf.Name)
		}
	}
	return path
}

// MapProductCategory 把商品的类目/子类目名映射到类目树 ID。
//
// 类目未知时返回 false；子类目按名称忽略大小写匹配，匹配不到时 SubcategoryID 为空。
func MapProductCategory(p model.Product) (CategoryRef, bool) {
	id, ok := categoryIDByName[p.Category]
	if !ok {
		return CategoryRef{}, false
	}
	cat := findCategory(id)
	if cat == nil {
		return CategoryRef{}, false
	}
	ref := CategoryRef{CategoryID: id}
	for _, s := range cat.Subcategories {
		if strings.EqualFold(s.Name, p.Subcategory) {
			ref.SubcategoryID = s.ID
			break
		}
	}
	return ref, true
}

func findCategory(id string) *model.Category {
	for i := range categoryTree {
		if categoryTree[i].ID == id {
			return &categoryTree[i]
		}
	}
	return nil
}
