package model

// Brand 表示一个入驻品牌。
//
// 品牌数据是静态输入，启动时加载一次，之后不可变。
// ID 是稳定的 slug（如 "ashwood-atelier"），购物车等用户数据以它为键。
type Brand struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Tagline               string   `json:"tagline"`
	Location              string   `json:"location"`
	Categories            []string `json:"categories"`            // 品牌声明的类目（至少一个）
	FounderName           string   `json:"founderName,omitempty"` // 创始人
	FoundedYear           int      `json:"foundedYear,omitempty"` // 创立年份
	FreeShippingThreshold int      `json:"freeShippingThreshold"` // 包邮门槛（<=0 表示始终包邮）
	Story                 string   `json:"story,omitempty"`
	LogoMark              string   `json:"logoMark,omitempty"`
	HeroImage             string   `json:"heroImage,omitempty"`
	StoryImage            string   `json:"storyImage,omitempty"`
	CarouselImages        []string `json:"carouselImages,omitempty"`
	ReelURL               string   `json:"reelUrl,omitempty"`
}

// Product 表示目录生成器派生出的商品。
//
// 商品只在生成时创建，之后从不修改。用户评分、收藏等数据存放在独立的
// profile 覆盖层中，而不是写回 Product。
type Product struct {
	ID          string   `json:"id"`      // 顺序生成的 ID，如 "prod-001"
	BrandID     string   `json:"brandId"` // 所属品牌
	Name        string   `json:"name"`
	Price       int      `json:"price"`       // 类目价格区间内的偶数
	Rating      float64  `json:"rating"`      // [0,5]，步长 0.5
	RatingCount int      `json:"ratingCount"` // >= 18
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Leaf        string   `json:"leaf,omitempty"` // 细分变体（香型、颜色等），可为空
	Images      []string `json:"images"`         // 2-4 张，无重复
	IsNew       bool     `json:"isNew"`
	Description string   `json:"description"`
}

// CartItem 购物车中的一行。
type CartItem struct {
	ProductID string `json:"productId"`
	BrandID   string `json:"brandId"`
	Quantity  int    `json:"quantity"` // >= 1
}

// ProfileSettings 用户资料与偏好设置。
type ProfileSettings struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReduceMotion bool   `json:"reduceMotion"`
	HideCents    bool   `json:"hideCents"`
	CompactGrid  bool   `json:"compactGrid"`
	Zip          string `json:"zip"`
	State        string `json:"state"`
}

// Category 类目树节点。
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory 二级类目，可带叶子节点。
type Subcategory struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Leaves []CategoryLeaf `json:"leaves,omitempty"`
}

// CategoryLeaf 三级类目。
type CategoryLeaf struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
