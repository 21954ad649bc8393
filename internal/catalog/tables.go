package catalog

// PriceBand 类目价格区间（闭区间，单位：美元）。
type PriceBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// CategoryOverride 按图片系列强制指定类目。
type CategoryOverride struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Tables 是目录生成器的全部静态查找表。
//
// 所有字段只读；生成器对缺失的键回退到默认值而不是报错。
type Tables struct {
	ProductsPerBrand int // 每个品牌的基础商品数
	BonusBrands      int // 前 N 个品牌各多生成一个商品

	PriceBands         map[string]PriceBand
	DefaultPriceBand   PriceBand
	Subcategories      map[string][]string
	DefaultSubcategory string
	Names              map[string][]string
	DefaultName        string
	SeriesNames        map[string][]string
	SeriesCategories   map[string]CategoryOverride
	Leaves             map[string][]string
	Descriptions       map[string][]string
	DefaultDescription string

	LeafThreshold  float64 // prng > LeafThreshold 时追加 leaf
	NewThreshold   float64 // prng > NewThreshold 时标记为新品
	LeafSeparator  string
	IDPrefix       string
	IDWidth        int
	MinRatingCount int
}

// DefaultTables 返回内置查找表的一份新拷贝。
func DefaultTables() Tables {
	return Tables{
		ProductsPerBrand: 6,
		BonusBrands:      12,

		PriceBands: map[string]PriceBand{
			"Home & Living": {18, 140},
			"Apparel":       {22, 180},
			"Beauty":        {14, 96},
			"Outdoors":      {16, 220},
			"Pet":           {10, 140},
			"Kids":          {12, 120},
			"Food":          {8, 68},
			"Accessories":   {18, 240},
			"Wellness":      {12, 110},
		},
		DefaultPriceBand: PriceBand{12, 120},

		Subcategories: map[string][]string{
			"Home & Living": {"Bedding", "Kitchen", "Decor", "Bath", "Lighting", "Organization"},
			"Apparel":       {"Tops", "Bottoms", "Outerwear", "Loungewear", "Knitwear"},
			"Beauty":        {"Skincare", "Body", "Hair", "Fragrance"},
			"Outdoors":      {"Camping", "Hiking", "Travel", "Water"},
			"Pet":           {"Toys", "Grooming", "Leashes", "Beds"},
			"Kids":          {"Play", "Nursery", "Apparel", "Books"},
			"Food":          {"Pantry", "Snacks", "Tea", "Spice"},
			"Accessories":   {"Jewelry", "Bags", "Wallets", "Hats"},
			"Wellness":      {"Supplements", "Sleep", "Mindfulness", "Recovery"},
		},
		DefaultSubcategory: "Essentials",

		Names: map[string][]string{
			"Home & Living": {
				"Washed Linen Throw", "Stoneware Mug Set", "Acacia Serving Board",
				"Cotton Bath Towel", "Glass Oil Cruet", "Hand-poured Candle",
				"Wool Felt Coasters", "Rattan Catchall Tray", "Ceramic Incense Holder",
			},
			"Apparel": {
				"Relaxed Cotton Tee", "Ribbed Tank", "Canvas Work Jacket",
				"Relaxed Chino Pant", "Soft Knit Cardigan", "Merino Beanie",
				"Linen Lounge Short", "Brushed Fleece Hoodie",
			},
			"Beauty": {
				"Rosewater Cleanser", "Nourishing Face Oil", "Mineral Sunscreen",
				"Silk Body Lotion", "Scalp Reset Serum", "Botanical Shampoo", "Soft Neroli Mist",
			},
			"Outdoors": {
				"Trail Daypack", "Insulated Bottle", "Compact Camp Towel", "Pocket Headlamp",
				"Ultralight Cook Kit", "Packable Wind Shell", "River Sandals",
			},
			"Pet": {
				"Wool Rope Tug", "Everyday Leash", "Soft Bristle Brush",
				"Travel Water Bowl", "Calming Bandana", "Machine-washable Bed",
			},
			"Kids": {
				"Wooden Stacking Rings", "Soft Blocks Set", "Storybook Bundle",
				"Coloring Roll", "Mini Apron", "Play Dough Kit",
			},
			"Food": {
				"Smoked Sea Salt Trio", "Stoneground Granola", "Citrus Marmalade",
				"Olive Oil Tin", "Herbal Tea Blend", "Dark Chocolate Bites", "Chili Crunch",
			},
			"Accessories": {
				"Hand-stitched Card Case", "Minimal Leather Tote", "Everyday Hoop Earrings",
				"Woven Bucket Hat", "Silk Scarf", "Braided Keychain",
			},
			"Wellness": {
				"Magnesium Capsules", "Sleep Tea", "Breathwork Cards",
				"Muscle Balm", "Adaptogen Blend", "Aromatherapy Roller",
			},
		},
		DefaultName: "Everyday Essential",

		SeriesNames: map[string][]string{
			"2h-media":            {"Wireless Earbuds", "Noise-Cancelling Earbuds"},
			"andrej-lisakov":      {"Cane Lounge Chair", "Woven Lounge Chair"},
			"andrey-matveev":      {"Compact Speaker System", "Desktop Speaker Set"},
			"behnam-norouzi":      {"Woodgrain Bookshelf Speaker", "Walnut Speaker"},
			"bundo-kim":           {"Minimal Leather Watch", "Classic Leather Strap Watch"},
			"con-se":              {"Floorstanding Speaker Pair", "Tower Speaker Set"},
			"curated-lifestyle":   {"Hand Wash + Body Lotion Set", "Spa Therapy Essentials"},
			"daiga-ellaby":        {"Aromatherapy Roller Set", "Room Spray + Roller Set"},
			"ela-de":              {"Moisturizing Shampoo + Conditioner", "Hydrating Haircare Duo"},
			"george-dagerotip":    {"Braided Rope Armchair", "Woven Accent Chair"},
			"getty-images":        {"Minimal Speaker System", "Bookshelf Speaker Pair"},
			"james-lewis":         {"Leather Chukka Boot", "Everyday Leather Boot"},
			"jose-m":              {"Wicker Patio Chair Set", "Outdoor Bistro Chair"},
			"jsb-co":              {"Rope Hanging Swing", "Hanging Swing Seat"},
			"karolina-grabowska":  {"Hand-thrown Vase", "Stoneware Vase"},
			"lasse-jensen":        {"Smartwatch — Leather Strap", "Smartwatch — Minimal"},
			"matus-gocman":        {"Smartwatch Charging Stand", "Desk Tech Essentials"},
			"mitchell-luo":        {"Textured Oxford Shoe", "Navy Lace-Up Derby"},
			"mockup-free":         {"Skincare Starter Set", "Daily Skincare Essentials"},
			"pablo-merchan":       {"Chunky Knit Throw", "Textured Knit Blanket"},
			"planet-volumes":      {"Modern Sofa", "Minimal Living Room"},
			"polina-kuzovkova":    {"Minimal Lounge Chair", "Modern Lounge Chair"},
			"sayan-majhi":         {"Smartwatch — Leather Strap", "Smartwatch — Everyday"},
			"simon-reza":          {"Brown Leather Sneaker", "Everyday Leather Trainer"},
			"the-nix":             {"Grooming Essentials Set", "All-Over Wash + Toner Set"},
			"tony-zheng":          {"Compact Home Speaker", "Bluetooth Speaker"},
			"twinewood-studio":    {"Vanity Essentials", "Everyday Skincare Set"},
			"victoria-priessnitz": {"Ankle-Strap Sandal", "Minimal Strap Sandal"},
		},

		SeriesCategories: map[string]CategoryOverride{
			// tech / audio
			"2h-media":       {"Accessories", "Tech"},
			"andrey-matveev": {"Home & Living", "Electronics"},
			"behnam-norouzi": {"Home & Living", "Electronics"},
			"con-se":         {"Home & Living", "Electronics"},
			"getty-images":   {"Home & Living", "Electronics"},
			"tony-zheng":     {"Home & Living", "Electronics"},

			// beauty / grooming
			"curated-lifestyle": {"Beauty", "Body"},
			"daiga-ellaby":      {"Beauty", "Fragrance"},
			"ela-de":            {"Beauty", "Hair"},
			"mockup-free":       {"Beauty", "Skincare"},
			"the-nix":           {"Beauty", "Body"},
			"twinewood-studio":  {"Beauty", "Skincare"},

			// footwear
			"james-lewis":         {"Apparel", "Footwear"},
			"mitchell-luo":        {"Apparel", "Footwear"},
			"simon-reza":          {"Apparel", "Footwear"},
			"victoria-priessnitz": {"Apparel", "Footwear"},

			// furniture + decor
			"andrej-lisakov":     {"Home & Living", "Furniture"},
			"george-dagerotip":   {"Home & Living", "Furniture"},
			"planet-volumes":     {"Home & Living", "Furniture"},
			"polina-kuzovkova":   {"Home & Living", "Furniture"},
			"karolina-grabowska": {"Home & Living", "Decor"},
			"pablo-merchan":      {"Home & Living", "Bedding"},

			// outdoor living
			"jose-m": {"Outdoors", "Outdoor Living"},
			"jsb-co": {"Outdoors", "Outdoor Living"},

			// wearables
			"bundo-kim":    {"Accessories", "Tech"},
			"lasse-jensen": {"Accessories", "Tech"},
			"matus-gocman": {"Accessories", "Tech"},
			"sayan-majhi":  {"Accessories", "Tech"},
		},

		Leaves: map[string][]string{
			"Beauty":        {"Cedar", "Unscented", "Rose", "Bergamot", "Sensitive"},
			"Food":          {"Spicy", "Classic", "Citrus", "Smoky", "Sea Salt"},
			"Wellness":      {"Night", "Daily", "Calm", "Restore", "Focus"},
			"Apparel":       {"Stone", "Ink", "Sage", "Oat", "Clay"},
			"Outdoors":      {"Alpine", "Coastal", "Desert", "Forest"},
			"Accessories":   {"Brass", "Sterling", "Black", "Natural"},
			"Home & Living": {"Natural", "Ivory", "Charcoal", "Sage"},
			"Kids":          {"Sand", "Cloud", "Sprout"},
			"Pet":           {"Cedar", "Oat"},
		},

		Descriptions: map[string][]string{
			"Home & Living": {
				"A warm, tactile piece designed to make your space feel lived-in, never busy.",
				"Glazed ceramic details, soft edges, and a finish that looks better with time.",
				"An everyday essential with an editorial silhouette and durable materials.",
			},
			"Apparel": {
				"Relaxed fit, clean lines, and fabric that holds its shape without feeling stiff.",
				"A staple you'll reach for on repeat: easy, breathable, and quietly refined.",
				"Designed for layering with a finish that reads elevated but never loud.",
			},
			"Beauty": {
				"Gentle, effective, and designed to look as good on your shelf as it feels on skin.",
				"A lightweight formula with a balanced finish, made for daily use.",
				"Clean ingredients with a soft scent and an understated, modern texture.",
			},
			"Outdoors": {
				"Built for the pack: lightweight, durable, and ready for early starts.",
				"Practical details with a minimalist look, made to travel well.",
				"Trail-tested performance with a calm, considered design.",
			},
			"Pet": {
				"Comfort-forward and durable, made for daily walks and lazy afternoons.",
				"A simple upgrade that feels good in hand and holds up over time.",
				"Soft where it matters, sturdy where it counts.",
			},
			"Kids": {
				"Designed for curious hands, with materials that can take real play.",
				"Simple shapes, warm colors, and a build that lasts beyond one season.",
				"A playroom favorite with a clean, modern aesthetic.",
			},
			"Food": {
				"Small-batch flavor that elevates the basics without overpowering them.",
				"Balanced, bright, and made to disappear quickly in a well-loved kitchen.",
				"A pantry staple with clean ingredients and a soft, nostalgic note.",
			},
			"Accessories": {
				"Made with thoughtful proportions and a finish that wears beautifully.",
				"An understated piece that sharpens any outfit without trying too hard.",
				"Clean hardware, durable materials, and an easy, everyday feel.",
			},
			"Wellness": {
				"A gentle daily support designed to layer seamlessly into your routine.",
				"Calm, measured, and designed to feel like a small reset.",
				"A quiet ritual that helps you wind down and recharge.",
			},
		},
		DefaultDescription: "A refined essential with durable materials and a quiet finish.",

		LeafThreshold:  0.55,
		NewThreshold:   0.72,
		LeafSeparator:  " — ",
		IDPrefix:       "prod-",
		IDWidth:        3,
		MinRatingCount: 18,
	}
}

// PriceBandFor 返回类目的价格区间，未知类目使用默认区间。
func (t Tables) PriceBandFor(category string) PriceBand {
	if band, ok := t.PriceBands[category]; ok {
		return band
	}
	return t.DefaultPriceBand
}

// DefaultImagePool 内置图片池。
func DefaultImagePool() []string {
	return []string{
		"/products/_pool/2h-media-s4A3YYhz7II-unsplash.jpg",
		"/products/_pool/andrej-lisakov-fOo4p1SFbrk-unsplash.jpg",
		"/products/_pool/andrej-lisakov-megMgyWXwck-unsplash.jpg",
		"/products/_pool/andrey-matveev-Q6HUG_m1xKA-unsplash.jpg",
		"/products/_pool/behnam-norouzi-y0K8EMigxV4-unsplash.jpg",
		"/products/_pool/bundo-kim-oQnnY4mLZmE-unsplash.jpg",
		"/products/_pool/con-se-ZFQfp1ihgmk-unsplash.jpg",
		"/products/_pool/curated-lifestyle-4_-N5jH7WPM-unsplash1.jpg",
		"/products/_pool/curated-lifestyle-gLmmY_kGIdU-unsplash2.jpg",
		"/products/_pool/curated-lifestyle-iw0VRtZS0E4-unsplash3.jpg",
		"/products/_pool/daiga-ellaby-Fs9Vw1OYHJU-unsplash.jpg",
		"/products/_pool/daiga-ellaby-eKBG7QgDQq0-unsplash.jpg",
		"/products/_pool/ela-de-pure-5eoYsqzmDW4-unsplash.jpg",
		"/products/_pool/george-dagerotip-EbJJPQ3_co8-unsplash1.jpg",
		"/products/_pool/george-dagerotip-Y24RoK5flmY-unsplash2.jpg",
		"/products/_pool/getty-images-63mXBf49V_E-unsplash1.jpg",
		"/products/_pool/getty-images-A9by5fW3N8s-unsplash2.jpg",
		"/products/_pool/getty-images-ZXEv4N7xXjg-unsplash.jpg",
		"/products/_pool/getty-images-iWq-K1gzKQI-unsplash3.jpg",
		"/products/_pool/james-lewis-GeXsUpTSYFg-unsplash.jpg",
		"/products/_pool/jose-m-ayala-abXRpkfW6MA-unsplash.jpg",
		"/products/_pool/jsb-co-6ak39XYMMvk-unsplash.jpg",
		"/products/_pool/karolina-grabowska-fpz3RrJtoh8-unsplash.jpg",
		"/products/_pool/lasse-jensen-g4IG8Ux6wvA-unsplash.jpg",
		"/products/_pool/matus-gocman-_VD-KDdnoOM-unsplash.jpg",
		"/products/_pool/mitchell-luo-dH20XDNJsN8-unsplash1.jpg",
		"/products/_pool/mitchell-luo-GYNNykpWOU4-unsplash2.jpg",
		"/products/_pool/mitchell-luo-ryXtOo247mI-unsplash3.jpg",
		"/products/_pool/mockup-free-BBUbUMxC_rc-unsplash.jpg",
		"/products/_pool/pablo-merchan-montes--JfwKVjInI0-unsplash.jpg",
		"/products/_pool/planet-volumes-VD9oRt9v4Yo-unsplash.jpg",
		"/products/_pool/planet-volumes-frrwVFGvLL4-unsplash.jpg",
		"/products/_pool/polina-kuzovkova-K38VKmY_T0o-unsplash.jpg",
		"/products/_pool/sayan-majhi-lWVgBTkXtCU-unsplash.jpg",
		"/products/_pool/simon-reza-DNEIasg9HaY-unsplash.jpg",
		"/products/_pool/the-nix-company-tR-fqLlBg5c-unsplash.jpg",
		"/products/_pool/tony-zheng-ozzyqRVqyQ0-unsplash.jpg",
		"/products/_pool/twinewood-studio-7ZaRKlsIK6w-unsplash.jpg",
		"/products/_pool/victoria-priessnitz-UR-0lB0sDTA-unsplash.jpg",
	}
}
