package catalog

// AllCategories selects every category in FilterCriteria.
const AllCategories = "all"

// Category is a fixed catalog section.
type Category struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

var categories = []Category{
	{"fresh-produce", "Fresh Produce"},
	{"meat-poultry", "Meat & Poultry"},
	{"seafood", "Seafood"},
	{"dairy-eggs", "Dairy & Eggs"},
	{"bakery", "Bakery"},
	{"frozen-foods", "Frozen Foods"},
	{"beverages", "Beverages"},
	{"snacks", "Snacks & Confectionery"},
	{"pantry", "Pantry Staples"},
	{"health-beauty", "Health & Beauty"},
	{"household", "Household & Cleaning"},
	{"baby-products", "Baby Products"},
}

var categoryNames = func() map[string]string {
	m := make(map[string]string, len(categories))
	for _, c := range categories {
		m[c.Key] = c.Name
	}
	return m
}()

// Categories returns the registry in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether key names a known category.
func IsCategory(key string) bool {
	_, ok := categoryNames[key]
	return ok
}

// CategoryName returns the display name for key, or "" if unknown.
func CategoryName(key string) string {
	return categoryNames[key]
}

// DisplayCategory is the category label shown for p. The registry name
// wins for known keys; otherwise the stored name, then "General".
func DisplayCategory(p Product) string {
	if name := categoryNames[p.Category]; name != "" {
		return name
	}
	if p.CategoryName != "" {
		return p.CategoryName
	}
	return "General"
}
