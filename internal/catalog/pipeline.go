package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Query is one evaluation of the pipeline.
type Query struct {
	Criteria FilterCriteria
	Sort     SortMode
	Page     int // 1-based; values below 1 read page 1
	PageSize int // DefaultPageSize when zero

	// Locale drives name ordering. The zero Tag sorts with root collation.
	Locale language.Tag
}

// Result is the visible page plus the counts needed by the result header
// and pagination controls.
type Result struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

// Empty reports the "no results" state.
func (r Result) Empty() bool {
	return r.Total == 0
}

// Window returns the pagination controls for the result.
func (r Result) Window() Window {
	return PageWindow(r.Page, r.TotalPages)
}

// Apply derives the visible page from the full product list.
//
// Stages always run in this order: category, search, price range, stock,
// stable sort, paginate. The input slice is never modified. A page past the
// end yields no items; clamping the page is the caller's job.
func Apply(products []Product, q Query) Result {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := max(q.Page, 1)

	matched := Filter(products, q.Criteria)
	sortProducts(matched, q.Sort, q.Locale)

	res := Result{
		Total:      len(matched),
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(matched), size),
		Items:      []Product{},
	}

	if page > res.TotalPages {
		return res
	}
	start := (page - 1) * size
	end := min(start+size, len(matched))
	res.Items = matched[start:end]
	return res
}

// Filter runs the four filter stages and returns a new slice.
func Filter(products []Product, c FilterCriteria) []Product {
	out := slices.Clone(products)

	if c.Category != "" && c.Category != AllCategories {
		out = slices.DeleteFunc(out, func(p Product) bool {
			return p.Category != c.Category
		})
	}

	if term := strings.TrimSpace(c.SearchTerm); term != "" {
		m := newMatcher(term)
		out = slices.DeleteFunc(out, func(p Product) bool {
			return !m.matches(p)
		})
	}

	out = slices.DeleteFunc(out, func(p Product) bool {
		if p.Price.LessThan(c.MinPrice) {
			return true
		}
		return c.MaxPrice.Valid && p.Price.GreaterThan(c.MaxPrice.Decimal)
	})

	if c.InStockOnly {
		out = slices.DeleteFunc(out, func(p Product) bool {
			return !p.InStock()
		})
	}

	return out
}

// matcher does case-insensitive substring search. A Caser is stateful, so
// each Filter call gets its own.
type matcher struct {
	fold cases.Caser
	term string
}

func newMatcher(term string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.term = m.normalize(term)
	return m
}

func (m *matcher) normalize(s string) string {
	return m.fold.String(norm.NFC.String(s))
}

func (m *matcher) matches(p Product) bool {
	fields := []string{p.Name, p.Description, searchCategory(p)}
	for _, f := range fields {
		if f != "" && strings.Contains(m.normalize(f), m.term) {
			return true
		}
	}
	return false
}

func searchCategory(p Product) string {
	if name := CategoryName(p.Category); name != "" {
		return name
	}
	return p.CategoryName
}

func sortProducts(products []Product, mode SortMode, locale language.Tag) {
	switch mode {
	case SortNameAsc, SortNameDesc:
		col := collate.New(locale)
		slices.SortStableFunc(products, func(a, b Product) int {
			c := col.CompareString(a.Name, b.Name)
			if mode == SortNameDesc {
				return -c
			}
			return c
		})
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	}
}
