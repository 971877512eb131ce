package catalog

// DefaultPageSize is the number of products shown per page.
const DefaultPageSize = 12

// TotalPages returns ceil(total/pageSize). An empty result has zero pages.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (total + pageSize - 1) / pageSize
}

// Window describes the pagination controls for a page.
type Window struct {
	Pages   []int `json:"pages"`
	Current int   `json:"current"`
	HasPrev bool  `json:"hasPrev"`
	HasNext bool  `json:"hasNext"`
}

// Hidden reports whether pagination controls should be shown at all.
func (w Window) Hidden() bool {
	return len(w.Pages) == 0
}

// PageWindow returns the page buttons around current: up to two on each
// side, clipped to [1, totalPages]. Controls are hidden when there is at
// most one page.
func PageWindow(current, totalPages int) Window {
	if totalPages <= 1 {
		return Window{Current: current}
	}

	start := max(1, current-2)
	end := min(totalPages, current+2)

	w := Window{
		Current: current,
		HasPrev: current > 1,
		HasNext: current < totalPages,
	}
	for i := start; i <= end; i++ {
		w.Pages = append(w.Pages, i)
	}
	return w
}
