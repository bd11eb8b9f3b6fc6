package pagination

const (
	// DefaultSize is the standard page size when a size is not provided.
	DefaultSize = 24
	// MaxSize caps how many rows a single page may return.
	MaxSize = 100
)

// Params holds 1-based page inputs from controllers.
type Params struct {
	Page int
	Size int
}

// Result describes the returned window of a larger list.
type Result struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasMore  bool `json:"has_more"`
}

// Normalize enforces page >= 1 and the given default and maximum sizes.
// Non-positive defaults fall back to the package constants.
func (p Params) Normalize(defaultSize, maxSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultSize
	}
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

// Slice returns the requested page of items. Pages past the end are empty, not errors.
func Slice[T any](items []T, p Params) ([]T, Result) {
	p = p.Normalize(p.Size, p.Size)
	total := len(items)
	start := (p.Page - 1) * p.Size
	if start > total {
		start = total
	}
	end := start + p.Size
	if end > total {
		end = total
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, Result{Page: p.Page, PageSize: p.Size, Total: total, HasMore: end < total}
}
