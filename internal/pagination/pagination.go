package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps page to at least 1 and pageSize to (0, MaxPageSize].
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset returns the zero based row offset for page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// Window slices a fully loaded result set the way LIMIT/OFFSET would.
func Window[T any](items []T, page, pageSize int) []T {
	start := Offset(page, pageSize)
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
