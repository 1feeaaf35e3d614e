package core

// Page is one slice of a paginated collection.
type Page[T any] struct {
	Number     int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
	Items      []T `json:"items"`
}

// TotalPages returns ceil(total/size); 0 when the collection is empty.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate slices items into the 1-based page number of the given size.
// Out-of-range page numbers are clamped so the caller never receives a
// page that does not exist; the concatenation of all pages, in order,
// equals items.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	pages := TotalPages(total, size)
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}

	p := Page[T]{Number: page, TotalPages: pages, TotalItems: total, Items: []T{}}
	if pages == 0 {
		return p
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	p.Items = items[start:end]
	return p
}

// Filter returns the items matching pred, preserving order. Applying it
// twice with the same predicate yields the same set as applying it once.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}
