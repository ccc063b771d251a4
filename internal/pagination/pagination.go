package pagination

// Page is the derived pagination descriptor returned alongside every list;
// it is never stored.
type Page struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Clamp normalizes raw page/limit query values: page >= 1, limit in
// [1, MaxLimit], zero limit falls back to the default.
func Clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

// Build computes the descriptor. totalPages = ceil(total/limit); hasNext is
// true iff page < totalPages, so pages past the end report hasNext=false.
func Build(page, limit, total int) Page {
	totalPages := (total + limit - 1) / limit
	return Page{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// Slice windows an in-memory, already-filtered set. Requests beyond the end
// yield an empty slice, never an error.
func Slice[T any](items []T, page, limit int) []T {
	offset := Offset(page, limit)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
