package repository

// Pagination describes one page of a listing.  Total counts every match
// regardless of page, and Pages is the ceiling of Total/Limit (zero when
// nothing matched).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page summary for a listing response.
func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if total > 0 {
		p.Pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return p
}
