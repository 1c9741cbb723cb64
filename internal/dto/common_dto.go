package dto

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// NewPaginationMeta derives pagination metadata from a total row count.
func NewPaginationMeta(page, perPage int, total int64) PaginationMeta {
	if page <= 0 {
		page = 1
	}

	pages := 0
	if total > 0 && perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return PaginationMeta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1 && pages > 0,
	}
}
