package models

import "math"

// SortField names a recognized list ordering.
type SortField string

const (
	SortDefault SortField = ""
	SortPrice   SortField = "price"
	SortName    SortField = "name"
	SortNewest  SortField = "newest"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// ProductQuery is the normalized form of the list endpoint's query parameters.
type ProductQuery struct {
	Search   string
	Category string
	Sort     SortField
	Order    SortOrder
	Page     int
	Limit    int
}

// Skip is the number of matching records before the requested page. It
// saturates at math.MaxInt instead of overflowing.
func (q ProductQuery) Skip() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// SortKey resolves the sort field and direction actually applied. Unknown or
// absent sorts fall back to newest first.
func (q ProductQuery) SortKey() (field SortField, desc bool) {
	switch q.Sort {
	case SortPrice, SortName, SortNewest:
		return q.Sort, q.Order == OrderDesc
	default:
		return SortNewest, true
	}
}

// ProductPage is one page of list results.
type ProductPage struct {
	Items      []Product `json:"items"`
	TotalItems int64     `json:"totalItems"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// NewProductPage assembles a page and derives totalPages from the unpaginated count.
func NewProductPage(items []Product, total int64, q ProductQuery) *ProductPage {
	if items == nil {
		items = []Product{}
	}
	pages := 0
	if q.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}
	return &ProductPage{
		Items:      items,
		TotalItems: total,
		Page:       q.Page,
		TotalPages: pages,
	}
}
