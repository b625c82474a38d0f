package utils

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest carries the page/size pair every list endpoint accepts.
type PageRequest struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

func (p PageRequest) Normalize() PageRequest {
	out := p
	if out.Page < 1 {
		out.Page = defaultPage
	}
	if out.Size < 1 {
		out.Size = defaultPageSize
	}
	if out.Size > maxPageSize {
		out.Size = maxPageSize
	}
	return out
}

func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Size
}

func (p PageRequest) Limit() int {
	return p.Normalize().Size
}

// Paginated is the list response envelope.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPaginated[T any](items []T, req PageRequest, total int64) Paginated[T] {
	n := req.Normalize()
	pages := total / int64(n.Size)
	if total%int64(n.Size) != 0 {
		pages++
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Page:       n.Page,
		Size:       n.Size,
		Total:      total,
		TotalPages: pages,
	}
}
