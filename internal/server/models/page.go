package models

// PagedBooks is one page of a catalog search plus enough metadata for a
// client to render pagination controls.
type PagedBooks struct {
	Items      []Book `json:"items"`
	TotalCount int64  `json:"total_count"`
	PageNumber int    `json:"page_number"`
	PageSize   int    `json:"page_size"`
}

// TotalPages reports how many pages the full result set spans.
func (p *PagedBooks) TotalPages() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize)
}

// HasNext reports whether a page follows this one.
func (p *PagedBooks) HasNext() bool {
	return int64(p.PageNumber) < p.TotalPages()
}

// HasPrevious reports whether a page precedes this one.
func (p *PagedBooks) HasPrevious() bool {
	return p.PageNumber > 1
}
