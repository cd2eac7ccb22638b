package query

// Pagination is the page-bounds metadata returned alongside search
// results. Field names follow the JSON contract consumed by the
// dashboard table.
type Pagination struct {
	Page                  int  `json:"page"`
	PerPage               int  `json:"per_page"`
	Total                 int  `json:"total"`
	TotalPages            int  `json:"total_pages"`
	NextPageAvailable     bool `json:"next_page_available"`
	NextPage              *int `json:"next_page"`
	PreviousPageAvailable bool `json:"previous_page_available"`
	PreviousPage          *int `json:"previous_page"`
}

// Paginate computes page bounds for a result set of the given total.
// The requested page is clamped into [1, max(1, totalPages)] so a page
// request beyond the end of a shrunken result set lands on the last
// page instead of returning an empty round trip.
//
// perPage >= 1 is a precondition; the filter compiler enforces it
// before this point, so a violation is a programming error.
func Paginate(total, page, perPage int) Pagination {
	totalPages := (total + perPage - 1) / perPage

	// Clamp into [1, max(1, totalPages)]: a page past the end lands on
	// the last page, and an empty set always reads as page 1.
	lastPage := totalPages
	if lastPage < 1 {
		lastPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}

	pg := Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
	if page < totalPages {
		next := page + 1
		pg.NextPageAvailable = true
		pg.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		pg.PreviousPageAvailable = true
		pg.PreviousPage = &prev
	}
	return pg
}

// Offset is the row offset of the clamped page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
