// Package page slices projected rows into a response window.
package page

// Pagination describes the returned window.
type Pagination struct {
	HasMore      bool `json:"hasMore"`
	NextOffset   *int `json:"nextOffset"`
	PageNumber   int  `json:"pageNumber"`
	PageSize     int  `json:"pageSize"`
	TotalRecords int  `json:"totalRecords"`
}

// Request holds resolved paging parameters.
type Request struct {
	PageNumber int
	StartRow   int
	SizeLimit  int
}

// NewRequest resolves defaults: pageNumber 1, sizeLimit defaultSize,
// startRow (pageNumber-1)*sizeLimit. Nil means "not given".
func NewRequest(pageNumber, startRow, sizeLimit *int, defaultSize int) Request {
	r := Request{PageNumber: 1, SizeLimit: defaultSize}
	if pageNumber != nil {
		r.PageNumber = *pageNumber
	}
	if sizeLimit != nil {
		r.SizeLimit = *sizeLimit
	}
	if startRow != nil {
		r.StartRow = *startRow
	} else {
		r.StartRow = (r.PageNumber - 1) * r.SizeLimit
	}
	return r
}

// Empty returns the pagination of a window with no rows at all.
func Empty(req Request) Pagination {
	return Pagination{PageNumber: req.PageNumber, PageSize: req.SizeLimit}
}

// Paginate returns rows[start:start+size] and the window metadata.
// startRow is clamped to >= 0.
func Paginate[T any](rows []T, req Request) ([]T, Pagination) {
	total := len(rows)
	start := max(req.StartRow, 0)
	end := start + max(req.SizeLimit, 0)

	lo, hi := min(start, total), min(end, total)
	window := rows[lo:hi]

	p := Pagination{
		HasMore:      end < total,
		PageNumber:   req.PageNumber,
		PageSize:     req.SizeLimit,
		TotalRecords: total,
	}
	if end < total {
		next := end
		p.NextOffset = &next
	}
	return window, p
}
