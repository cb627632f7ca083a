package domain

// Page is one page of a listing, shaped like the paginator the web client consumes.
type Page[T any] struct {
	CurrentPage int  `json:"current_page"`
	Data        []T  `json:"data"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	LastPage    int  `json:"last_page"`
	From        *int `json:"from"`
	To          *int `json:"to"`
}

func NewPage[T any](items []T, page, perPage, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if page < 1 {
		page = 1
	}
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	p := Page[T]{
		CurrentPage: page,
		Data:        items,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From, p.To = &from, &to
	}
	return p
}
