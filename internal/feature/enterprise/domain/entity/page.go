package entity

// Page is one page of an owner's enterprises.
type Page struct {
	Items   []Enterprise
	Number  int
	PerPage int
	Total   int64
	Pages   int
	HasNext bool
	HasPrev bool
	NextNum int // 0 when there is no next page
	PrevNum int // 0 when there is no previous page
}

// NewPage computes the navigation fields for page number of perPage items.
func NewPage(items []Enterprise, number, perPage int, total int64) *Page {
	p := &Page{Items: items, Number: number, PerPage: perPage, Total: total}
	if items == nil {
		p.Items = []Enterprise{}
	}
	if perPage > 0 {
		p.Pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	p.HasPrev = number > 1
	p.HasNext = number < p.Pages
	if p.HasPrev {
		p.PrevNum = number - 1
	}
	if p.HasNext {
		p.NextNum = number + 1
	}
	return p
}
