package application

func buildPagination(paging Paging, total int64) Pagination {
	p := Pagination{
		Total:       total,
		CurrentPage: paging.Page,
	}
	if paging.Limit > 0 {
		p.TotalPages = int((total + int64(paging.Limit) - 1) / int64(paging.Limit))
	}
	if int64(paging.Page)*int64(paging.Limit) < total {
		p.Next = &PageRef{Page: paging.Page + 1, Limit: paging.Limit}
	}
	if paging.Page > 1 {
		p.Prev = &PageRef{Page: paging.Page - 1, Limit: paging.Limit}
	}
	return p
}
