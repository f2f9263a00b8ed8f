package ledger

import "gorm.io/gorm"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page selects one page of a listing. Zero values mean the first page of default size.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 || p.Size > maxPageSize {
		p.Size = defaultPageSize
	}
	return p
}

// Paged is one page of T plus the totals needed to render pagination.
type Paged[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// paginate counts the rows matched by query and loads the requested page in the given order.
func paginate[T any](query *gorm.DB, order string, page Page) (Paged[T], error) {
	page = page.normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Paged[T]{}, err
	}

	items := make([]T, 0, page.Size)
	if err := query.Order(order).Offset((page.Number - 1) * page.Size).Limit(page.Size).Find(&items).Error; err != nil {
		return Paged[T]{}, err
	}

	return Paged[T]{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      total,
		TotalPages: (int(total) + page.Size - 1) / page.Size,
	}, nil
}
