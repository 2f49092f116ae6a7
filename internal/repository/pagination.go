package repository

import "gorm.io/gorm"

// Listing bounds enforced at the query level, independent of what handlers
// normalize. A zero or negative page size falls back to the default instead
// of disabling the limit, so no caller can pull a whole table by accident.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePageWindow clamps page and pageSize to the listing bounds.
func normalizePageWindow(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// applyPagination applies the clamped page window to a query.
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil {
		return query
	}
	page, pageSize = normalizePageWindow(page, pageSize)
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
