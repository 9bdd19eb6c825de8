package domain

// NormalizePage clamps a page number to 1 or greater.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizeLimit substitutes def for a missing limit and clamps the result
// into [1, 100].
func NormalizeLimit(limit, def int) int {
	if limit == 0 {
		limit = def
	}
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// TotalPages reports the page count for a result set, never less than 1.
func TotalPages(total, limit int) int {
	pages := (total + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}
