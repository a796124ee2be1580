package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Normalize clamps page and size into their allowed ranges and returns the
// values alongside the query offset.
func Normalize(page, size int) (normPage, normSize, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, (page - 1) * size
}

// TotalPages is ceil(total/size).
func TotalPages(total int64, size int) int {
	return int((total + int64(size) - 1) / int64(size))
}
