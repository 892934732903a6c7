package domain

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ClampPage normalizes list paging. A limit outside (0, MaxPageLimit] becomes
// DefaultPageLimit and a negative offset becomes 0.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
