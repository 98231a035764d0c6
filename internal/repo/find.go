package repo

import (
	"gorm.io/gorm"
)

// ErrNotFound is returned by mutating calls whose target row does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency across
// the service layer and handlers. Lookups never return it: an absent row is
// reported as a nil result with a nil error.
var ErrNotFound = gorm.ErrRecordNotFound

// findOne runs q with LIMIT 1 and returns (nil, nil) when no row matched.
// Find is used instead of First so an absent row is not an error and is not
// logged as one.
func findOne[T any](q *gorm.DB) (*T, error) {
	var out T
	res := q.Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

// affectedOrNotFound maps a zero-row mutation to ErrNotFound.
func affectedOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
