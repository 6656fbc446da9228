package repository

import (
	"errors"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("duplicate record")
)

// StatusMismatchError is returned by a conditional status update whose
// expected status no longer matches the stored record. Current holds the
// record as observed by the failed write.
type StatusMismatchError struct {
	Expected domain.ItemStatus
	Current  *domain.Item
}

func (e *StatusMismatchError) Error() string {
	if e.Current == nil {
		return "status mismatch"
	}
	return "status mismatch: expected " + string(e.Expected) + ", found " + string(e.Current.Status)
}
