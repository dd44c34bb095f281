package anime

import "errors"

var (
	ErrNotFound       = errors.New("anime not found")
	ErrAlreadyInList  = errors.New("anime already in this collection")
	ErrEntryNotFound  = errors.New("collection entry not found")
	ErrInvalidFilters = errors.New("invalid filter parameters")
)
