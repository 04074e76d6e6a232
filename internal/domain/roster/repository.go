package roster

import "context"

// Repository exposes roster read operations.
type Repository interface {
	ListEntries(ctx context.Context) ([]Entry, error)
}
