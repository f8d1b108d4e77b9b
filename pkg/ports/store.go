package ports

import (
	"context"

	"github.com/aretw0/subset/pkg/domain"
)

// ResultStore defines the interface for caching conversion results.
// The engine never depends on it; adapters use it to avoid re-converting
// definitions and to let users inspect past conversions.
type ResultStore interface {
	// Save persists the result under its ID, replacing any previous value.
	Save(ctx context.Context, result *domain.Result) error

	// Load retrieves a result by ID.
	// Returns domain.ErrResultNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Result, error)

	// Delete removes a result. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored results.
	List(ctx context.Context) ([]string, error)
}
