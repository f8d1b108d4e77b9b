package ports

import (
	"context"

	"github.com/aretw0/subset/pkg/domain"
)

// DefinitionLoader defines where automaton definitions come from.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type DefinitionLoader interface {
	// GetDefinition retrieves a definition by ID.
	// Returns domain.ErrDefinitionNotFound if it does not exist.
	GetDefinition(ctx context.Context, id string) (domain.Definition, error)

	// ListDefinitions returns the IDs of all available definitions, sorted.
	ListDefinitions(ctx context.Context) ([]string, error)
}
