package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/subset/pkg/domain"
)

// Loader implements ports.DefinitionLoader using an in-memory map.
type Loader struct {
	mu   sync.RWMutex
	defs map[string]domain.Definition
}

// NewLoader creates a Loader from domain objects. Every definition needs an ID.
func NewLoader(defs ...domain.Definition) (*Loader, error) {
	l := &Loader{defs: make(map[string]domain.Definition, len(defs))}
	for _, d := range defs {
		if err := l.Put(d); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewFromJSON creates a Loader from raw JSON documents keyed by ID.
// The map key wins over any "id" field in the document.
func NewFromJSON(data map[string]string) (*Loader, error) {
	l := &Loader{defs: make(map[string]domain.Definition, len(data))}
	for id, raw := range data {
		var def domain.Definition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return nil, fmt.Errorf("failed to unmarshal definition %s: %w", id, err)
		}
		def.ID = id
		l.defs[id] = def
	}
	return l, nil
}

// Put adds or replaces a definition.
func (l *Loader) Put(def domain.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("definition missing ID")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[def.ID] = def.Clone()
	return nil
}

// GetDefinition returns a copy of the definition stored under id.
func (l *Loader) GetDefinition(_ context.Context, id string) (domain.Definition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	def, ok := l.defs[id]
	if !ok {
		return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
	}
	return def.Clone(), nil
}

// ListDefinitions returns all definition IDs, sorted.
func (l *Loader) ListDefinitions(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.defs))
	for k := range l.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
