package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/notation"
	"github.com/mitchellh/mapstructure"
)

// Loader adapts a Loam repository of Markdown/YAML/JSON documents to ports.DefinitionLoader.
// The document body, if any, becomes the definition description.
type Loader struct {
	Repo *loam.TypedRepository[DefinitionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DefinitionMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// GetDefinition finds the document whose normalized ID matches id and decodes it.
func (l *Loader) GetDefinition(ctx context.Context, id string) (domain.Definition, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("loam list failed: %w", err)
	}

	for _, doc := range docs {
		if !isDefinition(doc.ID, doc.Data) || documentID(doc.ID, doc.Data) != id {
			continue
		}
		def, err := buildDefinition(id, doc.Data)
		if err != nil {
			return domain.Definition{}, fmt.Errorf("definition %s: %w", id, err)
		}
		def.Description = strings.TrimSpace(doc.Content)
		return def, nil
	}
	return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
}

// ListDefinitions lists all definition IDs in the repository, sorted.
func (l *Loader) ListDefinitions(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		if !isDefinition(doc.ID, doc.Data) {
			continue
		}
		id := documentID(doc.ID, doc.Data)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// documentID prefers the ID from metadata, falling back to the file name.
func documentID(docID string, meta DefinitionMetadata) string {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}
	return trimExtension(rawID)
}

// isDefinition skips documents without states (READMEs, config files) and
// anything under a dot directory, such as the result cache.
func isDefinition(docID string, meta DefinitionMetadata) bool {
	if len(meta.States) == 0 {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(docID), "/") {
		if strings.HasPrefix(part, ".") {
			return false
		}
	}
	return true
}

func buildDefinition(id string, meta DefinitionMetadata) (domain.Definition, error) {
	def := domain.Definition{
		ID:              id,
		Name:            meta.Name,
		States:          meta.States,
		Alphabet:        meta.Alphabet,
		InitialState:    meta.InitialState,
		InitialStates:   meta.InitialStates,
		AcceptingStates: meta.AcceptingStates,
	}

	for i, raw := range meta.Transitions {
		switch v := raw.(type) {
		case string:
			parsed, err := notation.ParseTransitions(v)
			if err != nil {
				return domain.Definition{}, fmt.Errorf("transitions[%d]: %w", i, err)
			}
			for from, row := range parsed {
				for symbol, targets := range row {
					for _, to := range targets {
						def.AddTransition(from, symbol, to)
					}
				}
			}
		case map[string]any:
			var lt LoaderTransition
			if err := mapstructure.Decode(v, &lt); err != nil {
				return domain.Definition{}, fmt.Errorf("transitions[%d]: %w", i, err)
			}
			if lt.From == "" || lt.Symbol == "" || lt.To == "" {
				return domain.Definition{}, fmt.Errorf("transitions[%d]: missing from/symbol/to", i)
			}
			def.AddTransition(lt.From, lt.Symbol, lt.To)
		default:
			return domain.Definition{}, fmt.Errorf("transitions[%d]: expected string or map, got %T", i, raw)
		}
	}
	return def, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
