package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/subset/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.DefinitionLoader over a directory of YAML or JSON definitions.
// IDs are slash-separated paths relative to Dir, without extension.
type Loader struct {
	Dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// ReadDefinition decodes a definition file, choosing JSON or YAML by extension.
func ReadDefinition(path string) (domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("failed to read definition: %w", err)
	}

	var def domain.Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return domain.Definition{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		if err := yaml.Unmarshal(data, &def); err != nil {
			return domain.Definition{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return def, nil
}

// GetDefinition reads the file for id. The ID always comes from the file path.
func (l *Loader) GetDefinition(ctx context.Context, id string) (domain.Definition, error) {
	files, err := l.index()
	if err != nil {
		return domain.Definition{}, err
	}
	path, ok := files[id]
	if !ok {
		return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
	}

	def, err := ReadDefinition(path)
	if err != nil {
		return domain.Definition{}, err
	}
	def.ID = id
	return def, nil
}

// ListDefinitions returns the IDs of all definition files, sorted.
func (l *Loader) ListDefinitions(ctx context.Context) ([]string, error) {
	files, err := l.index()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// index maps IDs to file paths. Two files with the same ID are an error.
func (l *Loader) index() (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.Dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			return nil
		}
		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		if existing, ok := files[id]; ok {
			return fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, path)
		}
		files[id] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan definitions in %s: %w", l.Dir, err)
	}
	return files, nil
}
