package subset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/subset/internal/engine"
	loamAdapter "github.com/aretw0/subset/pkg/adapters/loam"
	"github.com/aretw0/subset/pkg/cache"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/notation"
	"github.com/aretw0/subset/pkg/ports"
)

// ErrNoLoader is returned by ID-based operations when no DefinitionLoader is configured.
var ErrNoLoader = errors.New("no definition loader configured")

// Converter is the high-level entry point of the library.
// It validates definitions, runs the subset construction and optionally
// caches results. A Converter is safe for concurrent use; every conversion
// runs on its own engine.
type Converter struct {
	loader     ports.DefinitionLoader
	store      ports.ResultStore
	cache      *cache.Manager
	locker     ports.DistributedLocker
	hooks      domain.ConversionHooks
	logger     *slog.Logger
	strict     bool
	stateLimit int
	now        func() time.Time
	Name       string
}

// Option defines a functional option for configuring the Converter.
type Option func(*Converter)

// WithHooks registers observability hooks. Repeated calls are merged.
func WithHooks(hooks domain.ConversionHooks) Option {
	return func(c *Converter) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLoader injects a custom DefinitionLoader, bypassing the default Loam initialization.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(c *Converter) {
		c.loader = l
	}
}

// WithStore enables result caching for ConvertByID and Save.
func WithStore(s ports.ResultStore) Option {
	return func(c *Converter) {
		c.store = s
	}
}

// WithLocker serializes result caching across replicas that share the store.
func WithLocker(l ports.DistributedLocker) Option {
	return func(c *Converter) {
		c.locker = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithStrictReferences turns references to undeclared states or symbols into errors
// instead of warnings.
func WithStrictReferences(strict bool) Option {
	return func(c *Converter) {
		c.strict = strict
	}
}

// WithStateLimit aborts conversions that discover more than n composite states.
// Zero means unlimited.
func WithStateLimit(n int) Option {
	return func(c *Converter) {
		c.stateLimit = n
	}
}

// New initializes a Converter.
// When repoPath is set and no loader is injected, definitions are read from a Loam
// repository at that path. With an empty repoPath and no loader, only inline
// definitions can be converted.
func New(repoPath string, opts ...Option) (*Converter, error) {
	c := &Converter{now: time.Now}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil && repoPath != "" {
		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		c.Name = filepath.Base(absPath)

		// Strict keeps numeric frontmatter consistent across formats.
		// ReadOnly: the converter never writes definitions.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		c.loader = loamAdapter.New(loam.NewTypedRepository[loamAdapter.DefinitionMetadata](repo))
	} else if repoPath != "" {
		c.Name = filepath.Base(repoPath)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if c.Name != "" {
		c.logger = c.logger.With("repo", c.Name)
	}
	if c.store != nil {
		cacheOpts := []cache.Option{cache.WithLogger(c.logger)}
		if c.locker != nil {
			cacheOpts = append(cacheOpts, cache.WithLocker(c.locker))
		}
		c.cache = cache.NewManager(c.store, cacheOpts...)
	}

	return c, nil
}

// Validate checks a definition and returns the NFA it describes.
// Warnings (lenient mode only) are available from NFA.Warnings.
func (c *Converter) Validate(def domain.Definition) (*domain.NFA, error) {
	return domain.NewNFA(def, domain.WithStrictReferences(c.strict))
}

// Convert validates def and runs the subset construction.
// Invalid definitions fail with an error wrapping domain.ErrInvalidAutomaton and
// never yield a partial DFA.
func (c *Converter) Convert(ctx context.Context, def domain.Definition) (*domain.Result, error) {
	logger := c.logger.With("definition", definitionLabel(def))

	nfa, err := c.Validate(def)
	if err != nil {
		logger.Debug("definition rejected", "error", err)
		if c.hooks.OnConversionDone != nil {
			c.hooks.OnConversionDone(ctx, &domain.ConversionEvent{
				EventBase: domain.EventBase{Timestamp: c.now(), Type: domain.EventConversionDone},
				Err:       err,
			})
		}
		return nil, err
	}
	for _, w := range nfa.Warnings() {
		logger.Warn("definition warning", "warning", w)
	}

	eng := engine.New(nfa,
		engine.WithLogger(logger),
		engine.WithHooks(c.hooks),
		engine.WithStateLimit(c.stateLimit),
	)
	dfa, err := eng.Convert(ctx)
	if err != nil {
		return nil, fmt.Errorf("conversion of %s failed: %w", definitionLabel(def), err)
	}

	id, err := ResultID(def)
	if err != nil {
		return nil, err
	}
	return &domain.Result{
		ID:         id,
		Definition: def.Clone(),
		DFA:        dfa,
		Warnings:   nfa.Warnings(),
		CreatedAt:  c.now().UTC(),
	}, nil
}

// ConvertForm parses the five-field text form and converts it.
func (c *Converter) ConvertForm(ctx context.Context, form notation.Form) (*domain.Result, error) {
	def, err := notation.ParseForm(form)
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, def)
}

// ConvertByID loads a definition and converts it. With a store configured, a
// cached result for the same definition content is returned instead, and fresh
// results are saved. Concurrent calls for the same content convert once.
func (c *Converter) ConvertByID(ctx context.Context, id string) (*domain.Result, error) {
	def, err := c.Definition(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.cache == nil {
		return c.Convert(ctx, def)
	}

	resultID, err := ResultID(def)
	if err != nil {
		return nil, err
	}
	res, hit, err := c.cache.LoadOrConvert(ctx, resultID, func(ctx context.Context) (*domain.Result, error) {
		return c.Convert(ctx, def)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		c.logger.Debug("result cache hit", "definition", id, "result", resultID)
	}
	return res, nil
}

// Definition loads a definition by ID from the configured loader.
func (c *Converter) Definition(ctx context.Context, id string) (domain.Definition, error) {
	if c.loader == nil {
		return domain.Definition{}, ErrNoLoader
	}
	def, err := c.loader.GetDefinition(ctx, id)
	if err != nil {
		return domain.Definition{}, err
	}
	if def.ID == "" {
		def.ID = id
	}
	return def, nil
}

// Definitions lists the IDs known to the loader.
func (c *Converter) Definitions(ctx context.Context) ([]string, error) {
	if c.loader == nil {
		return nil, ErrNoLoader
	}
	return c.loader.ListDefinitions(ctx)
}

// Save stores a result. It is a no-op without a store.
func (c *Converter) Save(ctx context.Context, res *domain.Result) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Save(ctx, res)
}

// Loader returns the configured DefinitionLoader, or nil.
func (c *Converter) Loader() ports.DefinitionLoader {
	return c.loader
}

// Store returns the configured ResultStore, or nil.
func (c *Converter) Store() ports.ResultStore {
	return c.store
}

// ResultID derives a stable result ID from the definition content:
// the definition ID (or "nfa") followed by a short content hash.
// Identical definitions always map to the same ID.
func ResultID(def domain.Definition) (string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("failed to hash definition: %w", err)
	}
	sum := sha256.Sum256(data)

	prefix := def.ID
	if prefix == "" {
		prefix = "nfa"
	}
	prefix = strings.NewReplacer("/", "_", "\\", "_", " ", "_", "..", "_").Replace(prefix)
	return prefix + "-" + hex.EncodeToString(sum[:6]), nil
}

func definitionLabel(def domain.Definition) string {
	switch {
	case def.ID != "":
		return def.ID
	case def.Name != "":
		return def.Name
	}
	return "inline"
}
