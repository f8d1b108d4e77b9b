package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/subset"
	"github.com/aretw0/subset/internal/adapters/file"
	"github.com/aretw0/subset/internal/adapters/redis"
	"github.com/aretw0/subset/internal/config"
	"github.com/aretw0/subset/pkg/adapters/memory"
	"github.com/aretw0/subset/pkg/observability"
	"github.com/aretw0/subset/pkg/ports"
)

// Options are the resolved persistent flags and project configuration.
type Options struct {
	Dir    string
	Config config.Config
}

// NewConverter builds a Converter for the project directory, with the configured
// loader, store, strictness and state limit.
func NewConverter(opts Options, logger *slog.Logger, extra ...subset.Option) (*subset.Converter, error) {
	store, err := NewStore(opts)
	if err != nil {
		return nil, err
	}

	convOpts := []subset.Option{
		subset.WithLogger(logger),
		subset.WithHooks(observability.LoggingHooks(logger)),
		subset.WithStore(store),
		subset.WithStrictReferences(opts.Config.Strict),
		subset.WithStateLimit(opts.Config.StateLimit),
	}
	if rs, ok := store.(*redis.Store); ok {
		convOpts = append(convOpts, subset.WithLocker(rs.Locker()))
	}
	if opts.Config.Loader == config.LoaderFile {
		convOpts = append(convOpts, subset.WithLoader(file.NewLoader(opts.Dir)))
	}
	convOpts = append(convOpts, extra...)

	conv, err := subset.New(opts.Dir, convOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing converter: %w", err)
	}
	return conv, nil
}

// NewStore creates the configured ResultStore.
func NewStore(opts Options) (ports.ResultStore, error) {
	sc := opts.Config.Store
	switch sc.Type {
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreRedis:
		var redisOpts []redis.Option
		if sc.TTL != "" {
			ttl, err := time.ParseDuration(sc.TTL)
			if err != nil {
				return nil, fmt.Errorf("invalid store ttl: %w", err)
			}
			redisOpts = append(redisOpts, redis.WithTTL(ttl))
		}
		return redis.New(sc.RedisAddr, "", sc.RedisDB, redisOpts...), nil
	default:
		path := sc.Path
		if path == "" {
			path = filepath.Join(opts.Dir, ".subset", "results")
		}
		return file.NewStore(path), nil
	}
}
