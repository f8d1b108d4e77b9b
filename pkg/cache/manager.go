package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/subset/internal/logging"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held if its owner dies.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates result access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.ResultStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLocker enables distributed locking, for replicas sharing one store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// NewManager creates a new cache Manager over the given result store.
func NewManager(store ports.ResultStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must Lock entry.mu, and call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Load retrieves a stored result.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Result, error) {
	var res *domain.Result
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		res, err = m.store.Load(ctx, id)
		return err
	})
	return res, err
}

// LoadOrConvert returns the stored result for id. On a miss it runs convert,
// stores the result under id and returns it. The bool reports a cache hit.
// A store that fails to load is logged and treated as a miss.
func (m *Manager) LoadOrConvert(ctx context.Context, id string, convert func(context.Context) (*domain.Result, error)) (*domain.Result, bool, error) {
	var (
		res *domain.Result
		hit bool
	)
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		res, err = m.store.Load(ctx, id)
		if err == nil {
			hit = true
			return nil
		}
		if !errors.Is(err, domain.ErrResultNotFound) {
			m.logger.Warn("result cache unavailable", "result", id, "err", err)
		}

		res, err = convert(ctx)
		if err != nil {
			return err
		}
		res.ID = id
		if err := m.store.Save(ctx, res); err != nil {
			return fmt.Errorf("failed to save result %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return res, hit, nil
}

// Save persists a result.
func (m *Manager) Save(ctx context.Context, res *domain.Result) error {
	return m.WithLock(ctx, res.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, res)
	})
}

// Delete removes a result from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying result store.
func (m *Manager) Store() ports.ResultStore {
	return m.store
}

// WithLock executes fn while holding the lock for the result ID.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"result", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
