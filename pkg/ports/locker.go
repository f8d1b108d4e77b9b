package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates result caching across replicas that share a ResultStore.
type DistributedLocker interface {
	// Lock acquires a lock for key, blocking until it is acquired or ctx is done.
	// The lock expires after ttl if it is never released.
	// The returned UnlockFunc must be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
