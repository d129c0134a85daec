package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/inet/internal/logging"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/inet/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to stored nets.
// Unused per-id locks are dropped once their reference count reaches zero.
type Manager struct {
	store ports.NetStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.NetStore, opts ...Option) *Manager {
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

// acquire gets or creates the entry for id and takes a reference.
// The caller locks entry.mu and calls release(id) after unlocking.
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

// Load retrieves a snapshot under the lock for id.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, id)
		return err
	})
	return snap, err
}

// Save persists a snapshot under the lock for its id.
func (m *Manager) Save(ctx context.Context, snap *domain.Snapshot) error {
	return m.WithLock(ctx, snap.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, snap)
	})
}

// Create saves snap unless a net with the same id already exists.
func (m *Manager) Create(ctx context.Context, snap *domain.Snapshot) error {
	return m.WithLock(ctx, snap.ID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, snap.ID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrExists, snap.ID)
		case !errors.Is(err, domain.ErrNetNotFound):
			return fmt.Errorf("failed to check net existence: %w", err)
		}
		return m.store.Save(ctx, snap)
	})
}

// Update loads the net, applies fn and saves what fn returns, all under
// one lock. Nothing is saved when fn fails. The save ignores cancellation
// of ctx so work fn finished before a cancel is kept.
func (m *Manager) Update(ctx context.Context, id string, fn func(context.Context, *domain.Snapshot) (*domain.Snapshot, error)) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		next, err := fn(ctx, snap)
		if err != nil {
			return err
		}
		return m.store.Save(context.WithoutCancel(ctx), next)
	})
}

// Delete removes the net from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying net store.
func (m *Manager) Store() ports.NetStore {
	return m.store
}

// WithLock runs fn while holding the lock for id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"net", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
