package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/beetflow/internal/logging"
	"github.com/aretw0/beetflow/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Factory creates the value of a new session.
type Factory[S any] func(ctx context.Context, id string) (S, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

type config struct {
	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*config)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *config) {
		c.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Manager owns the sessions and orders access to each of them.
// It uses reference counting to garbage collect unused locks.
type Manager[S any] struct {
	factory Factory[S]
	cfg     config

	mu       sync.Mutex
	locks    map[string]*lockEntry
	sessions map[string]S
}

// NewManager creates a Manager building missing sessions with factory.
func NewManager[S any](factory Factory[S], opts ...Option) *Manager[S] {
	cfg := config{
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[S]{
		factory:  factory,
		cfg:      cfg,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]S),
	}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(id) after unlocking.
func (m *Manager[S]) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager[S]) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes fn while holding the lock for id.
func (m *Manager[S]) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.cfg.locker != nil {
		unlock, err := m.cfg.locker.Lock(ctx, id, m.cfg.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.cfg.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Do runs fn with the session id under its lock, creating the session
// first if needed.
func (m *Manager[S]) Do(ctx context.Context, id string, fn func(context.Context, S) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		s, ok := m.lookup(id)
		if !ok {
			var err error
			s, err = m.factory(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to create session %s: %w", id, err)
			}
			m.mu.Lock()
			m.sessions[id] = s
			m.mu.Unlock()
			m.cfg.logger.Debug("session created", "session_id", id)
		}
		return fn(ctx, s)
	})
}

func (m *Manager[S]) lookup(id string) (S, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Has reports whether the session exists.
func (m *Manager[S]) Has(id string) bool {
	_, ok := m.lookup(id)
	return ok
}

// Delete drops the session, waiting for current users to finish.
func (m *Manager[S]) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil
	})
}

// List returns the session ids, sorted.
func (m *Manager[S]) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
