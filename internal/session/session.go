// Package session gives every browser session its own task store.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/logging"
	"tasktracker/internal/task"
	"tasktracker/pkg/cache"
)

const CookieName = "tasktracker_session"

// Manager maps session ids to task stores. A store lives as long as its
// session; idle sessions expire after the TTL and their tasks are dropped.
type Manager struct {
	stores    *cache.MemoryCache[*task.Store]
	storeOpts []task.Option
	logger    logging.Logger
}

type Option func(*Manager)

// WithStoreOptions is applied to every store the manager creates.
func WithStoreOptions(opts ...task.Option) Option {
	return func(m *Manager) { m.storeOpts = append(m.storeOpts, opts...) }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func NewManager(ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		stores: cache.NewMemory[*task.Store](ttl),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve returns the store of session id, starting a new session when id
// is empty, unknown or expired. created reports whether a new session was
// started, in which case the returned id differs from the one passed in.
func (m *Manager) Resolve(id string) (string, *task.Store, bool) {
	if id != "" {
		if st, ok := m.stores.Get(id); ok {
			return id, st, false
		}
	}
	id = uuid.NewString()
	st := task.NewStore(m.storeOpts...)
	m.stores.Set(id, st)
	m.logger.Debug("session started", "session", id)
	return id, st, true
}

// End discards the session and its tasks.
func (m *Manager) End(id string) {
	m.stores.Delete(id)
}

func (m *Manager) Len() int { return m.stores.Len() }

// Sweep discards every expired session.
func (m *Manager) Sweep(now time.Time) int {
	return m.stores.Sweep(now)
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(now); n > 0 {
				m.logger.Debug("expired sessions swept", "count", n)
			}
		}
	}
}
