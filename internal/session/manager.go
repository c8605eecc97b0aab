package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"shopfront/internal/kvstore"
)

// Cache bounds used when NewManager gets no options.
const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 5 * time.Minute
)

// Option tunes a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	size int
	ttl  time.Duration
}

// WithCacheSize caps how many sessions stay in memory. The least recently used one is dropped
// first.
func WithCacheSize(n int) Option {
	return func(o *managerOptions) {
		if n > 0 {
			o.size = n
		}
	}
}

// WithCacheTTL sets how long a loaded session is served before it is read from the store
// again. Writes made by other processes become visible after at most ttl.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *managerOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// Manager loads sessions by device id and keeps a bounded, expiring cache of them.
type Manager struct {
	store  kvstore.Store
	logger *zap.Logger

	sessions *expirable.LRU[string, *Session]
	loads    singleflight.Group
}

// NewManager returns a manager backed by store.
func NewManager(store kvstore.Store, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := managerOptions{size: DefaultCacheSize, ttl: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{
		store:    store,
		logger:   logger,
		sessions: expirable.NewLRU[string, *Session](o.size, nil, o.ttl),
	}
}

// Get returns the session of deviceID, loading it when it is not cached.
func (m *Manager) Get(ctx context.Context, deviceID string) (*Session, error) {
	if s, ok := m.sessions.Get(deviceID); ok {
		return s, nil
	}

	// The load is shared, so it must not die with the first caller's request.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := m.loads.Do(deviceID, func() (any, error) {
		if cached, ok := m.sessions.Get(deviceID); ok {
			return cached, nil
		}
		loaded, err := Load(loadCtx, m.store, deviceID, m.logger.With(zap.String("device_id", deviceID)))
		if err != nil {
			return nil, err
		}
		m.sessions.Add(deviceID, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Forget drops the cached session of deviceID. The stored state is untouched.
func (m *Manager) Forget(deviceID string) {
	m.sessions.Remove(deviceID)
}

func (m *Manager) cached() int {
	return m.sessions.Len()
}
