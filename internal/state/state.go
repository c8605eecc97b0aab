// Package state publishes the latest loading/success/failure result of an operation to subscribers.
package state

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"shopfront/internal/domain"
)

// Status is the phase of a published result.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is one published value.
type Result[T any] struct {
	Status Status      `json:"status"`
	Data   *T          `json:"data,omitempty"`
	Error  *ErrorView  `json:"error,omitempty"`
	Kind   domain.Kind `json:"-"`
	Err    error       `json:"-"`
}

// ErrorView is the client-facing shape of a failure.
type ErrorView struct {
	Kind    domain.Kind `json:"kind"`
	Message string      `json:"message"`
}

// Loading is the result published when an operation starts.
func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

// Success wraps data.
func Success[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: &data}
}

// Failure wraps err with its kind.
func Failure[T any](err error) Result[T] {
	kind := domain.KindOf(err)
	return Result[T]{
		Status: StatusFailure,
		Error:  &ErrorView{Kind: kind, Message: err.Error()},
		Kind:   kind,
		Err:    err,
	}
}

// Store holds the latest result and fans it out to subscribers.
type Store[T any] struct {
	mu      sync.Mutex
	current Result[T]
	set     bool
	subs    map[int]chan Result[T]
	nextID  int
	// watch sees the subscriber count after every change, under mu.
	watch func(subscribers int)
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{subs: make(map[int]chan Result[T])}
}

// Publish replaces the current result. Subscribers that are not keeping up miss intermediate values.
func (s *Store[T]) Publish(r Result[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = r
	s.set = true
	for _, ch := range s.subs {
		select {
		case ch <- r:
		default:
			// drop the stale value so the newest one gets through
			select {
			case <-ch:
			default:
			}
			ch <- r
		}
	}
}

// Current returns the latest result and whether anything was published yet.
func (s *Store[T]) Current() (Result[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.set
}

// Subscribe returns a channel receiving every subsequent result, primed with the current one.
// The returned cancel func must be called to release the subscription.
func (s *Store[T]) Subscribe() (<-chan Result[T], func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Result[T], 1)
	if s.set {
		ch <- s.current
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.notify()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.notify()
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store[T]) notify() {
	if s.watch != nil {
		s.watch(len(s.subs))
	}
}

// Limits used by NewRegistry when no option overrides them.
const (
	DefaultIdleStores = 10000
	DefaultIdleTTL    = 10 * time.Minute
)

// RegistryOption tunes a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	size int
	ttl  time.Duration
}

// WithIdleLimit caps how many stores without subscribers are kept, and for how long.
func WithIdleLimit(size int, ttl time.Duration) RegistryOption {
	return func(o *registryOptions) {
		if size > 0 {
			o.size = size
		}
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// Registry keys stores by device. Stores with subscribers are kept until their last
// subscriber cancels; the others live in a bounded, expiring cache.
type Registry[T any] struct {
	mu     sync.Mutex
	active map[string]*Store[T]
	idle   *expirable.LRU[string, *Store[T]]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any](opts ...RegistryOption) *Registry[T] {
	o := registryOptions{size: DefaultIdleStores, ttl: DefaultIdleTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{
		active: make(map[string]*Store[T]),
		idle:   expirable.NewLRU[string, *Store[T]](o.size, nil, o.ttl),
	}
}

// For returns the store of key, creating it when none is kept.
func (r *Registry[T]) For(key string) *Store[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.active[key]; ok {
		return s
	}
	if s, ok := r.idle.Get(key); ok {
		return s
	}
	s := NewStore[T]()
	s.watch = func(subscribers int) { r.track(key, s, subscribers) }
	r.idle.Add(key, s)
	return s
}

// track moves s between the active set and the idle cache. It runs under the store's lock.
func (r *Registry[T]) track(key string, s *Store[T], subscribers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subscribers > 0 {
		r.active[key] = s
		r.idle.Remove(key)
		return
	}
	if r.active[key] == s {
		delete(r.active, key)
	}
	r.idle.Add(key, s)
}

func (r *Registry[T]) len() (active, idle int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active), r.idle.Len()
}
