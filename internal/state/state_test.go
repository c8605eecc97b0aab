package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

func TestStorePublishAndCurrent(t *testing.T) {
	s := NewStore[int]()
	_, ok := s.Current()
	assert.False(t, ok)

	s.Publish(Loading[int]())
	s.Publish(Success(3))

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, cur.Status)
	assert.Equal(t, 3, *cur.Data)
}

func TestSubscribeReceivesLatest(t *testing.T) {
	s := NewStore[string]()
	s.Publish(Success("a"))

	ch, cancel := s.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, "a", *first.Data)

	s.Publish(Loading[string]())
	s.Publish(Failure[string](domain.ErrRateLimited))

	last := <-ch
	assert.Equal(t, StatusFailure, last.Status)
	assert.Equal(t, domain.KindRateLimited, last.Kind)
	assert.ErrorIs(t, last.Err, domain.ErrRateLimited)
}

func TestCancelClosesChannel(t *testing.T) {
	s := NewStore[int]()
	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	s.Publish(Success(1))
}

func TestRegistryReturnsSameStore(t *testing.T) {
	r := NewRegistry[int]()
	assert.Same(t, r.For("dev-1"), r.For("dev-1"))
	assert.NotSame(t, r.For("dev-1"), r.For("dev-2"))
}

func TestRegistryBoundsIdleStores(t *testing.T) {
	r := NewRegistry[int](WithIdleLimit(2, time.Hour))
	first := r.For("dev-1")
	first.Publish(Success(1))
	r.For("dev-2")
	r.For("dev-3")

	active, idle := r.len()
	assert.Zero(t, active)
	assert.Equal(t, 2, idle)
	fresh := r.For("dev-1")
	assert.NotSame(t, first, fresh)
	_, ok := fresh.Current()
	assert.False(t, ok)
}

func TestRegistryKeepsSubscribedStores(t *testing.T) {
	r := NewRegistry[int](WithIdleLimit(1, time.Hour))
	watched := r.For("dev-1")
	ch, cancel := watched.Subscribe()
	r.For("dev-2")
	r.For("dev-3")

	assert.Same(t, watched, r.For("dev-1"))
	r.For("dev-1").Publish(Success(7))
	got := <-ch
	assert.Equal(t, 7, *got.Data)

	cancel()
	active, idle := r.len()
	assert.Zero(t, active)
	assert.Equal(t, 1, idle)
	assert.Same(t, watched, r.For("dev-1"))
}
