package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
)

type Manager[T any] struct {
	cache *cache.Cache[T]
}

func NewManager[T any](defaultExpiration, cleanupInterval time.Duration) *Manager[T] {
	client := gocache.New(defaultExpiration, cleanupInterval)
	return &Manager[T]{
		cache: cache.New[T](go_cache.NewGoCache(client)),
	}
}

func (m *Manager[T]) SetWithExpiration(key string, value T, expir time.Duration) error {
	timeout, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	return m.cache.Set(timeout, key, value, store.WithExpiration(expir))
}

// GetValue returns the zero value and a nil error for a missing key.
func (m *Manager[T]) GetValue(key string) (value T, err error) {
	timeout, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	const errorMessage = "value not found"
	value, err = m.cache.Get(timeout, key)
	if err != nil && strings.Contains(err.Error(), errorMessage) {
		err = nil
		return
	}
	return
}

// FailureTracker counts upstream failures per credential inside a sliding-ish
// window: the window restarts whenever a new failure is recorded. It is only
// reported, never consulted when choosing a credential.
type FailureTracker struct {
	manager *Manager[int]
	window  time.Duration
	lock    sync.Mutex
}

func NewFailureTracker(window time.Duration) *FailureTracker {
	return &FailureTracker{
		manager: NewManager[int](window, window),
		window:  window,
	}
}

// Record adds one failure for key and returns the count inside the window.
func (f *FailureTracker) Record(key string) int {
	if f == nil {
		return 0
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	n, _ := f.manager.GetValue(failureKey(key))
	n++
	_ = f.manager.SetWithExpiration(failureKey(key), n, f.window)
	return n
}

func (f *FailureTracker) Count(key string) int {
	if f == nil {
		return 0
	}
	n, _ := f.manager.GetValue(failureKey(key))
	return n
}

func failureKey(key string) string {
	return "upstream_failure_" + key
}
