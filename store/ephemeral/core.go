package ephemeral

import (
	"errors"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
)

var (
	ErrTooLong   = errors.New("key too long")
	ErrStoreFull = errors.New("ephemeral store full")
)

const (
	maxKeyLength   = 255
	defaultMaxSize = 10_000
	sweepInterval  = time.Minute
)

type item[V any] struct {
	value     V
	expiresAt time.Time
	ttl       time.Duration
}

// coreStore is a bounded TTL map swept by a background goroutine until closed.
type coreStore[V any] struct {
	mu      sync.RWMutex
	data    map[string]*item[V]
	maxSize int
	onEvict func(key string, v V)

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newCoreStore[V any](maxSize int, interval time.Duration, onEvict func(string, V)) *coreStore[V] {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if interval <= 0 {
		interval = sweepInterval
	}
	s := &coreStore[V]{
		data:    make(map[string]*item[V]),
		maxSize: maxSize,
		onEvict: onEvict,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.cleanup(interval)
	return s
}

func (s *coreStore[V]) set(key string, value V, ttl time.Duration) error {
	if len(key) > maxKeyLength {
		logging.DebugLog("Store set failed: key too long [%s] (length: %d)", redact.ID(key), len(key))
		return ErrTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists && len(s.data) >= s.maxSize {
		logging.WarnLog("Store set failed: store full (size: %d)", len(s.data))
		return ErrStoreFull
	}

	s.data[key] = &item[V]{value: value, expiresAt: time.Now().Add(ttl), ttl: ttl}
	return nil
}

// get returns the live value; when touch is set the entry's TTL restarts.
func (s *coreStore[V]) get(key string, touch bool) (V, bool) {
	var zero V
	if touch {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}

	it, ok := s.data[key]
	if !ok || time.Now().After(it.expiresAt) {
		return zero, false
	}
	if touch {
		it.expiresAt = time.Now().Add(it.ttl)
	}
	return it.value, true
}

// take returns and removes the live value in one step.
func (s *coreStore[V]) take(key string) (V, bool) {
	var zero V
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.data[key]
	if !ok {
		return zero, false
	}
	delete(s.data, key)
	if time.Now().After(it.expiresAt) {
		return zero, false
	}
	return it.value, true
}

func (s *coreStore[V]) delete(key string) (V, bool) {
	var zero V
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.data[key]
	if !ok {
		return zero, false
	}
	delete(s.data, key)
	return it.value, true
}

func (s *coreStore[V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *coreStore[V]) sweep(now time.Time) int {
	type evicted struct {
		key string
		v   V
	}
	var gone []evicted

	s.mu.Lock()
	for k, v := range s.data {
		if now.After(v.expiresAt) {
			delete(s.data, k)
			gone = append(gone, evicted{k, v.value})
		}
	}
	s.mu.Unlock()

	if s.onEvict != nil {
		for _, e := range gone {
			s.onEvict(e.key, e.v)
		}
	}
	return len(gone)
}

func (s *coreStore[V]) cleanup(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if n := s.sweep(now); n > 0 {
				logging.InfoLog("Store cleanup: removed %d expired items (current size: %d)", n, s.len())
			}
		}
	}
}

func (s *coreStore[V]) close() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
}
