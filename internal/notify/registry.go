// Package notify lets a request wait for a screen's pending submission to settle.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
)

// Registry maps screen ids to the channels of requests waiting on them.
type Registry struct {
	mu      sync.Mutex
	next    uint64
	waiters map[string]map[uint64]chan struct{}
}

func NewRegistry() *Registry {
	return &Registry{waiters: make(map[string]map[uint64]chan struct{})}
}

// Register returns a channel that receives once the screen is notified, and a
// function that removes it. The channel is buffered so Notify never blocks.
func (r *Registry) Register(id string) (<-chan struct{}, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	key := r.next
	ch := make(chan struct{}, 1)
	if r.waiters[id] == nil {
		r.waiters[id] = make(map[uint64]chan struct{})
	}
	r.waiters[id][key] = ch

	return ch, func() { r.remove(id, key) }
}

func (r *Registry) remove(id string, key uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.waiters[id]
	if !ok {
		return
	}
	delete(set, key)
	if len(set) == 0 {
		delete(r.waiters, id)
	}
}

// Notify wakes every waiter on id. Notifying with no waiters is a no-op.
func (r *Registry) Notify(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.waiters[id]
	if len(set) == 0 {
		return
	}
	for _, ch := range set {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	logging.DebugLog("Notify: woke %d waiter(s) for screen [%s]", len(set), redact.ID(id))
}

// Wait blocks until id is notified, timeout elapses or ctx ends, unless pending
// already reports false. It returns true when woken by a notification.
// Registering before consulting pending means a settle racing the check is not lost.
func (r *Registry) Wait(ctx context.Context, id string, timeout time.Duration, pending func() bool) bool {
	ch, cancel := r.Register(id)
	defer cancel()

	if !pending() {
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Count returns the number of registered waiters across all screens.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, set := range r.waiters {
		n += len(set)
	}
	return n
}
