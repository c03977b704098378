// Package mutation runs a single asynchronous request at a time and exposes its
// lifecycle as a state that views can poll: idle, pending, succeeded or failed.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/metrics"
	"github.com/Goofygiraffe06/authscreen/internal/workerpool"
)

// State is the submission state of a mutation.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrPending is returned by Mutate while a previous call is still in flight.
var ErrPending = errors.New("mutation pending")

// Executor runs tasks off the caller's goroutine. *workerpool.Pool satisfies it.
type Executor interface {
	Submit(task workerpool.Task) error
}

// Mutation tracks one request/response operation.
type Mutation[Req, Res any] struct {
	name      string
	fn        func(ctx context.Context, req Req) (Res, error)
	exec      Executor
	onSettled func(Res, error)

	mu     sync.Mutex
	state  State
	result Res
	err    error
}

// New builds an idle mutation. onSettled may be nil; it runs on the worker after
// the state has been updated.
func New[Req, Res any](name string, exec Executor, fn func(ctx context.Context, req Req) (Res, error), onSettled func(Res, error)) *Mutation[Req, Res] {
	return &Mutation[Req, Res]{
		name:      name,
		fn:        fn,
		exec:      exec,
		onSettled: onSettled,
	}
}

// Mutate dispatches req. It never blocks on the operation itself. The operation
// sees ctx's values but not its cancellation, and is bounded by the executor's
// task deadline instead.
func (m *Mutation[Req, Res]) Mutate(ctx context.Context, req Req) error {
	m.mu.Lock()
	if m.state == Pending {
		m.mu.Unlock()
		return ErrPending
	}
	m.state = Pending
	m.err = nil
	m.mu.Unlock()

	start := time.Now()
	parent := context.WithoutCancel(ctx)
	err := m.exec.Submit(func(taskCtx context.Context) {
		callCtx, cancel := detach(parent, taskCtx)
		defer cancel()

		var (
			res  Res
			ferr error
		)
		defer func() {
			if r := recover(); r != nil {
				ferr = fmt.Errorf("mutation %s panicked: %v", m.name, r)
			}
			metrics.MutationDuration.WithLabelValues(m.name).Observe(time.Since(start).Seconds())
			m.settle(res, ferr)
		}()
		res, ferr = m.fn(callCtx, req)
	})
	if err != nil {
		var zero Res
		err = fmt.Errorf("dispatch %s: %w", m.name, err)
		m.settle(zero, err)
		return err
	}
	return nil
}

// detach carries the caller's values into a context bounded by the task's deadline.
func detach(parent, task context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := task.Deadline(); ok {
		return context.WithDeadline(parent, deadline)
	}
	return context.WithCancel(parent)
}

func (m *Mutation[Req, Res]) settle(res Res, err error) {
	m.mu.Lock()
	m.result = res
	m.err = err
	if err != nil {
		m.state = Failed
	} else {
		m.state = Succeeded
	}
	state := m.state
	m.mu.Unlock()

	metrics.MutationsSettled.WithLabelValues(m.name, state.String()).Inc()
	if err != nil {
		logging.DebugLog("Mutation %s failed: %v", m.name, err)
	}

	if m.onSettled != nil {
		m.onSettled(res, err)
	}
}

// State returns the current submission state.
func (m *Mutation[Req, Res]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending reports whether a call is in flight.
func (m *Mutation[Req, Res]) Pending() bool {
	return m.State() == Pending
}

// Err is the error of the last settled call.
func (m *Mutation[Req, Res]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Result is the value of the last successful call.
func (m *Mutation[Req, Res]) Result() (Res, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.state == Succeeded
}

// Reset returns a settled mutation to idle. It is a no-op while pending.
func (m *Mutation[Req, Res]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Pending {
		return
	}
	var zero Res
	m.state = Idle
	m.result = zero
	m.err = nil
}
