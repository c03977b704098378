package workerpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
)

// Task represents a unit of work to be executed by the pool.
// The context carries the pool's per-task deadline.
type Task func(ctx context.Context)

var (
	// ErrPoolClosed is returned when submitting to a closed pool.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrQueueFull is returned when the queue cannot take another task.
	ErrQueueFull = errors.New("worker pool queue full")
)

const (
	defaultTaskTimeout  = 30 * time.Second
	defaultCloseTimeout = 5 * time.Second
)

// Pool is a bounded worker pool executing submitted tasks.
type Pool struct {
	name         string
	size         int
	taskTimeout  time.Duration
	closeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Task
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Pool.
type Option func(*Pool)

// WithTaskTimeout bounds each task's context.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.taskTimeout = d
		}
	}
}

// WithCloseTimeout bounds how long Close waits for in-flight tasks.
func WithCloseTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.closeTimeout = d
		}
	}
}

// New creates a new worker pool with given size and queue capacity.
func New(name string, size, queueCap int, opts ...Option) *Pool {
	if size <= 0 {
		size = 1
	}
	if queueCap <= 0 {
		queueCap = 1
	}
	p := &Pool{
		name:         name,
		size:         size,
		taskTimeout:  defaultTaskTimeout,
		closeTimeout: defaultCloseTimeout,
		queue:        make(chan Task, queueCap),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.start()
	return p
}

// Name identifies the pool in logs and metrics.
func (p *Pool) Name() string { return p.name }

func (p *Pool) start() {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.queue {
				p.run(id, task)
			}
		}(i)
	}
}

func (p *Pool) run(id int, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorLog("workerpool '%s' worker %d recovered from panic: %v", p.name, id, r)
		}
	}()
	task(ctx)
}

// Submit enqueues a task for execution without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- task:
		return nil
	default:
		logging.WarnLog("workerpool '%s' queue full; dropping task", p.name)
		return ErrQueueFull
	}
}

// Close stops accepting tasks, lets queued tasks drain and waits for workers.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(p.closeTimeout):
			logging.WarnLog("workerpool '%s' shutdown timed out", p.name)
		}
	})
}
