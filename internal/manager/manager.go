package manager

import (
	"context"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/config"
	"github.com/Goofygiraffe06/authscreen/internal/workerpool"
)

// WorkManager keeps auth mutations and outbound mail on separate pools so a slow
// SMTP relay never starves login traffic.
type WorkManager struct {
	mutations *workerpool.Pool
	mail      *workerpool.Pool
}

// Option configures the WorkManager.
type Option func(*options)

type options struct {
	mutationWorkers int
	mailWorkers     int
	queueSize       int
	taskTimeout     time.Duration
}

// WithMutationWorkers sets the auth mutation worker count.
func WithMutationWorkers(n int) Option { return func(o *options) { o.mutationWorkers = n } }

// WithMailWorkers sets the mail worker count.
func WithMailWorkers(n int) Option { return func(o *options) { o.mailWorkers = n } }

// WithQueueSize sets the shared queue size (per pool).
func WithQueueSize(n int) Option { return func(o *options) { o.queueSize = n } }

// WithTaskTimeout bounds every pooled task.
func WithTaskTimeout(d time.Duration) Option { return func(o *options) { o.taskTimeout = d } }

// NewWorkManager constructs the manager with the given options (or defaults from config).
func NewWorkManager(opts ...Option) *WorkManager {
	o := &options{
		mutationWorkers: config.MutationWorkerCount(),
		mailWorkers:     config.MailWorkerCount(),
		queueSize:       config.WorkerQueueSize(),
		taskTimeout:     config.WorkerTaskTimeout(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &WorkManager{
		mutations: workerpool.New("mutations", o.mutationWorkers, o.queueSize, workerpool.WithTaskTimeout(o.taskTimeout)),
		mail:      workerpool.New("mail", o.mailWorkers, o.queueSize, workerpool.WithTaskTimeout(o.taskTimeout)),
	}
}

// Close shuts down all pools.
func (m *WorkManager) Close() {
	if m == nil {
		return
	}
	m.mutations.Close()
	m.mail.Close()
}

// Mutations is the pool auth mutations are dispatched on.
func (m *WorkManager) Mutations() *workerpool.Pool {
	return m.mutations
}

// SubmitMail schedules an outbound mail task.
func (m *WorkManager) SubmitMail(fn func(ctx context.Context)) error {
	return m.mail.Submit(workerpool.Task(fn))
}

// RunWithTimeout runs a function respecting a deadline and returns whether it completed.
func RunWithTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context)) bool {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	done := make(chan struct{})
	go func() { fn(ctx); close(done) }()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
