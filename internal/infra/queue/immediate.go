package queue

import (
	"context"
	"sync"

	"github.com/yanqian/aerosense/internal/domain/report"
)

// Handler runs one job. It owns its own error reporting.
type Handler func(ctx context.Context, name string, payload map[string]any)

// HandlerQueue is a report.JobQueue whose consumer is attached after wiring.
type HandlerQueue interface {
	report.JobQueue
	SetHandler(handler Handler)
}

// ImmediateQueue runs every job on a fresh goroutine in this process. It is
// used when Valkey is not configured, so jobs do not survive a restart.
type ImmediateQueue struct {
	mu      sync.RWMutex
	handler Handler
}

func NewImmediateQueue(handler Handler) *ImmediateQueue {
	return &ImmediateQueue{handler: handler}
}

func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
}

// Enqueue detaches the job from ctx cancellation; jobs arriving before a
// handler is set are dropped.
func (q *ImmediateQueue) Enqueue(ctx context.Context, name string, payload map[string]any) error {
	q.mu.RLock()
	run := q.handler
	q.mu.RUnlock()
	if run == nil {
		return nil
	}
	if payload == nil {
		payload = make(map[string]any)
	}
	go run(context.WithoutCancel(ctx), name, payload)
	return nil
}

var _ HandlerQueue = (*ImmediateQueue)(nil)
