package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

// envelope is the JSON stored per list element.
type envelope struct {
	Name       string         `json:"name"`
	Payload    map[string]any `json:"payload"`
	EnqueuedAt time.Time      `json:"enqueuedAt"`
}

// ValkeyQueue is a durable list-backed queue. Workers move each element onto
// a processing list with BLMOVE and remove it only after the handler returns,
// so jobs interrupted by a crash are replayed on the next start.
type ValkeyQueue struct {
	client     valkey.Client
	pending    string
	processing string
	wait       time.Duration
	logger     *slog.Logger

	start  sync.Once
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.RWMutex
	handler Handler
}

func NewValkeyQueue(client valkey.Client, queueKey string, pollTimeout time.Duration, logger *slog.Logger) *ValkeyQueue {
	if queueKey == "" {
		queueKey = "aerosense:reports:jobs"
	}
	if pollTimeout < time.Second {
		pollTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ValkeyQueue{
		client:     client,
		pending:    queueKey,
		processing: queueKey + ":processing",
		wait:       pollTimeout,
		logger:     logger.With("component", "queue.valkey", "queue", queueKey),
		done:       make(chan struct{}),
	}
}

// SetHandler installs the handler and starts the worker on first call.
func (q *ValkeyQueue) SetHandler(handler Handler) {
	q.mu.Lock()
	q.handler = handler
	q.mu.Unlock()
	if handler == nil {
		return
	}
	q.start.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		q.cancel = cancel
		go q.run(ctx)
	})
}

func (q *ValkeyQueue) Enqueue(ctx context.Context, name string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(envelope{Name: name, Payload: payload, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return q.client.Do(ctx, q.client.B().Lpush().Key(q.pending).Element(string(body)).Build()).Error()
}

// Close stops the worker and waits for the in-flight job to finish.
func (q *ValkeyQueue) Close() {
	q.start.Do(func() { close(q.done) })
	if q.cancel != nil {
		q.cancel()
	}
	<-q.done
}

func (q *ValkeyQueue) run(ctx context.Context) {
	defer close(q.done)
	q.requeueStranded(ctx)
	for ctx.Err() == nil {
		raw, err := q.next(ctx)
		switch {
		case err == nil:
			q.process(ctx, raw)
		case valkey.IsValkeyNil(err), errors.Is(err, context.Canceled):
		default:
			q.logger.Warn("queue pop failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

func (q *ValkeyQueue) next(ctx context.Context) (string, error) {
	cmd := q.client.B().Blmove().Source(q.pending).Destination(q.processing).Right().Left().Timeout(q.wait.Seconds()).Build()
	return q.client.Do(ctx, cmd).ToString()
}

func (q *ValkeyQueue) process(ctx context.Context, raw string) {
	defer q.ack(raw)
	var job envelope
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		q.logger.Warn("dropping malformed job", "error", err)
		return
	}
	q.mu.RLock()
	handler := q.handler
	q.mu.RUnlock()
	if handler == nil {
		return
	}
	q.logger.Debug("job received", "job", job.Name, "queuedFor", time.Since(job.EnqueuedAt).String())
	handler(context.WithoutCancel(ctx), job.Name, job.Payload)
}

func (q *ValkeyQueue) ack(raw string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.client.Do(ctx, q.client.B().Lrem().Key(q.processing).Count(1).Element(raw).Build()).Error(); err != nil {
		q.logger.Warn("queue ack failed", "error", err)
	}
}

// requeueStranded moves jobs left on the processing list by a previous
// process back onto the pending list.
func (q *ValkeyQueue) requeueStranded(ctx context.Context) {
	moved := 0
	for ctx.Err() == nil {
		err := q.client.Do(ctx, q.client.B().Lmove().Source(q.processing).Destination(q.pending).Right().Right().Build()).Error()
		if err != nil {
			if !valkey.IsValkeyNil(err) {
				q.logger.Warn("requeue stranded jobs failed", "error", err)
			}
			break
		}
		moved++
	}
	if moved > 0 {
		q.logger.Info("requeued stranded jobs", "count", moved)
	}
}

var _ HandlerQueue = (*ValkeyQueue)(nil)
