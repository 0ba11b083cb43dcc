// Package notify holds transient toast notifications. Each one expires
// after a fixed TTL unless dismissed earlier.
package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
	"meudinheiro/internal/store"
)

// Publisher forwards notifications outside the process.
type Publisher interface {
	PublishNotification(ctx context.Context, n core.Notification) error
}

type timer interface {
	Stop() bool
}

type entry struct {
	n     core.Notification
	timer timer
}

// Queue is safe for concurrent use.
type Queue struct {
	ttl       time.Duration
	publisher Publisher
	logger    *log.Logger

	newID     store.IDFunc
	afterFunc func(time.Duration, func()) timer

	mu      sync.Mutex
	entries []entry
	wg      sync.WaitGroup
}

// New returns a queue expiring entries after ttl. publisher may be nil; a
// nil logger uses the default configuration.
func New(ttl time.Duration, publisher Publisher, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Queue{
		ttl:       ttl,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentNotify),
		newID:     store.NewID,
		afterFunc: func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) },
	}
}

// Enqueue appends a notification and schedules its removal. The stored
// copy with its generated id is returned.
func (q *Queue) Enqueue(ctx context.Context, message string, kind core.NotificationKind) core.Notification {
	if !kind.IsValid() {
		kind = core.Info
	}

	q.mu.Lock()
	n := core.Notification{ID: q.newID(), Message: message, Type: kind}
	id := n.ID
	t := q.afterFunc(q.ttl, func() { q.expire(id) })
	q.entries = append(q.entries, entry{n: n, timer: t})
	q.mu.Unlock()

	q.logger.DebugContext(ctx, "Notification queued", log.FieldEntityID, n.ID, log.FieldStatus, n.Type)
	q.publish(ctx, n)
	return n
}

// Dismiss removes a notification before it expires. It reports false for
// unknown ids.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(id)
	if i < 0 {
		return false
	}
	q.entries[i].timer.Stop()
	q.entries = slices.Delete(q.entries, i, i+1)
	return true
}

// List returns the live notifications oldest first.
func (q *Queue) List() []core.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]core.Notification, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.n
	}
	return out
}

// Len reports how many notifications are live.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Reset drops every notification and cancels pending expirations.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = nil
}

// Close cancels expirations and waits for in-flight publishes.
func (q *Queue) Close() {
	q.Reset()
	q.wg.Wait()
}

func (q *Queue) expire(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.indexOf(id); i >= 0 {
		q.entries = slices.Delete(q.entries, i, i+1)
	}
}

func (q *Queue) indexOf(id string) int {
	for i, e := range q.entries {
		if e.n.ID == id {
			return i
		}
	}
	return -1
}

func (q *Queue) publish(ctx context.Context, n core.Notification) {
	if q.publisher == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := q.publisher.PublishNotification(ctx, n); err != nil {
			q.logger.WarnContext(ctx, "Failed to publish notification", log.FieldEntityID, n.ID, log.FieldError, err)
		}
	}()
}
