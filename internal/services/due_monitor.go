package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
	"meudinheiro/internal/store"
)

// Notifier receives due-soon warnings.
type Notifier interface {
	Enqueue(ctx context.Context, message string, kind core.NotificationKind) core.Notification
}

// DueMessage is the warning text for a transaction about to fall due.
func DueMessage(description string) string {
	return fmt.Sprintf("A conta \"%s\" vence em breve!", description)
}

// DueMonitor scans transactions and enqueues one warning per due item.
//
// Without dedup every Check warns again for the same transactions. With
// dedup a transaction is warned about at most once per calendar day.
type DueMonitor struct {
	txs    store.TransactionStore
	queue  Notifier
	rule   DueRule
	logger *log.Logger

	dedup    bool
	mu       sync.Mutex
	notified map[string]core.Date
}

func NewDueMonitor(txs store.TransactionStore, queue Notifier, rule DueRule, dedup bool, logger *log.Logger) *DueMonitor {
	if rule == nil {
		rule = WindowRule{Days: 3}
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DueMonitor{
		txs:      txs,
		queue:    queue,
		rule:     rule,
		logger:   logger.WithComponent(log.ComponentMonitor),
		dedup:    dedup,
		notified: make(map[string]core.Date),
	}
}

// Check enqueues warnings for the transactions due relative to now and
// returns how many were enqueued.
func (m *DueMonitor) Check(ctx context.Context, now time.Time) (int, error) {
	txs, err := m.txs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}
	today := core.DateOf(now)

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, tx := range txs {
		if !m.rule.IsDue(tx, today) {
			continue
		}
		if m.dedup {
			if last, ok := m.notified[tx.ID]; ok && last.Equal(today) {
				continue
			}
			m.notified[tx.ID] = today
		}
		m.queue.Enqueue(ctx, DueMessage(tx.Description), core.Warning)
		count++
	}
	if m.dedup {
		for id, last := range m.notified {
			if !last.Equal(today) {
				delete(m.notified, id)
			}
		}
	}

	if count > 0 {
		m.logger.InfoContext(ctx, "Due transactions found", log.FieldDueCount, count, log.FieldOperation, log.OpDueCheck)
	}
	return count, nil
}

// Forget clears the dedup memory.
func (m *DueMonitor) Forget() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.notified)
}

// Run calls Check every interval until ctx is done. Ticks where enabled
// reports false are skipped. A nil now uses time.Now.
func (m *DueMonitor) Run(ctx context.Context, interval time.Duration, enabled func() bool, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.InfoContext(ctx, "Due monitor stopped", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if enabled != nil && !enabled() {
				continue
			}
			if _, err := m.Check(ctx, now()); err != nil {
				m.logger.ErrorContext(ctx, "Due check failed", log.FieldError, err)
			}
		}
	}
}
