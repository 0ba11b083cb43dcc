// Package services holds the session state and the due-date monitor.
package services

import (
	"meudinheiro/internal/core"
)

// DueRule decides whether a transaction deserves a due-soon warning.
type DueRule interface {
	IsDue(tx core.Transaction, today core.Date) bool
}

// WindowRule matches pending expenses dated from today through today+Days,
// both ends inclusive. Overdue transactions do not match.
type WindowRule struct {
	Days int
}

func (r WindowRule) IsDue(tx core.Transaction, today core.Date) bool {
	if tx.Status != core.Pending || tx.Type != core.Expense {
		return false
	}
	return !tx.Date.Before(today) && !tx.Date.After(today.AddDays(r.Days))
}
