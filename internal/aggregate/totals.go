// Package aggregate derives the figures shown on every screen from
// ownership-filtered records. Functions here never filter by owner themselves;
// callers pass the subset visible under the active view (see BuildDashboard).
package aggregate

import (
	"strings"

	"meudinheiro/internal/core"
)

// PeriodTotals summarises a set of transactions.
type PeriodTotals struct {
	Income          core.Money `json:"income"`
	Expense         core.Money `json:"expense"`
	ProjectedIncome core.Money `json:"projectedIncome"`
	Net             core.Money `json:"net"`
}

// Totals sums confirmed income and expense, pending income as projected, and
// the net result of the confirmed figures.
func Totals(txs []core.Transaction) PeriodTotals {
	var t PeriodTotals
	for _, tx := range txs {
		switch {
		case tx.Type == core.Income && tx.Status == core.Confirmed:
			t.Income = t.Income.Add(tx.Amount)
		case tx.Type == core.Expense && tx.Status == core.Confirmed:
			t.Expense = t.Expense.Add(tx.Amount)
		case tx.Type == core.Income && tx.Status == core.Pending:
			t.ProjectedIncome = t.ProjectedIncome.Add(tx.Amount)
		}
	}
	t.Net = t.Income.Sub(t.Expense)
	return t
}

// TotalBalance sums the confirmed balance snapshots of the accounts.
// It is independent of transaction totals.
func TotalBalance(accounts []core.Account) core.Money {
	var sum core.Money
	for _, a := range accounts {
		sum = sum.Add(a.BalanceConfirmed)
	}
	return sum
}

// ProjectedBalance sums the projected balance snapshots of the accounts.
func ProjectedBalance(accounts []core.Account) core.Money {
	var sum core.Money
	for _, a := range accounts {
		sum = sum.Add(a.BalanceProjected)
	}
	return sum
}

// StatusAll disables the status filter in SearchTransactions.
const StatusAll = "ALL"

// SearchTransactions keeps transactions whose description contains query
// (case-insensitive) and whose status matches status. An empty status or
// StatusAll matches every status.
func SearchTransactions(txs []core.Transaction, query string, status string) []core.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if q != "" && !strings.Contains(strings.ToLower(tx.Description), q) {
			continue
		}
		if status != "" && status != StatusAll && string(tx.Status) != status {
			continue
		}
		out = append(out, tx)
	}
	return out
}
