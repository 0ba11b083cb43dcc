package aggregate

import "meudinheiro/internal/core"

// Planning lists what is still to be paid or received.
type Planning struct {
	Payables         []core.Transaction `json:"payables"`
	Receivables      []core.Transaction `json:"receivables"`
	PayablesTotal    core.Money         `json:"payablesTotal"`
	ReceivablesTotal core.Money         `json:"receivablesTotal"`
}

// Plan splits every transaction that is not CONFIRMED into payables
// (expenses) and receivables (income). RECONCILED records are kept in the
// lists; only CONFIRMED is treated as settled. Transfers are left out.
func Plan(txs []core.Transaction) Planning {
	p := Planning{
		Payables:    []core.Transaction{},
		Receivables: []core.Transaction{},
	}
	for _, tx := range txs {
		if tx.Status == core.Confirmed {
			continue
		}
		switch tx.Type {
		case core.Expense:
			p.Payables = append(p.Payables, tx)
			p.PayablesTotal = p.PayablesTotal.Add(tx.Amount)
		case core.Income:
			p.Receivables = append(p.Receivables, tx)
			p.ReceivablesTotal = p.ReceivablesTotal.Add(tx.Amount)
		}
	}
	return p
}
