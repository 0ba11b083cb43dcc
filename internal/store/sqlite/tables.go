package sqlite

import (
	"meudinheiro/internal/core"
)

func transactionsTable(s *Store) *table[core.Transaction] {
	return &table[core.Transaction]{
		s: s, kind: "transaction", name: "transactions", desc: true,
		columns: []string{"date", "description", "amount_cents", "type", "category", "account", "payment_method", "owner", "status", "cost_center"},
		id:      func(t core.Transaction) string { return t.ID },
		withID:  func(t core.Transaction, id string) core.Transaction { t.ID = id; return t },
		values: func(t core.Transaction) []any {
			return []any{t.Date.String(), t.Description, t.Amount.Cents, string(t.Type), t.Category,
				t.Account, string(t.PaymentMethod), string(t.Owner), string(t.Status), t.CostCenter}
		},
		scan: func(sc scanner) (core.Transaction, error) {
			var (
				t    core.Transaction
				date string
			)
			err := sc.Scan(&t.ID, &date, &t.Description, &t.Amount.Cents, &t.Type, &t.Category,
				&t.Account, &t.PaymentMethod, &t.Owner, &t.Status, &t.CostCenter)
			if err != nil {
				return t, err
			}
			t.Date, err = core.ParseDate(date)
			return t, err
		},
	}
}

func accountsTable(s *Store) *table[core.Account] {
	return &table[core.Account]{
		s: s, kind: "account", name: "accounts",
		columns: []string{"name", "bank", "owner", "balance_confirmed_cents", "balance_projected_cents", "type"},
		id:      func(a core.Account) string { return a.ID },
		withID:  func(a core.Account, id string) core.Account { a.ID = id; return a },
		values: func(a core.Account) []any {
			return []any{a.Name, a.Bank, string(a.Owner), a.BalanceConfirmed.Cents, a.BalanceProjected.Cents, string(a.Type)}
		},
		scan: func(sc scanner) (core.Account, error) {
			var a core.Account
			err := sc.Scan(&a.ID, &a.Name, &a.Bank, &a.Owner, &a.BalanceConfirmed.Cents, &a.BalanceProjected.Cents, &a.Type)
			return a, err
		},
	}
}

func goalsTable(s *Store) *table[core.Goal] {
	return &table[core.Goal]{
		s: s, kind: "goal", name: "goals",
		columns: []string{"title", "target_amount_cents", "current_amount_cents", "deadline", "owner", "type"},
		id:      func(g core.Goal) string { return g.ID },
		withID:  func(g core.Goal, id string) core.Goal { g.ID = id; return g },
		values: func(g core.Goal) []any {
			return []any{g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Deadline.String(), string(g.Owner), string(g.Type)}
		},
		scan: func(sc scanner) (core.Goal, error) {
			var (
				g        core.Goal
				deadline string
			)
			err := sc.Scan(&g.ID, &g.Title, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &deadline, &g.Owner, &g.Type)
			if err != nil {
				return g, err
			}
			g.Deadline, err = core.ParseDate(deadline)
			return g, err
		},
	}
}

func cardsTable(s *Store) *table[core.CreditCard] {
	return &table[core.CreditCard]{
		s: s, kind: "card", name: "cards",
		columns: []string{"name", "bank", "owner", "limit_cents", "used_cents", "closing_day", "due_day", "brand"},
		id:      func(c core.CreditCard) string { return c.ID },
		withID:  func(c core.CreditCard, id string) core.CreditCard { c.ID = id; return c },
		values: func(c core.CreditCard) []any {
			return []any{c.Name, c.Bank, string(c.Owner), c.Limit.Cents, c.Used.Cents, c.ClosingDay, c.DueDay, c.Brand}
		},
		scan: func(sc scanner) (core.CreditCard, error) {
			var c core.CreditCard
			err := sc.Scan(&c.ID, &c.Name, &c.Bank, &c.Owner, &c.Limit.Cents, &c.Used.Cents, &c.ClosingDay, &c.DueDay, &c.Brand)
			return c, err
		},
	}
}
