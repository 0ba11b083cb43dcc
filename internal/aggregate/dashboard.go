package aggregate

import (
	"meudinheiro/internal/core"
	"meudinheiro/internal/ownership"
)

// Dashboard is the composed snapshot for one view mode.
type Dashboard struct {
	View             core.ViewMode      `json:"view"`
	Totals           PeriodTotals       `json:"totals"`
	TotalBalance     core.Money         `json:"totalBalance"`
	ProjectedBalance core.Money         `json:"projectedBalance"`
	Accounts         []core.Account     `json:"accounts"`
	Cards            []CardUtilization  `json:"cards"`
	Goals            []GoalStatus       `json:"goals"`
	Planning         Planning           `json:"planning"`
	Transactions     []core.Transaction `json:"transactions"`
}

// BuildDashboard filters every collection by view and derives all figures
// from the visible subset only.
func BuildDashboard(view core.ViewMode, txs []core.Transaction, accounts []core.Account, cards []core.CreditCard, goals []core.Goal) Dashboard {
	vt := ownership.Filter(view, txs)
	va := ownership.Filter(view, accounts)
	return Dashboard{
		View:             view,
		Totals:           Totals(vt),
		TotalBalance:     TotalBalance(va),
		ProjectedBalance: ProjectedBalance(va),
		Accounts:         va,
		Cards:            Utilizations(ownership.Filter(view, cards)),
		Goals:            GoalsProgress(ownership.Filter(view, goals)),
		Planning:         Plan(vt),
		Transactions:     vt,
	}
}
