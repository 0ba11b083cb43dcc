package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"meudinheiro/internal/aggregate"
	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
	"meudinheiro/internal/services"
	"meudinheiro/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Unknown errors are
// logged and reported as 500 without their text.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := http.StatusInternalServerError, log.ErrorTypeInternal
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, services.ErrInvalidInput):
		status, code = http.StatusBadRequest, log.ErrorTypeValidation
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, log.ErrorTypeNotFound
	case errors.Is(err, services.ErrViewNotSelectable):
		status, code = http.StatusConflict, log.ErrorTypeConflict
	}

	ctx := r.Context()
	if status == http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(ctx)).
			LogError(ctx, "Request failed", err, log.ComponentHTTP, op, nil)
		writeJSON(w, status, errorBody{Error: "internal error", Code: code})
		return
	}

	log.FromContext(ctx).DebugContext(ctx, "Request rejected",
		log.FieldOperation, op,
		log.FieldStatusCode, status,
		log.FieldErrorType, code,
		log.FieldError, err.Error())
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}

// transactionView adds display fields to a transaction.
type transactionView struct {
	core.Transaction
	AmountFormatted string `json:"amountFormatted"`
	DateFormatted   string `json:"dateFormatted"`
	CategoryName    string `json:"categoryName"`
	CategoryColor   string `json:"categoryColor"`
}

func newTransactionView(tx core.Transaction) transactionView {
	return transactionView{
		Transaction:     tx,
		AmountFormatted: core.FormatBRL(tx.Amount),
		DateFormatted:   core.FormatDate(tx.Date),
		CategoryName:    core.CategoryName(tx.Category),
		CategoryColor:   core.CategoryColor(tx.Category),
	}
}

func newTransactionViews(txs []core.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, newTransactionView(tx))
	}
	return out
}

type accountView struct {
	core.Account
	BalanceConfirmedFormatted string `json:"balanceConfirmedFormatted"`
	BalanceProjectedFormatted string `json:"balanceProjectedFormatted"`
}

func newAccountViews(accounts []core.Account) []accountView {
	out := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountView{
			Account:                   a,
			BalanceConfirmedFormatted: core.FormatBRL(a.BalanceConfirmed),
			BalanceProjectedFormatted: core.FormatBRL(a.BalanceProjected),
		})
	}
	return out
}

type dashboardView struct {
	aggregate.Dashboard
	Transactions []transactionView `json:"transactions"`
	Formatted    map[string]string `json:"formatted"`
}

func newDashboardView(d aggregate.Dashboard) dashboardView {
	return dashboardView{
		Dashboard:    d,
		Transactions: newTransactionViews(d.Transactions),
		Formatted: map[string]string{
			"income":           core.FormatBRL(d.Totals.Income),
			"expense":          core.FormatBRL(d.Totals.Expense),
			"projectedIncome":  core.FormatBRL(d.Totals.ProjectedIncome),
			"net":              core.FormatBRL(d.Totals.Net),
			"totalBalance":     core.FormatBRL(d.TotalBalance),
			"projectedBalance": core.FormatBRL(d.ProjectedBalance),
		},
	}
}

type planningView struct {
	Payables                  []transactionView `json:"payables"`
	Receivables               []transactionView `json:"receivables"`
	PayablesTotal             core.Money        `json:"payablesTotal"`
	ReceivablesTotal          core.Money        `json:"receivablesTotal"`
	PayablesTotalFormatted    string            `json:"payablesTotalFormatted"`
	ReceivablesTotalFormatted string            `json:"receivablesTotalFormatted"`
}

func newPlanningView(p aggregate.Planning) planningView {
	return planningView{
		Payables:                  newTransactionViews(p.Payables),
		Receivables:               newTransactionViews(p.Receivables),
		PayablesTotal:             p.PayablesTotal,
		ReceivablesTotal:          p.ReceivablesTotal,
		PayablesTotalFormatted:    core.FormatBRL(p.PayablesTotal),
		ReceivablesTotalFormatted: core.FormatBRL(p.ReceivablesTotal),
	}
}
