package aggregate

import (
	"errors"
	"fmt"
	"time"

	"meudinheiro/internal/core"
)

// MaxRangeDays caps the length of a window, roughly ten years.
const MaxRangeDays = 3660

var (
	ErrInvalidRange = errors.New("date range end is before its start")
	ErrRangeTooLong = fmt.Errorf("date range longer than %d days", MaxRangeDays)
)

// DateRange is an inclusive window of calendar days.
type DateRange struct {
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
}

// MonthRange returns the first..last day window of a month.
func MonthRange(year, month int) DateRange {
	return DateRange{
		Start: core.NewDate(year, month, 1),
		End:   core.NewDate(year, month, core.DaysIn(year, month)),
	}
}

func (r DateRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	if err := r.End.Validate(); err != nil {
		return err
	}
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	if r.offset(r.End) >= MaxRangeDays {
		return ErrRangeTooLong
	}
	return nil
}

// Days returns the number of calendar days in the window, 0 if invalid.
func (r DateRange) Days() int {
	if r.Validate() != nil {
		return 0
	}
	return r.offset(r.End) + 1
}

// Contains reports whether d falls inside the window.
func (r DateRange) Contains(d core.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// offset counts calendar days from the window start to d.
func (r DateRange) offset(d core.Date) int {
	return int(dayNumber(d) - dayNumber(r.Start))
}

// dayNumber is the count of days since the Unix epoch for d's calendar day.
func dayNumber(d core.Date) int64 {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DayFlow is one point of the daily cash-flow series.
type DayFlow struct {
	Date    core.Date  `json:"date"`
	Day     int        `json:"day"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// FlowSummary totals a cash-flow window.
type FlowSummary struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Result  core.Money `json:"result"`
}

// CashFlowSeries is the day-by-day view of a window.
type CashFlowSeries struct {
	Window  DateRange   `json:"window"`
	Seed    core.Money  `json:"seed"`
	Days    []DayFlow   `json:"days"`
	Summary FlowSummary `json:"summary"`
}

// CashFlow buckets income and expense by day over window and carries a
// running balance seeded from seed:
//
//	balance[n] = balance[n-1] + income[n] - expense[n]
//
// Every day of the window gets an entry, zero-filled when nothing happened.
// Transactions of any status count; transfers and dates outside the window
// are ignored. An invalid window yields an empty series.
func CashFlow(txs []core.Transaction, window DateRange, seed core.Money) CashFlowSeries {
	series := CashFlowSeries{Window: window, Seed: seed}
	n := window.Days()
	if n == 0 {
		return series
	}

	days := make([]DayFlow, n)
	for i := range days {
		d := window.Start.AddDays(i)
		days[i] = DayFlow{Date: d, Day: d.Day()}
	}

	for _, tx := range txs {
		if !window.Contains(tx.Date) {
			continue
		}
		i := window.offset(tx.Date)
		switch tx.Type {
		case core.Income:
			days[i].Income = days[i].Income.Add(tx.Amount)
		case core.Expense:
			days[i].Expense = days[i].Expense.Add(tx.Amount)
		}
	}

	balance := seed
	for i := range days {
		balance = balance.Add(days[i].Income).Sub(days[i].Expense)
		days[i].Balance = balance
		series.Summary.Income = series.Summary.Income.Add(days[i].Income)
		series.Summary.Expense = series.Summary.Expense.Add(days[i].Expense)
	}
	series.Summary.Result = series.Summary.Income.Sub(series.Summary.Expense)
	series.Days = days
	return series
}
