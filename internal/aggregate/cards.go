package aggregate

import (
	"github.com/shopspring/decimal"

	"meudinheiro/internal/core"
)

const (
	BandLow    UtilizationBand = "low"
	BandMedium UtilizationBand = "medium"
	BandHigh   UtilizationBand = "high"
)

// UtilizationBand grades how much of a card limit is in use.
type UtilizationBand string

var hundred = decimal.NewFromInt(100)

// CardUtilization is the derived state of a credit card.
type CardUtilization struct {
	Card core.CreditCard `json:"card"`
	// Percentage is clamped to [0, 100] for display.
	Percentage float64 `json:"percentage"`
	// Available is limit minus used and goes negative when over the limit.
	Available core.Money      `json:"available"`
	Band      UtilizationBand `json:"band"`
}

// Utilization computes used/limit for a card. The band uses strict
// thresholds: above 80% is high, above 50% is medium. A non-positive limit
// reports 0%.
func Utilization(c core.CreditCard) CardUtilization {
	u := CardUtilization{
		Card:      c,
		Available: c.Limit.Sub(c.Used),
		Band:      BandLow,
	}
	if c.Limit.Cents <= 0 {
		return u
	}

	pct := decimal.NewFromInt(c.Used.Cents).
		Div(decimal.NewFromInt(c.Limit.Cents)).
		Mul(hundred)

	switch {
	case pct.GreaterThan(decimal.NewFromInt(80)):
		u.Band = BandHigh
	case pct.GreaterThan(decimal.NewFromInt(50)):
		u.Band = BandMedium
	}

	u.Percentage = decimal.Max(decimal.Zero, decimal.Min(hundred, pct)).InexactFloat64()
	return u
}

// Utilizations maps Utilization over cards, preserving order.
func Utilizations(cards []core.CreditCard) []CardUtilization {
	out := make([]CardUtilization, 0, len(cards))
	for _, c := range cards {
		out = append(out, Utilization(c))
	}
	return out
}
