package aggregate

import (
	"github.com/shopspring/decimal"

	"meudinheiro/internal/core"
)

// GoalStatus is the derived progress of a goal.
type GoalStatus struct {
	Goal       core.Goal  `json:"goal"`
	Percentage int        `json:"percentage"`
	Remaining  core.Money `json:"remaining"`
	// Reached is set for saving goals at 100%.
	Reached bool `json:"reached"`
	// NearLimit is set for spending limits above 90%.
	NearLimit bool `json:"nearLimit"`
}

// GoalPercentage returns min(100, round(current/target*100)). A target of
// zero or less yields 0 instead of dividing by zero.
func GoalPercentage(g core.Goal) int {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(g.CurrentAmount.Cents).
		Div(decimal.NewFromInt(g.TargetAmount.Cents)).
		Mul(hundred).
		Round(0).
		IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// GoalProgress derives the display state of a goal.
func GoalProgress(g core.Goal) GoalStatus {
	pct := GoalPercentage(g)
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		remaining = core.Money{}
	}
	return GoalStatus{
		Goal:       g,
		Percentage: pct,
		Remaining:  remaining,
		Reached:    g.Type == core.SavingGoal && pct >= 100,
		NearLimit:  g.Type == core.SpendingLimit && pct > 90,
	}
}

// GoalsProgress maps GoalProgress over goals, preserving order.
func GoalsProgress(goals []core.Goal) []GoalStatus {
	out := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalProgress(g))
	}
	return out
}
