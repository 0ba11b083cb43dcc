package services

import (
	"context"
	"fmt"

	"meudinheiro/internal/aggregate"
	"meudinheiro/internal/core"
	"meudinheiro/internal/ownership"
)

// Reads are filtered by the view mode selected when they start.

func (s *Session) Transactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.Transactions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return ownership.Filter(s.ViewMode(), txs), nil
}

func (s *Session) Accounts(ctx context.Context) ([]core.Account, error) {
	accounts, err := s.store.Accounts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return ownership.Filter(s.ViewMode(), accounts), nil
}

func (s *Session) Goals(ctx context.Context) ([]aggregate.GoalStatus, error) {
	goals, err := s.store.Goals().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return aggregate.GoalsProgress(ownership.Filter(s.ViewMode(), goals)), nil
}

func (s *Session) Cards(ctx context.Context) ([]aggregate.CardUtilization, error) {
	cards, err := s.store.Cards().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return aggregate.Utilizations(ownership.Filter(s.ViewMode(), cards)), nil
}

// Dashboard returns the composed snapshot for the current view. Snapshots
// are reused until the store changes.
func (s *Session) Dashboard(ctx context.Context) (aggregate.Dashboard, error) {
	view := s.ViewMode()
	key := fmt.Sprintf("%s:%d", view, s.store.Revision())
	if s.dashboards != nil {
		if d, ok := s.dashboards.Get(key); ok {
			return d, nil
		}
	}

	txs, err := s.store.Transactions().List(ctx)
	if err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("list transactions: %w", err)
	}
	accounts, err := s.store.Accounts().List(ctx)
	if err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("list accounts: %w", err)
	}
	cards, err := s.store.Cards().List(ctx)
	if err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("list cards: %w", err)
	}
	goals, err := s.store.Goals().List(ctx)
	if err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("list goals: %w", err)
	}

	d := aggregate.BuildDashboard(view, txs, accounts, cards, goals)
	if s.dashboards != nil {
		s.dashboards.Set(key, d)
	}
	return d, nil
}

// CashFlow builds the series for the session date range seeded with the
// configured opening balance.
func (s *Session) CashFlow(ctx context.Context) (aggregate.CashFlowSeries, error) {
	return s.CashFlowFor(ctx, s.DateRange(), s.seed)
}

// CashFlowSeed is the configured opening balance of the cash-flow series.
func (s *Session) CashFlowSeed() core.Money { return s.seed }

// CashFlowFor builds the series for an explicit window and seed.
func (s *Session) CashFlowFor(ctx context.Context, window aggregate.DateRange, seed core.Money) (aggregate.CashFlowSeries, error) {
	if err := window.Validate(); err != nil {
		return aggregate.CashFlowSeries{}, invalid(err)
	}
	txs, err := s.Transactions(ctx)
	if err != nil {
		return aggregate.CashFlowSeries{}, err
	}
	return aggregate.CashFlow(txs, window, seed), nil
}

func (s *Session) Planning(ctx context.Context) (aggregate.Planning, error) {
	txs, err := s.Transactions(ctx)
	if err != nil {
		return aggregate.Planning{}, err
	}
	return aggregate.Plan(txs), nil
}

// SearchTransactions matches description text and status within the view.
func (s *Session) SearchTransactions(ctx context.Context, query, status string) ([]core.Transaction, error) {
	txs, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.SearchTransactions(txs, query, status), nil
}
