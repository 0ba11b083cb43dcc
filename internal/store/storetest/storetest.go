// Package storetest holds behaviour checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meudinheiro/internal/core"
	"meudinheiro/internal/store"
)

// Run exercises a fresh store returned by newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("transactions newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.Transactions().Create(ctx, sampleTransaction("first"))
		require.NoError(t, err)
		second, err := s.Transactions().Create(ctx, sampleTransaction("second"))
		require.NoError(t, err)

		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		list, err := s.Transactions().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Description)
		assert.Equal(t, "first", list[1].Description)
		assert.Equal(t, first, list[1])
	})

	t.Run("accounts keep insertion order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, name := range []string{"Nubank", "Itaú", "XP"} {
			_, err := s.Accounts().Create(ctx, core.Account{Name: name, Owner: core.User1, Type: core.Checking, BalanceConfirmed: core.Reais(10)})
			require.NoError(t, err)
		}
		list, err := s.Accounts().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "Nubank", list[0].Name)
		assert.Equal(t, "XP", list[2].Name)
		assert.Equal(t, int64(1000), list[0].BalanceConfirmed.Cents)
	})

	t.Run("update replaces matching record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Transactions().Create(ctx, sampleTransaction("aluguel"))
		require.NoError(t, err)
		rev := s.Revision()

		created.Status = core.Confirmed
		created.Amount = core.Reais(1600)
		_, err = s.Transactions().Update(ctx, created)
		require.NoError(t, err)
		assert.Greater(t, s.Revision(), rev)

		got, err := s.Transactions().Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, core.Confirmed, got.Status)
		assert.Equal(t, int64(160000), got.Amount.Cents)
	})

	t.Run("unknown ids report not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Goals().Update(ctx, core.Goal{ID: "missing", Title: "x"})
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Cards().Delete(ctx, "missing"), store.ErrNotFound)
		_, err = s.Accounts().Get(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete twice leaves same state", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.Transactions().Create(ctx, sampleTransaction("a"))
		require.NoError(t, err)
		_, err = s.Transactions().Create(ctx, sampleTransaction("b"))
		require.NoError(t, err)

		require.NoError(t, s.Transactions().Delete(ctx, a.ID))
		assert.ErrorIs(t, s.Transactions().Delete(ctx, a.ID), store.ErrNotFound)

		list, err := s.Transactions().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "b", list[0].Description)
	})

	t.Run("goals and cards round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		g, err := s.Goals().Create(ctx, core.Goal{
			Title: "Viagem", TargetAmount: core.Reais(10000), CurrentAmount: core.Reais(2500),
			Deadline: core.NewDate(2026, 12, 31), Owner: core.Joint, Type: core.SavingGoal,
		})
		require.NoError(t, err)
		gotGoal, err := s.Goals().Get(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, g, gotGoal)

		c, err := s.Cards().Create(ctx, core.CreditCard{
			Name: "Roxinho", Bank: "Nubank", Owner: core.User1, Limit: core.Reais(5000),
			Used: core.Reais(4500), ClosingDay: 3, DueDay: 10, Brand: "Mastercard",
		})
		require.NoError(t, err)
		gotCard, err := s.Cards().Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, gotCard)
	})

	t.Run("reset empties everything", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Transactions().Create(ctx, sampleTransaction("a"))
		require.NoError(t, err)
		_, err = s.Accounts().Create(ctx, core.Account{Name: "Conta", Owner: core.Joint, Type: core.Savings})
		require.NoError(t, err)
		rev := s.Revision()

		require.NoError(t, s.Reset(ctx))
		assert.Greater(t, s.Revision(), rev)

		txs, err := s.Transactions().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, txs)
		accounts, err := s.Accounts().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("list returns a snapshot", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Transactions().Create(ctx, sampleTransaction("a"))
		require.NoError(t, err)
		list, err := s.Transactions().List(ctx)
		require.NoError(t, err)
		list[0].Description = "changed"

		again, err := s.Transactions().List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a", again[0].Description)
	})
}

func sampleTransaction(desc string) core.Transaction {
	return core.Transaction{
		Date:          core.NewDate(2025, 3, 10),
		Description:   desc,
		Amount:        core.Reais(1500),
		Type:          core.Expense,
		Category:      "moradia",
		PaymentMethod: core.PayPix,
		Owner:         core.Joint,
		Status:        core.Pending,
		CostCenter:    "Casa",
	}
}
