package store

import (
	"context"
	"errors"

	"meudinheiro/internal/core"
)

// ErrNotFound is returned by Update, Delete and Get for unknown ids.
var ErrNotFound = errors.New("record not found")

// Ports for entity storage.
type (
	// Collection holds one kind of record keyed by id.
	Collection[T any] interface {
		// Create assigns a fresh id and stores the record.
		Create(ctx context.Context, item T) (T, error)
		// Update replaces the record with the same id.
		Update(ctx context.Context, item T) (T, error)
		// Delete removes the record. Deleting twice leaves the same state.
		Delete(ctx context.Context, id string) error
		Get(ctx context.Context, id string) (T, error)
		// List returns a snapshot in storage order.
		List(ctx context.Context) ([]T, error)
	}

	TransactionStore = Collection[core.Transaction]
	AccountStore     = Collection[core.Account]
	GoalStore        = Collection[core.Goal]
	CardStore        = Collection[core.CreditCard]

	// Store groups the four collections of a session.
	Store interface {
		// Transactions are listed newest insert first.
		Transactions() TransactionStore
		// Accounts, goals and cards are listed in insertion order.
		Accounts() AccountStore
		Goals() GoalStore
		Cards() CardStore

		// Revision increases on every successful mutation.
		Revision() uint64
		// Reset empties every collection.
		Reset(ctx context.Context) error
		Close() error
	}
)

// IDFunc generates record ids.
type IDFunc func() string
