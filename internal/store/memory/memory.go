// Package memory keeps session records in process memory.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"meudinheiro/internal/core"
	"meudinheiro/internal/store"
)

type Store struct {
	mu       sync.Mutex
	revision uint64
	newID    store.IDFunc

	transactions *collection[core.Transaction]
	accounts     *collection[core.Account]
	goals        *collection[core.Goal]
	cards        *collection[core.CreditCard]
}

// New returns an empty store. A nil idFunc uses store.NewID.
func New(idFunc store.IDFunc) *Store {
	if idFunc == nil {
		idFunc = store.NewID
	}
	s := &Store{newID: idFunc}
	s.transactions = &collection[core.Transaction]{
		s: s, kind: "transaction", prepend: true,
		id:     func(t core.Transaction) string { return t.ID },
		withID: func(t core.Transaction, id string) core.Transaction { t.ID = id; return t },
	}
	s.accounts = &collection[core.Account]{
		s: s, kind: "account",
		id:     func(a core.Account) string { return a.ID },
		withID: func(a core.Account, id string) core.Account { a.ID = id; return a },
	}
	s.goals = &collection[core.Goal]{
		s: s, kind: "goal",
		id:     func(g core.Goal) string { return g.ID },
		withID: func(g core.Goal, id string) core.Goal { g.ID = id; return g },
	}
	s.cards = &collection[core.CreditCard]{
		s: s, kind: "card",
		id:     func(c core.CreditCard) string { return c.ID },
		withID: func(c core.CreditCard, id string) core.CreditCard { c.ID = id; return c },
	}
	return s
}

func (s *Store) Transactions() store.TransactionStore { return s.transactions }
func (s *Store) Accounts() store.AccountStore         { return s.accounts }
func (s *Store) Goals() store.GoalStore               { return s.goals }
func (s *Store) Cards() store.CardStore               { return s.cards }

func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Reset drops every record.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions.items = nil
	s.accounts.items = nil
	s.goals.items = nil
	s.cards.items = nil
	s.revision++
	return nil
}

func (s *Store) Close() error { return nil }

type collection[T any] struct {
	s       *Store
	kind    string
	prepend bool
	items   []T
	id      func(T) string
	withID  func(T, string) T
}

func (c *collection[T]) Create(_ context.Context, item T) (T, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	id := c.s.newID()
	for c.indexOf(id) >= 0 {
		id = c.s.newID()
	}
	item = c.withID(item, id)
	if c.prepend {
		c.items = append([]T{item}, c.items...)
	} else {
		c.items = append(c.items, item)
	}
	c.s.revision++
	return item, nil
}

func (c *collection[T]) Update(_ context.Context, item T) (T, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	i := c.indexOf(c.id(item))
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("update %s %q: %w", c.kind, c.id(item), store.ErrNotFound)
	}
	c.items[i] = item
	c.s.revision++
	return item, nil
}

func (c *collection[T]) Delete(_ context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %s %q: %w", c.kind, id, store.ErrNotFound)
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.s.revision++
	return nil
}

func (c *collection[T]) Get(_ context.Context, id string) (T, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("get %s %q: %w", c.kind, id, store.ErrNotFound)
	}
	return c.items[i], nil
}

func (c *collection[T]) List(_ context.Context) ([]T, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return append([]T(nil), c.items...), nil
}

func (c *collection[T]) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, it := range c.items {
		if c.id(it) == id {
			return i
		}
	}
	return -1
}
