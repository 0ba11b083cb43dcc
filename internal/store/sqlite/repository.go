// Package sqlite stores session records in an in-memory SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
	"meudinheiro/internal/store"

	_ "modernc.org/sqlite"
)

// ErrDurableDSN is returned for DSNs that would write to disk.
var ErrDurableDSN = errors.New("sqlite dsn must use mode=memory with cache=shared")

type Store struct {
	db       *sql.DB
	newID    store.IDFunc
	revision atomic.Uint64
	logger   *log.Logger

	transactions *table[core.Transaction]
	accounts     *table[core.Account]
	goals        *table[core.Goal]
	cards        *table[core.CreditCard]
}

// IsMemoryDSN reports whether dsn names a shared in-memory database.
func IsMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, "mode=memory") && strings.Contains(dsn, "cache=shared")
}

// New opens the database named by dsn and applies migrations.
// A nil idFunc uses store.NewID and a nil logger the default configuration.
func New(dsn string, idFunc store.IDFunc, logger *log.Logger) (*Store, error) {
	if !IsMemoryDSN(dsn) {
		return nil, ErrDurableDSN
	}
	if idFunc == nil {
		idFunc = store.NewID
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The in-memory database lives as long as one connection stays open.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{db: db, newID: idFunc, logger: logger.WithComponent(log.ComponentStorage)}
	s.transactions = transactionsTable(s)
	s.accounts = accountsTable(s)
	s.goals = goalsTable(s)
	s.cards = cardsTable(s)
	return s, nil
}

func (s *Store) Transactions() store.TransactionStore { return s.transactions }
func (s *Store) Accounts() store.AccountStore         { return s.accounts }
func (s *Store) Goals() store.GoalStore               { return s.goals }
func (s *Store) Cards() store.CardStore               { return s.cards }

func (s *Store) Revision() uint64 { return s.revision.Load() }

func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, name := range []string{"transactions", "accounts", "goals", "cards"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+name); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	s.revision.Add(1)
	s.logger.InfoContext(ctx, "SQLite store reset", log.FieldOperation, log.OpReset)
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// table maps one record type onto one SQL table. The seq column keeps
// insertion order; ids are opaque strings.
type table[T any] struct {
	s       *Store
	kind    string
	name    string
	columns []string
	desc    bool
	id      func(T) string
	withID  func(T, string) T
	values  func(T) []any
	scan    func(scanner) (T, error)
}

func (t *table[T]) Create(ctx context.Context, item T) (T, error) {
	item = t.withID(item, t.s.newID())
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)+1), ", ")
	query := fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), placeholders)

	args := append([]any{t.id(item)}, t.values(item)...)
	if _, err := t.s.db.ExecContext(ctx, query, args...); err != nil {
		var zero T
		return zero, fmt.Errorf("create %s: %w", t.kind, err)
	}
	t.s.revision.Add(1)
	t.s.logger.DebugContext(ctx, "Record saved to SQLite", log.FieldEntity, t.kind, log.FieldEntityID, t.id(item))
	return item, nil
}

func (t *table[T]) Update(ctx context.Context, item T) (T, error) {
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(sets, ", "))

	args := append(t.values(item), t.id(item))
	res, err := t.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("update %s: %w", t.kind, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var zero T
		return zero, fmt.Errorf("update %s %q: %w", t.kind, t.id(item), store.ErrNotFound)
	}
	t.s.revision.Add(1)
	return item, nil
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	res, err := t.s.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.kind, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %s %q: %w", t.kind, id, store.ErrNotFound)
	}
	t.s.revision.Add(1)
	return nil
}

func (t *table[T]) Get(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf("SELECT id, %s FROM %s WHERE id = ?", strings.Join(t.columns, ", "), t.name)
	item, err := t.scan(t.s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, fmt.Errorf("get %s %q: %w", t.kind, id, store.ErrNotFound)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %s: %w", t.kind, err)
	}
	return item, nil
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	order := "seq ASC"
	if t.desc {
		order = "seq DESC"
	}
	query := fmt.Sprintf("SELECT id, %s FROM %s ORDER BY %s", strings.Join(t.columns, ", "), t.name, order)

	rows, err := t.s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.kind, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.kind, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.kind, err)
	}
	return out, nil
}
