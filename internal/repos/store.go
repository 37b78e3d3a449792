package repos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx, so every repo can run
// inside or outside a transaction.
type Queryer = sqlx.ExtContext

// Store bundles the repos over one database handle.
type Store struct {
	db   *sqlx.DB
	inTx bool

	Menu     *MenuRepo
	Carts    *CartRepo
	Orders   *OrderRepo
	Tables   *TableRepo
	Payments *PaymentRepo
}

func NewStore(db *sqlx.DB) *Store { return bind(db, db, false) }

func bind(db *sqlx.DB, q Queryer, inTx bool) *Store {
	return &Store{
		db:       db,
		inTx:     inTx,
		Menu:     NewMenuRepo(q),
		Carts:    NewCartRepo(q),
		Orders:   NewOrderRepo(q),
		Tables:   NewTableRepo(q),
		Payments: NewPaymentRepo(q),
	}
}

// InTx runs fn against a Store bound to a single transaction. fn must only use
// the Store it is handed; the pool holds one connection and the outer handle
// would block until the transaction ends. Nested calls reuse the open tx.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(bind(s.db, tx, true)); err != nil {
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}

// mustAffect turns a zero-row write into notFound.
func mustAffect(res sql.Result, err error, notFound error, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
