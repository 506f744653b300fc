package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// querier is the subset of *sql.DB and *sql.Tx used by the repositories.
// Every repository is bound to one querier, so the same code runs inside
// and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos bundles one instance of every repository bound to the same
// querier.  Values obtained inside Store.WithTx must not escape the
// callback.
type Repos struct {
	Users     UserRepository
	Venues    VenueRepository
	Events    EventRepository
	Rooms     RoomRepository
	Sessions  SessionRepository
	Attendees AttendeeRepository
	Budgets   BudgetRepository
}

// Store is the unit-of-work boundary used by the services.  Repos returns
// repositories that run each statement on its own; WithTx runs fn inside
// a single transaction that is committed when fn returns nil and rolled
// back otherwise.
type Store interface {
	Repos() Repos
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

// SQLStore implements Store on top of a MySQL *sql.DB.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a Store bound to db.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// DB exposes the underlying pool for health checks.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Repos returns repositories bound to the connection pool.
func (s *SQLStore) Repos() Repos { return reposFor(s.db) }

// WithTx begins a transaction, hands fn a set of repositories bound to it
// and resolves the transaction from fn's result.  A panic inside fn rolls
// back before propagating.
func (s *SQLStore) WithTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

func reposFor(q querier) Repos {
	return Repos{
		Users:     &UserRepo{q: q},
		Venues:    &VenueRepo{q: q},
		Events:    &EventRepo{q: q},
		Rooms:     &RoomRepo{q: q},
		Sessions:  &SessionRepo{q: q},
		Attendees: &AttendeeRepo{q: q},
		Budgets:   &BudgetRepo{q: q},
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullUint64(p *uint64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func uint64Ptr(n sql.NullInt64) *uint64 {
	if !n.Valid {
		return nil
	}
	v := uint64(n.Int64)
	return &v
}
