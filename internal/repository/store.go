package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store groups the complaint repositories behind one transaction boundary.
type Store interface {
	Complaints() ComplaintRepository
	History() ComplaintHistoryRepository
	// WithinTx runs fn against repositories bound to a single transaction,
	// committing when fn returns nil and rolling back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type pgStore struct {
	db DBTX
}

// NewStore returns a Postgres-backed store.
func NewStore(db DBTX) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Complaints() ComplaintRepository {
	return NewComplaintRepository(s.db)
}

func (s *pgStore) History() ComplaintHistoryRepository {
	return NewComplaintHistoryRepository(s.db)
}

func (s *pgStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&pgStore{db: tx})
	})
}
