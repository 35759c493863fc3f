// Package storage implements the clinic Store on Postgres via pgx. Each
// InTx call runs against a single pgx transaction; constraint violations and
// missing rows are translated to apperr kinds at this boundary.
package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/libs/db"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/clinic"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/outbox"
)

type DB struct {
	pool       *db.Pool
	outboxRepo *outbox.Repository
}

func NewDB(pool *db.Pool, outboxRepo *outbox.Repository) *DB {
	return &DB{pool: pool, outboxRepo: outboxRepo}
}

func (d *DB) InTx(ctx context.Context, fn func(clinic.Store) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txStore{tx: tx, outboxRepo: d.outboxRepo}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// txStore is a Store bound to one transaction.
type txStore struct {
	tx         pgx.Tx
	outboxRepo *outbox.Repository
}

var _ clinic.Store = (*txStore)(nil)

func (s *txStore) AppendEvent(ctx context.Context, evt outbox.Event) error {
	return s.outboxRepo.Insert(ctx, s.tx, evt)
}

// uniqueViolation returns the violated constraint name for a 23505 error.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("%s", msg)
	}
	return err
}
