package postgres

import (
	"context"
	"fmt"

	"marketplace-api/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements storage.Store on top of a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	db   Querier
	inTx bool
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Profiles() storage.ProfileRepository         { return &ProfileRepo{db: s.db} }
func (s *Store) Jobs() storage.JobRepository                 { return &JobRepo{db: s.db} }
func (s *Store) Applications() storage.ApplicationRepository { return &ApplicationRepo{db: s.db} }
func (s *Store) Payments() storage.PaymentRepository         { return &PaymentRepo{db: s.db} }
func (s *Store) Credentials() storage.CredentialRepository   { return &CredentialRepo{db: s.db} }

// WithinTx runs fn in a transaction. The acting profile is published as the transaction-local
// setting app.profile_id, which the row-level security policies read. Nested calls reuse the
// outer transaction.
func (s *Store) WithinTx(ctx context.Context, actorID uuid.UUID, fn func(tx storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	var fnErr error
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if actorID != uuid.Nil {
			if _, err := tx.Exec(ctx, `SELECT set_config('app.profile_id', $1, true)`, actorID.String()); err != nil {
				fnErr = classifyError("set actor", err)
				return fnErr
			}
		}
		fnErr = fn(&Store{pool: s.pool, db: tx, inTx: true})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return classifyError("transaction", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %v: %w", err, storage.ErrUnavailable)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}
