package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schooladmin/internal/db"
)

// PostgresStore is the Store backed by PostgreSQL.
type PostgresStore struct {
	database *db.PostgresDB // nil inside a transaction
	q        DBTX

	students *studentRepository
	fees     *feeRepository
	events   *feeEventRepository
}

// NewPostgresStore creates a Store using the database pool.
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return newPostgresStore(database, database.Pool)
}

func newPostgresStore(database *db.PostgresDB, q DBTX) *PostgresStore {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return &PostgresStore{
		database: database,
		q:        q,
		students: &studentRepository{db: q, sb: sb},
		fees:     &feeRepository{db: q, sb: sb},
		events:   &feeEventRepository{db: q, sb: sb},
	}
}

func (s *PostgresStore) Students() StudentRepository { return s.students }
func (s *PostgresStore) Fees() FeeRepository         { return s.fees }
func (s *PostgresStore) Events() FeeEventRepository  { return s.events }

// WithTx runs fn inside a database transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.database == nil {
		return fn(s)
	}
	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(newPostgresStore(nil, tx))
	})
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.database == nil {
		return errors.New("ping is not available inside a transaction")
	}
	return s.database.Pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.database != nil {
		s.database.Close()
	}
}
