// Package postgres implements store.Store on top of a pgx connection pool.
package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pkg/errors"

	"musix/store"
)

// Store is a postgres backed store.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at dsn. maxConns <= 0 keeps the pgx default.
func Open(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return &Store{pool: pool}, nil
}

// Migrate runs the embedded goose migrations over a stdlib handle that
// shares the pool's connection settings.
func (s *Store) Migrate() error {
	db := s.sqlDB()
	defer db.Close()
	return store.Migrate(db, store.DialectPostgres)
}

// MigrateDown rolls back the latest migration.
func (s *Store) MigrateDown() error {
	db := s.sqlDB()
	defer db.Close()
	return store.MigrateDown(db, store.DialectPostgres)
}

// MigrationVersion reports the applied schema version.
func (s *Store) MigrationVersion() (int64, error) {
	db := s.sqlDB()
	defer db.Close()
	return store.MigrationVersion(db, store.DialectPostgres)
}

func (s *Store) sqlDB() *sql.DB {
	return stdlib.OpenDB(*s.pool.Config().ConnConfig)
}

func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.pool.Ping(ctx), "ping database")
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit transaction")
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
