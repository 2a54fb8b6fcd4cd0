package store

import (
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

func prepare(dialect string) (string, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return "", errors.Wrapf(err, "set goose dialect %q", dialect)
	}
	switch dialect {
	case DialectPostgres:
		return "migrations/postgres", nil
	case DialectSQLite:
		return "migrations/sqlite", nil
	}
	return "", errors.Errorf("unsupported dialect %q", dialect)
}

// Migrate applies every pending migration.
func Migrate(db *sql.DB, dialect string) error {
	dir, err := prepare(dialect)
	if err != nil {
		return err
	}
	return errors.Wrap(goose.Up(db, dir), "apply migrations")
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB, dialect string) error {
	dir, err := prepare(dialect)
	if err != nil {
		return err
	}
	return errors.Wrap(goose.Down(db, dir), "roll back migration")
}

// MigrationVersion returns the current schema version.
func MigrationVersion(db *sql.DB, dialect string) (int64, error) {
	if _, err := prepare(dialect); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	return v, errors.Wrap(err, "read schema version")
}
