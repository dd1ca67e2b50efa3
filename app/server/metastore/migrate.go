package metastore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrator: %w", err)
	}

	return m, nil
}

// Migrate brings the catalog schema up to date. It is retried with
// exponential backoff because the catalog database may still be starting
// when the coordinator comes up.
func Migrate(ctx context.Context, logger *zap.Logger, db *sql.DB) error {
	op := func() error {
		m, err := newMigrator(db)
		if err != nil {
			return err
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", err)
		}

		return nil
	}

	notify := func(err error, _ time.Duration) {
		logger.Warn("catalog migration attempt failed", zap.Error(err))
	}

	b := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return fmt.Errorf("migrate catalog schema: %w", err)
	}

	version, dirty, err := migrationVersion(db)
	if err != nil {
		return err
	}

	logger.Info("catalog schema is up to date",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)

	return nil
}

func migrationVersion(db *sql.DB) (uint, bool, error) {
	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}

	return version, dirty, nil
}
