package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"print-timesheet/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator wraps golang-migrate for one store. Schema changes only ever go
// through the numbered files under migrations/<driver>.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// NewMigrator binds the embedded migrations of driver to db.
func NewMigrator(db *sql.DB, driver string, logger *zap.Logger) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var dbDriver migratedb.Driver
	switch driver {
	case config.DriverPostgres:
		dbDriver, err = postgres.WithInstance(db, &postgres.Config{})
	case config.DriverMySQL:
		dbDriver, err = mysql.WithInstance(db, &mysql.Config{})
	case config.DriverSQLite:
		dbDriver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	mg.logVersion()
	return nil
}

// Down rolls back steps migrations.
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("migrate down: steps must be positive")
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	mg.logVersion()
	return nil
}

// Version reports the applied version; 0 means no migration has run.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (mg *Migrator) logVersion() {
	version, dirty, _ := mg.Version()
	if dirty {
		mg.logger.Warn("schema is dirty", zap.Uint("version", version))
		return
	}
	mg.logger.Info("schema migrated", zap.Uint("version", version))
}

// RunMigrations applies pending migrations; used by the server when
// db.auto_migrate is set.
func RunMigrations(db *sql.DB, driver string, logger *zap.Logger) error {
	mg, err := NewMigrator(db, driver, logger)
	if err != nil {
		return err
	}
	return mg.Up()
}
