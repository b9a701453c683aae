package database

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	pkgerrors "github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationDir = "migrations"

// migrateLogger routes golang-migrate output through ectologger.
type migrateLogger struct {
	ectologger.Logger
}

func (l migrateLogger) Verbose() bool { return false }

func (l migrateLogger) Printf(format string, v ...any) {
	l.Infof(strings.TrimSuffix(format, "\n"), v...)
}

type MigrationConfig struct {
	// Version is the target version; zero applies everything.
	Version uint
	// Force marks the schema as being at this version before migrating.
	Force int
	// AutoRollback forces a dirty schema back to the version it had before the failed run.
	AutoRollback bool
}

// MigrationService creates the celebrity schema. The server itself never
// writes; this exists so a fresh file can be bootstrapped.
type MigrationService struct {
	config *MigrationConfig
	logger ectologger.Logger
}

// NewMigrationService creates a new migration service. A nil config applies every migration
func NewMigrationService(logger ectologger.Logger, config *MigrationConfig) *MigrationService {
	if config == nil {
		config = &MigrationConfig{}
	}
	return &MigrationService{config: config, logger: logger}
}

func embeddedSource() (source.Driver, error) {
	src, err := iofs.New(migrationFiles, migrationDir)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open embedded migrations")
	}
	return src, nil
}

// Migrate applies the embedded migrations to a writable connection. db is
// left open for the caller.
func (ms *MigrationService) Migrate(db *sql.DB) error {
	src, err := embeddedSource()
	if err != nil {
		return err
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create sqlite3 migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, DriverName, driver)
	if err != nil {
		ms.logger.WithError(err).Error("Failed to create migrate instance")
		return err
	}
	m.Log = migrateLogger{Logger: ms.logger}

	if ms.config.Force != 0 {
		if err := m.Force(ms.config.Force); err != nil {
			ms.logger.WithError(err).Errorf("Failed to force schema to version %d", ms.config.Force)
			return err
		}
	}

	before, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return pkgerrors.Wrap(err, "failed to read schema version")
	}

	start := time.Now()
	if ms.config.Version != 0 {
		err = m.Migrate(ms.config.Version)
	} else {
		err = m.Up()
	}

	switch {
	case err == nil:
		after, _, _ := m.Version()
		ms.logger.Infof("Schema migrated from version %d to %d in %v", before, after, time.Since(start))
		return nil
	case errors.Is(err, migrate.ErrNoChange):
		ms.logger.Infof("Schema already at version %d", before)
		return nil
	}

	return ms.recoverFailed(m, err, before)
}

// recoverFailed handles a failed run. A schema newer than the binary is pinned to
// the latest embedded version; a dirty schema is optionally forced back.
func (ms *MigrationService) recoverFailed(m *migrate.Migrate, cause error, before uint) error {
	if strings.Contains(cause.Error(), "no migration found for version") {
		latest, err := LatestVersion()
		if err != nil {
			return err
		}
		ms.logger.Warnf("No migration found for version %d. Forcing latest embedded version %d", before, latest)
		return m.Force(int(latest))
	}

	ms.logger.WithError(cause).Error("Migration failed")

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return cause
	}
	if !dirty || !ms.config.AutoRollback {
		ms.logger.Errorf("Schema left at version %d (dirty=%t)", version, dirty)
		return cause
	}

	target := before
	if target == 0 && version > 0 {
		target = version - 1
	}
	ms.logger.Warnf("Schema is dirty at version %d. Reverting to version %d", version, target)
	if err := m.Force(int(target)); err != nil {
		ms.logger.WithError(err).Errorf("Failed to force schema to version %d", target)
		return err
	}
	return cause
}

// LatestVersion is the highest up migration embedded in the binary.
func LatestVersion() (uint, error) {
	src, err := embeddedSource()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		return 0, pkgerrors.Wrap(err, "no embedded migrations")
	}
	for {
		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			return version, nil
		}
		if err != nil {
			return 0, err
		}
		version = next
	}
}
