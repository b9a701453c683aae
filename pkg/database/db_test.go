package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/marigold/pkg/database"
	"github.com/Ramsey-B/marigold/pkg/database/dbtest"
	"github.com/Ramsey-B/marigold/pkg/logging"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:/data/celebrities.db?_busy_timeout=5000&mode=ro", database.DSN("/data/celebrities.db", true, 5000))
	assert.Equal(t, "file:celebrities.db?mode=rwc", database.DSN("celebrities.db", false, 0))
}

func TestSelect(t *testing.T) {
	path := dbtest.NewFile(t,
		dbtest.Person{ID: "Ada_Lovelace", Name: "Ada Lovelace", BirthDate: "1815-12-10"},
		dbtest.Person{ID: "Alan_Turing", Name: "Alan Turing", BirthDate: "1912-06-23"},
	)
	store := dbtest.Open(t, path)

	var names []string
	err := store.Select(context.Background(), &names, "SELECT name FROM celebrities ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, names)
}

func TestSelect_ClosesHandleAfterEachCall(t *testing.T) {
	store, err := database.Open(database.Config{Path: dbtest.NewFile(t), ReadOnly: true, MaxOpenConns: 2}, logging.Nop())
	require.NoError(t, err)
	defer store.Close()

	for range 3 {
		var names []string
		require.NoError(t, store.Select(context.Background(), &names, "SELECT name FROM celebrities"))
		assert.Zero(t, store.Stats().Idle)
	}
}

func TestSelect_PreparationFailure(t *testing.T) {
	store := dbtest.Open(t, dbtest.NewFile(t))

	var names []string
	err := store.Select(context.Background(), &names, "SELECT nope FROM missing_table")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrQueryPreparationFailed)
	assert.NotErrorIs(t, err, database.ErrStoreUnavailable)
}

func TestSelect_StoreUnavailable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.db")
	store, err := database.Open(database.Config{Path: missing, ReadOnly: true}, logging.Nop())
	require.NoError(t, err)
	defer store.Close()

	var names []string
	err = store.Select(context.Background(), &names, "SELECT name FROM celebrities")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrStoreUnavailable)

	assert.ErrorIs(t, store.PingContext(context.Background()), database.ErrStoreUnavailable)
}

func TestReadOnlyStoreRejectsWrites(t *testing.T) {
	store := dbtest.Open(t, dbtest.NewFile(t))

	_, err := store.ExecContext(context.Background(), "INSERT INTO celebrities (person_id, name) VALUES ('x', 'x')")
	assert.Error(t, err)
}

func TestLatestVersion(t *testing.T) {
	latest, err := database.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(3), latest)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	path := dbtest.NewFile(t)

	rw, err := database.Open(database.Config{Path: path}, logging.Nop())
	require.NoError(t, err)
	defer rw.Close()

	svc := database.NewMigrationService(logging.Nop(), &database.MigrationConfig{})
	assert.NoError(t, svc.Migrate(rw.DB.DB))
}

func TestMigrate_StopsAtTargetVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.db")
	rw, err := database.Open(database.Config{Path: path}, logging.Nop())
	require.NoError(t, err)
	defer rw.Close()

	svc := database.NewMigrationService(logging.Nop(), &database.MigrationConfig{Version: 1})
	require.NoError(t, svc.Migrate(rw.DB.DB))

	var tables []string
	require.NoError(t, rw.SelectContext(context.Background(), &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' ORDER BY name`))
	assert.Equal(t, []string{"celebrities"}, tables)
}
