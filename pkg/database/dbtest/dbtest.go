// Package dbtest builds throwaway celebrity databases for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/marigold/pkg/database"
	"github.com/Ramsey-B/marigold/pkg/logging"
)

type Person struct {
	ID          string
	Name        string
	BirthName   string
	BirthDate   string
	BirthPlace  string
	Occupations []string
	// Relationships adds one relationships row per entry.
	Relationships []Relationship
}

type Relationship struct {
	Spouse      string
	Partner     string
	NumChildren string
}

// NewFile migrates a fresh database file in t.TempDir, inserts people and
// returns the file path. The writable handle is closed before returning.
func NewFile(t testing.TB, people ...Person) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "celebrities.db")
	db, err := sqlx.Open(database.DriverName, database.DSN(path, false, 0))
	require.NoError(t, err)
	defer db.Close()

	svc := database.NewMigrationService(logging.Nop(), &database.MigrationConfig{})
	require.NoError(t, svc.Migrate(db.DB))

	for _, p := range people {
		insert(t, db, "celebrities",
			[]string{"person_id", "name", "birth_name", "birth_date", "birth_place"},
			p.ID, p.Name, nullable(p.BirthName), nullable(p.BirthDate), nullable(p.BirthPlace))

		for _, occupation := range p.Occupations {
			insert(t, db, "occupations", []string{"person_id", "occupation"}, p.ID, occupation)
		}

		for _, r := range p.Relationships {
			insert(t, db, "relationships",
				[]string{"person_id", "spouse", "partner", "num_children"},
				p.ID, nullable(r.Spouse), nullable(r.Partner), nullable(r.NumChildren))
		}
	}

	return path
}

// Open returns a read-only store over a file built by NewFile.
func Open(t testing.TB, path string) *database.DatabaseInstance {
	t.Helper()

	store, err := database.Open(database.Config{Path: path, ReadOnly: true, MaxOpenConns: 2}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func insert(t testing.TB, db *sqlx.DB, table string, cols []string, values ...any) {
	t.Helper()

	ib := database.Flavor.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols(cols...)
	ib.Values(values...)

	query, args := ib.Build()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}

// empty strings are stored as NULL, the way the loader leaves missing infobox fields
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
