package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/marigold/pkg/database"
	"github.com/Ramsey-B/marigold/pkg/forms"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := rootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "celebrities.db")

	_, err := execute(t, "--db", path, "migrate")
	require.NoError(t, err)

	db, err := sqlx.Open(database.DriverName, database.DSN(path, true, 0))
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	assert.Contains(t, tables, "celebrities")
	assert.Contains(t, tables, "occupations")
	assert.Contains(t, tables, "relationships")
}

func TestSearchCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "John", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<div><h3>John Smith</h3></div>"))
	}))
	defer srv.Close()

	out, err := execute(t, "search", "name", "--url", srv.URL, "--set", "search=John")
	require.NoError(t, err)
	assert.Contains(t, out, "John Smith")
	assert.NotContains(t, out, "<h3>")

	out, err = execute(t, "search", "name", "--url", srv.URL, "--set", "search=John", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "<h3>John Smith</h3>")
}

func TestSearchCommand_Validation(t *testing.T) {
	_, err := execute(t, "search", "matchmaking", "--url", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Equal(t, forms.MatchmakingForm.ValidationMessage, err.Error())
}

func TestSearchCommand_UnknownForm(t *testing.T) {
	_, err := execute(t, "search", "nope")
	assert.Error(t, err)
}
