package database

import (
	"fmt"

	"github.com/huandu/go-sqlbuilder"
)

// Flavor is the placeholder dialect of every statement built for the store.
var Flavor = sqlbuilder.SQLite

type SelectBuilder struct {
	*sqlbuilder.SelectBuilder
}

// NewSelectBuilder creates a select builder using the SQLite flavor
func NewSelectBuilder() *SelectBuilder {
	return &SelectBuilder{Flavor.NewSelectBuilder()}
}

// Coalesce renders COALESCE(column, '') so NULL text columns scan into plain strings.
func Coalesce(column, alias string) string {
	return fmt.Sprintf("COALESCE(%s, '') AS %s", column, alias)
}

// Year renders the 4-digit year of a 'YYYY-MM-DD' text column.
func Year(column string) string {
	return fmt.Sprintf("strftime('%%Y', %s)", column)
}

// IntegerYear is Year cast to INTEGER for range comparisons.
func IntegerYear(column string) string {
	return fmt.Sprintf("CAST(%s AS INTEGER)", Year(column))
}

// Integer casts a text column holding a count.
func Integer(column string) string {
	return fmt.Sprintf("CAST(%s AS INTEGER)", column)
}

// NotBlank is true when a nullable text column holds something other than ''.
func NotBlank(column string) string {
	return fmt.Sprintf("COALESCE(%s, '') <> ''", column)
}
