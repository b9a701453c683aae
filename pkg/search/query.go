package search

import (
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/marigold/pkg/database"
)

// MaxResults caps every search.
const MaxResults = 10

// Query assembles "SELECT ... WHERE 1=1" plus one AND predicate per present
// filter. Filter values are always bound, never inlined.
type Query struct {
	sb      *database.SelectBuilder
	filters int
	orderBy []string
}

// NewQuery starts a SELECT over the given table with an always-true WHERE
func NewQuery(from string, columns ...string) *Query {
	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(from)
	sb.Where("1=1")
	return &Query{sb: sb}
}

// Distinct selects distinct rows
func (q *Query) Distinct() *Query {
	q.sb.Distinct()
	return q
}

// LeftJoin adds a LEFT JOIN on table
func (q *Query) LeftJoin(table string, on ...string) *Query {
	q.sb.JoinWithOption(sqlbuilder.LeftJoin, table, on...)
	return q
}

// OrderBy sets the result order
func (q *Query) OrderBy(columns ...string) *Query {
	q.orderBy = append(q.orderBy, columns...)
	return q
}

// Contains adds "column LIKE %value%". Blank values add nothing.
func (q *Query) Contains(column, value string) *Query {
	value = strings.TrimSpace(value)
	if value == "" {
		return q
	}
	q.sb.Where(q.sb.Like(column, "%"+value+"%"))
	q.filters++
	return q
}

// YearEquals compares the year of a date column to a 4-digit year.
func (q *Query) YearEquals(column, year string) *Query {
	if year == "" {
		return q
	}
	q.sb.Where(q.sb.Equal(database.Year(column), year))
	q.filters++
	return q
}

// AgeBetween restricts a birth date column to the birth years of r at currentYear.
func (q *Query) AgeBetween(column string, r *AgeRange, currentYear int) *Query {
	if r == nil {
		return q
	}
	earliest, latest := r.BirthYears(currentYear)
	year := database.IntegerYear(column)
	if r.Open {
		q.sb.Where(q.sb.LessEqualThan(year, latest))
	} else {
		q.sb.Where(q.sb.Between(year, earliest, latest))
	}
	q.filters++
	return q
}

// CountMatches compares an integer-valued text column to c.
func (q *Query) CountMatches(column string, c *Count) *Query {
	if c == nil {
		return q
	}
	n := database.Integer(column)
	if c.AtLeast {
		q.sb.Where(q.sb.GreaterEqualThan(n, c.N))
	} else {
		q.sb.Where(q.sb.Equal(n, c.N))
	}
	q.filters++
	return q
}

// Require adds a fixed predicate that does not count as a user filter.
func (q *Query) Require(expr ...string) *Query {
	q.sb.Where(expr...)
	return q
}

// Filtered reports whether at least one user filter was applied.
func (q *Query) Filtered() bool {
	return q.filters > 0
}

// Build renders the statement with its ordering and the result cap.
func (q *Query) Build() (string, []any) {
	if len(q.orderBy) > 0 {
		q.sb.OrderBy(q.orderBy...)
	}
	q.sb.Limit(MaxResults)
	return q.sb.Build()
}
