package celebrity

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/marigold/pkg/database"
	"github.com/Ramsey-B/marigold/pkg/metrics"
	"github.com/Ramsey-B/marigold/pkg/models"
	"github.com/Ramsey-B/marigold/pkg/search"
	"github.com/Ramsey-B/marigold/pkg/tracing"
)

// CelebrityRepository runs the four filtered searches. Every method returns
// search.ErrNoFilters when its filter is empty and a *search.FilterError when
// a filter value is malformed; neither touches the store.
type CelebrityRepository interface {
	SearchByName(ctx context.Context, filter models.NameFilter) ([]models.Celebrity, error)
	SearchByAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.CelebrityOccupation, error)
	Matchmaking(ctx context.Context, filter models.MatchFilter) ([]string, error)
	Relationships(ctx context.Context, filter models.RelationshipFilter) ([]models.Relationship, error)
}

// Repository implements CelebrityRepository
type Repository struct {
	db     database.Store
	logger ectologger.Logger
	now    func() time.Time
}

// NewRepository creates a new celebrity repository
func NewRepository(db database.Store, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to turn age ranges into birth years.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

const (
	celebritiesTable   = "celebrities c"
	occupationsTable   = "occupations o"
	relationshipsTable = "relationships r"
	onOccupation       = "c.person_id = o.person_id"
	onRelationship     = "c.person_id = r.person_id"
)

// SearchByName returns up to ten people whose name contains the search text
func (r *Repository) SearchByName(ctx context.Context, filter models.NameFilter) ([]models.Celebrity, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.SearchByName")
	defer span.End()

	q := search.NewQuery(celebritiesTable,
		"c.person_id",
		database.Coalesce("c.name", "name"),
		database.Coalesce("c.birth_name", "birth_name"),
		database.Coalesce("c.birth_date", "birth_date"),
		database.Coalesce("c.birth_place", "birth_place"),
	).
		Contains("c.name", filter.Search).
		OrderBy("c.name")

	var rows []models.Celebrity
	if err := r.run(ctx, "name", q, &rows); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return rows, nil
}

// SearchByAttributes returns one row per person and occupation matching the birth and occupation filters
func (r *Repository) SearchByAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.CelebrityOccupation, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.SearchByAttributes")
	defer span.End()

	year, err := search.ParseYear("birthYear", filter.BirthYear)
	if err != nil {
		return nil, err
	}

	q := search.NewQuery(celebritiesTable,
		database.Coalesce("c.name", "name"),
		database.Coalesce("c.birth_date", "birth_date"),
		database.Coalesce("c.birth_place", "birth_place"),
		database.Coalesce("o.occupation", "occupation"),
	).
		LeftJoin(occupationsTable, onOccupation).
		YearEquals("c.birth_date", year).
		Contains("c.birth_place", filter.BirthPlace).
		Contains("o.occupation", filter.Occupation).
		OrderBy("c.name", "o.occupation")

	var rows []models.CelebrityOccupation
	if err := r.run(ctx, "attributes", q, &rows); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return rows, nil
}

// Matchmaking returns distinct names only.
func (r *Repository) Matchmaking(ctx context.Context, filter models.MatchFilter) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.Matchmaking")
	defer span.End()

	ages, err := search.ParseAgeRange("age_range", filter.AgeRange)
	if err != nil {
		return nil, err
	}
	children, err := search.ParseCount("children", filter.Children)
	if err != nil {
		return nil, err
	}

	q := search.NewQuery(celebritiesTable, database.Coalesce("c.name", "name")).
		Distinct().
		LeftJoin(occupationsTable, onOccupation).
		LeftJoin(relationshipsTable, onRelationship).
		Contains("o.occupation", filter.Occupation).
		Contains("c.birth_place", filter.BirthPlace).
		AgeBetween("c.birth_date", ages, r.now().Year()).
		CountMatches("r.num_children", children).
		OrderBy("name")

	var names []string
	if err := r.run(ctx, "matchmaking", q, &names); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return names, nil
}

// Relationships returns rows with at least one spouse or partner.
func (r *Repository) Relationships(ctx context.Context, filter models.RelationshipFilter) ([]models.Relationship, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.Relationships")
	defer span.End()

	q := search.NewQuery(celebritiesTable,
		database.Coalesce("c.name", "name"),
		database.Coalesce("r.spouse", "spouse"),
		database.Coalesce("r.partner", "partner"),
	).
		LeftJoin(relationshipsTable, onRelationship).
		Contains("c.name", filter.CelebrityName).
		Require("(" + database.NotBlank("r.spouse") + " OR " + database.NotBlank("r.partner") + ")").
		OrderBy("c.name")

	var rows []models.Relationship
	if err := r.run(ctx, "relationships", q, &rows); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return rows, nil
}

// run skips queries without a user filter, otherwise executes q into dest.
func (r *Repository) run(ctx context.Context, name string, q *search.Query, dest any) error {
	if !q.Filtered() {
		metrics.RecordSkippedSearch(name)
		return search.ErrNoFilters
	}

	query, args := q.Build()

	start := time.Now()
	err := r.db.Select(ctx, dest, query, args...)
	metrics.RecordQuery(name, err, time.Since(start))
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("search", name).Error("failed to run search")
		return err
	}

	rows := resultCount(dest)
	metrics.RecordSearch(name, rows)
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"search": name,
		"rows":   rows,
	}).Debug("search completed")
	return nil
}

func resultCount(dest any) int {
	switch v := dest.(type) {
	case *[]models.Celebrity:
		return len(*v)
	case *[]models.CelebrityOccupation:
		return len(*v)
	case *[]models.Relationship:
		return len(*v)
	case *[]string:
		return len(*v)
	}
	return 0
}
