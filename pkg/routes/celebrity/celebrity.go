package celebrity

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/marigold/internal/repositories/celebrity"
	"github.com/Ramsey-B/marigold/pkg/database"
	"github.com/Ramsey-B/marigold/pkg/fragments"
	"github.com/Ramsey-B/marigold/pkg/models"
	"github.com/Ramsey-B/marigold/pkg/search"
	"github.com/Ramsey-B/marigold/pkg/tracing"
	"github.com/Ramsey-B/marigold/pkg/utils"
)

// Register registers the fragment routes. e.Renderer must be a
// *fragments.Renderer and the request context must carry a container holding
// a celebrity.CelebrityRepository.
func Register(e *echo.Echo) {
	e.GET("/search", SearchByName)
	e.GET("/celebrities", SearchByAttributes)
	e.GET("/matchmaking", Matchmaking)
	e.GET("/relationships", Relationships)
}

// SearchByName handles GET /search
func SearchByName(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "celebrity_handler.SearchByName")
	defer span.End()

	filter, err := utils.BindRequest[models.NameFilter](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[celebrity.CelebrityRepository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	rows, err := repo.SearchByName(ctx, filter)
	return respond(c, fragments.NameResults, rows, err)
}

// SearchByAttributes handles GET /celebrities
func SearchByAttributes(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "celebrity_handler.SearchByAttributes")
	defer span.End()

	filter, err := utils.BindRequest[models.AttributeFilter](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[celebrity.CelebrityRepository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	rows, err := repo.SearchByAttributes(ctx, filter)
	return respond(c, fragments.AttributeResults, rows, err)
}

// Matchmaking handles GET /matchmaking
func Matchmaking(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "celebrity_handler.Matchmaking")
	defer span.End()

	filter, err := utils.BindRequest[models.MatchFilter](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[celebrity.CelebrityRepository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	names, err := repo.Matchmaking(ctx, filter)
	return respond(c, fragments.MatchResults, names, err)
}

// Relationships handles GET /relationships
func Relationships(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "celebrity_handler.Relationships")
	defer span.End()

	filter, err := utils.BindRequest[models.RelationshipFilter](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[celebrity.CelebrityRepository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	rows, err := repo.Relationships(ctx, filter)
	return respond(c, fragments.RelationshipResults, rows, err)
}

// respond renders rows into the named fragment, or turns err into the status
// the error handler renders. A skipped search is an empty 200.
func respond(c echo.Context, name string, rows any, err error) error {
	if err != nil {
		if errors.Is(err, search.ErrNoFilters) {
			return c.HTML(http.StatusOK, "")
		}
		return toHTTPError(err)
	}
	return c.Render(http.StatusOK, name, rows)
}

func toHTTPError(err error) error {
	var fe *search.FilterError
	switch {
	case errors.As(err, &fe):
		return httperror.NewHTTPError(http.StatusBadRequest, fe.Error())
	case errors.Is(err, database.ErrStoreUnavailable):
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "The celebrity database is unavailable. Please try again later.")
	case errors.Is(err, database.ErrQueryPreparationFailed):
		return httperror.NewHTTPError(http.StatusInternalServerError, "The search could not be prepared.")
	case errors.Is(err, database.ErrQueryFailed):
		return httperror.NewHTTPError(http.StatusInternalServerError, "The search failed.")
	default:
		return httperror.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
