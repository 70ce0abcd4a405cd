package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/domain"
	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/interface-adapter/response"
	"github.com/kanehiroyuu/hero-tour/internal/usecase"
)

// HeroHandler handles hero-related HTTP requests
type HeroHandler struct{}

// NewHeroHandler creates a new HeroHandler
func NewHeroHandler() *HeroHandler {
	return &HeroHandler{}
}

// CreateHeroRequest represents the request body for creating a hero. Any id
// sent by the client is ignored.
type CreateHeroRequest struct {
	Name string `json:"name"`
}

// interactor returns the HeroUseCase set by the interactor middleware, or
// builds one from the repository locator
func interactor(ctx context.Context) *usecase.HeroUseCase {
	if uc, ok := appcontext.GetInteractor(ctx).(*usecase.HeroUseCase); ok {
		return uc
	}
	uc := &usecase.HeroUseCase{Logger: appcontext.GetLogger(ctx)}
	if locator := appcontext.GetRepoLocator(ctx); locator != nil {
		uc.RHero = locator.RHero()
	}
	return uc
}

func startSpan(c echo.Context, operationName string) (tracer.Span, context.Context) {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), operationName)
	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)
	span.SetTag("http.user_agent", c.Request().UserAgent())
	return span, ctx
}

// respondError maps use case errors onto problem documents
func respondError(ctx context.Context, c echo.Context, span tracer.Span, message string, err error, extra map[string]interface{}) error {
	logging.LogErrorWithTrace(ctx, appcontext.GetLogger(ctx), "handler", message, err, nil)
	span.SetTag("error", true)
	span.SetTag("error.msg", err.Error())

	var problem response.ProblemDetail
	switch {
	case errors.Is(err, domain.ErrHeroNotFound):
		problem = response.NewNotFoundProblem("Hero with the specified ID does not exist", c.Request().URL.Path)
	case errors.Is(err, usecase.ErrInvalidHero):
		problem = response.NewValidationErrorProblem(err.Error(), c.Request().URL.Path)
	default:
		problem = response.NewInternalErrorProblem(message, c.Request().URL.Path, true)
		problem.Extra["error"] = err.Error()
	}
	for k, v := range extra {
		problem.Extra[k] = v
	}

	return response.RespondProblemWithTrace(ctx, c.Response(), problem)
}

// parseID reads the :id path parameter, answering 400 when it is not a positive integer
func parseID(ctx context.Context, c echo.Context, span tracer.Span) (int, bool, error) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		span.SetTag("error", true)
		span.SetTag("error.msg", "Invalid hero ID")
		problem := response.NewValidationErrorProblem(
			"Hero ID must be a positive integer",
			c.Request().URL.Path,
		)
		problem.Extra["provided_id"] = idStr
		return 0, false, response.RespondProblemWithTrace(ctx, c.Response(), problem)
	}
	span.SetTag("hero.id", id)
	return id, true, nil
}

// ListHeroes handles GET /api/heroes and GET /api/heroes/?name={term}
func (h *HeroHandler) ListHeroes(c echo.Context) error {
	span, ctx := startSpan(c, "handler.list_heroes")
	defer span.Finish()

	name := c.QueryParam("name")
	span.SetTag("search.name", name)

	heroes, err := interactor(ctx).ListHeroes(ctx, name)
	if err != nil {
		return respondError(ctx, c, span, "Failed to get heroes", err, nil)
	}

	span.SetTag("heroes.count", len(heroes))
	return response.RespondJSONWithTrace(ctx, c.Response(), http.StatusOK, heroes)
}

// GetHero handles GET /api/heroes/:id
func (h *HeroHandler) GetHero(c echo.Context) error {
	span, ctx := startSpan(c, "handler.get_hero")
	defer span.Finish()

	id, ok, err := parseID(ctx, c, span)
	if !ok {
		return err
	}

	hero, err := interactor(ctx).GetHero(ctx, id)
	if err != nil {
		return respondError(ctx, c, span, "Failed to get hero", err, map[string]interface{}{"hero.id": id})
	}

	span.SetTag("hero.name", hero.Name)
	return response.RespondJSONWithTrace(ctx, c.Response(), http.StatusOK, hero)
}

// CreateHero handles POST /api/heroes
func (h *HeroHandler) CreateHero(c echo.Context) error {
	span, ctx := startSpan(c, "handler.create_hero")
	defer span.Finish()

	var req CreateHeroRequest
	if err := c.Bind(&req); err != nil {
		logging.LogErrorWithTrace(ctx, appcontext.GetLogger(ctx), "handler", "Failed to decode request body", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.NewValidationErrorProblem(
			"Request body is not valid JSON or does not match expected schema",
			c.Request().URL.Path,
		)
		problem.Extra["parse_error"] = err.Error()
		return response.RespondProblemWithTrace(ctx, c.Response(), problem)
	}

	span.SetTag("hero.name", req.Name)

	hero, err := interactor(ctx).CreateHero(ctx, req.Name)
	if err != nil {
		return respondError(ctx, c, span, "Failed to create hero", err, nil)
	}

	span.SetTag("hero.id", hero.ID)
	logging.LogWithTrace(ctx, appcontext.GetLogger(ctx), "handler", "Hero created successfully", nil)
	return response.RespondJSONWithTrace(ctx, c.Response(), http.StatusCreated, hero)
}

// UpdateHero handles PUT /api/heroes; the hero id travels in the body
func (h *HeroHandler) UpdateHero(c echo.Context) error {
	span, ctx := startSpan(c, "handler.update_hero")
	defer span.Finish()

	var hero entities.Hero
	if err := c.Bind(&hero); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.NewValidationErrorProblem(
			"Request body is not valid JSON or does not match expected schema",
			c.Request().URL.Path,
		)
		problem.Extra["parse_error"] = err.Error()
		return response.RespondProblemWithTrace(ctx, c.Response(), problem)
	}

	span.SetTag("hero.id", hero.ID)

	if err := interactor(ctx).UpdateHero(ctx, &hero); err != nil {
		return respondError(ctx, c, span, "Failed to update hero", err, map[string]interface{}{"hero.id": hero.ID})
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteHero handles DELETE /api/heroes/:id
func (h *HeroHandler) DeleteHero(c echo.Context) error {
	span, ctx := startSpan(c, "handler.delete_hero")
	defer span.Finish()

	id, ok, err := parseID(ctx, c, span)
	if !ok {
		return err
	}

	if err := interactor(ctx).DeleteHero(ctx, id); err != nil {
		return respondError(ctx, c, span, "Failed to delete hero", err, map[string]interface{}{"hero.id": id})
	}

	return c.NoContent(http.StatusNoContent)
}
