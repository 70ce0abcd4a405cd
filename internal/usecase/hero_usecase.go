package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/domain"
	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// ErrInvalidHero is returned when a hero fails the API's input checks
var ErrInvalidHero = errors.New("invalid hero")

// HeroUseCase implements the hero API's business logic on top of a HeroRepository
type HeroUseCase struct {
	Logger *logrus.Logger
	RHero  domain.HeroRepository
}

func (uc *HeroUseCase) logger(ctx context.Context) *logrus.Logger {
	if uc.Logger != nil {
		return uc.Logger
	}
	return appcontext.GetLogger(ctx)
}

// ListHeroes retrieves all heroes, optionally filtered by a name substring
func (uc *HeroUseCase) ListHeroes(ctx context.Context, name string) ([]*entities.Hero, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.list_heroes")
	defer span.Finish()

	logger := uc.logger(ctx)
	span.SetTag("search.name", name)

	logging.LogWithTrace(ctx, logger, "usecase", "Fetching heroes", logrus.Fields{
		"search.name": name,
	})

	heroes, err := uc.RHero.FindAll(ctx, strings.TrimSpace(name))
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, logger, "usecase", "Failed to fetch heroes from repository", err, nil)
		return nil, fmt.Errorf("failed to get heroes: %w", err)
	}

	span.SetTag("heroes.count", len(heroes))
	logging.LogWithTrace(ctx, logger, "usecase", "Heroes fetched successfully", logrus.Fields{
		"heroes.count": len(heroes),
	})

	return heroes, nil
}

// GetHero retrieves a hero by ID
func (uc *HeroUseCase) GetHero(ctx context.Context, id int) (*entities.Hero, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.get_hero")
	defer span.Finish()

	logger := uc.logger(ctx)
	span.SetTag("hero.id", id)

	hero, err := uc.RHero.FindByID(ctx, id)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, logger, "usecase", "Failed to get hero from repository", err, logrus.Fields{
			"hero.id": id,
		})
		return nil, fmt.Errorf("failed to get hero %d: %w", id, err)
	}

	span.SetTag("hero.name", hero.Name)
	return hero, nil
}

// CreateHero stores a new hero; the repository assigns its ID
func (uc *HeroUseCase) CreateHero(ctx context.Context, name string) (*entities.Hero, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.create_hero")
	defer span.Finish()

	logger := uc.logger(ctx)
	name = strings.TrimSpace(name)
	span.SetTag("hero.name", name)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidHero)
	}

	hero := &entities.Hero{Name: name}
	if err := uc.RHero.Create(ctx, hero); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, logger, "usecase", "Failed to create hero in repository", err, nil)
		return nil, fmt.Errorf("failed to create hero: %w", err)
	}

	span.SetTag("hero.id", hero.ID)
	logging.LogWithTrace(ctx, logger, "usecase", "Hero created", logrus.Fields{
		"hero.id":   hero.ID,
		"hero.name": hero.Name,
	})

	return hero, nil
}

// UpdateHero replaces the name of an existing hero
func (uc *HeroUseCase) UpdateHero(ctx context.Context, hero *entities.Hero) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.update_hero")
	defer span.Finish()

	logger := uc.logger(ctx)
	span.SetTag("hero.id", hero.ID)

	if hero.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidHero)
	}

	if err := uc.RHero.Update(ctx, hero); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, logger, "usecase", "Failed to update hero in repository", err, logrus.Fields{
			"hero.id": hero.ID,
		})
		return fmt.Errorf("failed to update hero %d: %w", hero.ID, err)
	}

	logging.LogWithTrace(ctx, logger, "usecase", "Hero updated", logrus.Fields{
		"hero.id": hero.ID,
	})
	return nil
}

// DeleteHero removes a hero by ID
func (uc *HeroUseCase) DeleteHero(ctx context.Context, id int) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.delete_hero")
	defer span.Finish()

	logger := uc.logger(ctx)
	span.SetTag("hero.id", id)

	if err := uc.RHero.Delete(ctx, id); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, logger, "usecase", "Failed to delete hero in repository", err, logrus.Fields{
			"hero.id": id,
		})
		return fmt.Errorf("failed to delete hero %d: %w", id, err)
	}

	logging.LogWithTrace(ctx, logger, "usecase", "Hero deleted", logrus.Fields{
		"hero.id": id,
	})
	return nil
}
