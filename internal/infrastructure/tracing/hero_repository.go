package tracing

import (
	"context"

	"github.com/kanehiroyuu/hero-tour/internal/domain"
	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// HeroRepositoryTracer wraps a HeroRepository with tracing
type HeroRepositoryTracer struct {
	repo   domain.HeroRepository
	dbType string
}

// NewHeroRepositoryTracer creates a new tracing decorator for HeroRepository.
// dbType tags each span, e.g. "mysql" or "memory".
func NewHeroRepositoryTracer(repo domain.HeroRepository, dbType string) domain.HeroRepository {
	return &HeroRepositoryTracer{
		repo:   repo,
		dbType: dbType,
	}
}

// FindAll wraps the FindAll method with tracing
func (r *HeroRepositoryTracer) FindAll(ctx context.Context, nameFilter string) ([]*entities.Hero, error) {
	var heroes []*entities.Hero
	err := TraceOperation(ctx, r.dbType+".find_heroes", r.tags("SELECT", map[string]interface{}{
		"search.name": nameFilter,
	}), func(ctx context.Context, span tracer.Span) error {
		var err error
		heroes, err = r.repo.FindAll(ctx, nameFilter)
		if err == nil {
			AddSpanSuccess(span, map[string]interface{}{"heroes.count": len(heroes)})
		}
		return err
	})
	return heroes, err
}

// FindByID wraps the FindByID method with tracing
func (r *HeroRepositoryTracer) FindByID(ctx context.Context, id int) (*entities.Hero, error) {
	var hero *entities.Hero
	err := TraceOperation(ctx, r.dbType+".find_hero_by_id", r.tags("SELECT", map[string]interface{}{
		"hero.id": id,
	}), func(ctx context.Context, span tracer.Span) error {
		var err error
		hero, err = r.repo.FindByID(ctx, id)
		if err == nil {
			AddSpanSuccess(span, map[string]interface{}{"hero.name": hero.Name})
		}
		return err
	})
	return hero, err
}

// Create wraps the Create method with tracing
func (r *HeroRepositoryTracer) Create(ctx context.Context, hero *entities.Hero) error {
	return TraceOperation(ctx, r.dbType+".create_hero", r.tags("INSERT", map[string]interface{}{
		"hero.name": hero.Name,
	}), func(ctx context.Context, span tracer.Span) error {
		err := r.repo.Create(ctx, hero)
		if err == nil {
			AddSpanSuccess(span, map[string]interface{}{"hero.id": hero.ID})
		}
		return err
	})
}

// Update wraps the Update method with tracing
func (r *HeroRepositoryTracer) Update(ctx context.Context, hero *entities.Hero) error {
	return TraceOperation(ctx, r.dbType+".update_hero", r.tags("UPDATE", map[string]interface{}{
		"hero.id": hero.ID,
	}), func(ctx context.Context, span tracer.Span) error {
		return r.repo.Update(ctx, hero)
	})
}

// Delete wraps the Delete method with tracing
func (r *HeroRepositoryTracer) Delete(ctx context.Context, id int) error {
	return TraceOperation(ctx, r.dbType+".delete_hero", r.tags("DELETE", map[string]interface{}{
		"hero.id": id,
	}), func(ctx context.Context, span tracer.Span) error {
		return r.repo.Delete(ctx, id)
	})
}

func (r *HeroRepositoryTracer) tags(operation string, extra map[string]interface{}) map[string]interface{} {
	tags := map[string]interface{}{
		"db.type":      r.dbType,
		"db.operation": operation,
	}
	for k, v := range extra {
		tags[k] = v
	}
	return tags
}
