package domain

import (
	"context"
	"errors"

	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
)

// ErrHeroNotFound is returned by a HeroRepository when no hero has the requested ID
var ErrHeroNotFound = errors.New("hero not found")

// HeroRepository defines the interface for hero data operations
type HeroRepository interface {
	// FindAll returns every hero whose name contains nameFilter (case-insensitive).
	// An empty filter matches all heroes.
	FindAll(ctx context.Context, nameFilter string) ([]*entities.Hero, error)
	FindByID(ctx context.Context, id int) (*entities.Hero, error)
	// Create assigns hero.ID and stores the hero
	Create(ctx context.Context, hero *entities.Hero) error
	Update(ctx context.Context, hero *entities.Hero) error
	Delete(ctx context.Context, id int) error
}
