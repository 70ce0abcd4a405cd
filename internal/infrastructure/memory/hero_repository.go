package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kanehiroyuu/hero-tour/internal/domain"
	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
)

// firstID is assigned when the repository is empty
const firstID = 11

// SeedHeroes is the demo data set served by a fresh repository
func SeedHeroes() []entities.Hero {
	return []entities.Hero{
		{ID: 12, Name: "Dr. Nice"},
		{ID: 13, Name: "Bombasto"},
		{ID: 14, Name: "Celeritas"},
		{ID: 15, Name: "Magneta"},
		{ID: 16, Name: "RubberMan"},
		{ID: 17, Name: "Dynama"},
		{ID: 18, Name: "Dr. IQ"},
		{ID: 19, Name: "Magma"},
		{ID: 20, Name: "Tornado"},
	}
}

// HeroRepository implements domain.HeroRepository in memory
type HeroRepository struct {
	mu     sync.RWMutex
	heroes map[int]entities.Hero
}

var _ domain.HeroRepository = (*HeroRepository)(nil)

// NewHeroRepository creates a new HeroRepository holding seed
func NewHeroRepository(seed []entities.Hero) *HeroRepository {
	r := &HeroRepository{heroes: make(map[int]entities.Hero, len(seed))}
	for _, h := range seed {
		r.heroes[h.ID] = h
	}
	return r
}

// FindAll returns heroes ordered by ID
func (r *HeroRepository) FindAll(_ context.Context, nameFilter string) ([]*entities.Hero, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter := strings.ToLower(nameFilter)
	heroes := make([]*entities.Hero, 0, len(r.heroes))
	for _, h := range r.heroes {
		if filter != "" && !strings.Contains(strings.ToLower(h.Name), filter) {
			continue
		}
		hero := h
		heroes = append(heroes, &hero)
	}

	sort.Slice(heroes, func(i, j int) bool { return heroes[i].ID < heroes[j].ID })
	return heroes, nil
}

// FindByID finds a hero by ID
func (r *HeroRepository) FindByID(_ context.Context, id int) (*entities.Hero, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.heroes[id]
	if !ok {
		return nil, fmt.Errorf("hero %d: %w", id, domain.ErrHeroNotFound)
	}
	return &h, nil
}

// Create assigns the next free ID (highest ID + 1) and stores the hero
func (r *HeroRepository) Create(_ context.Context, hero *entities.Hero) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hero.ID = r.nextID()
	r.heroes[hero.ID] = *hero
	return nil
}

// Update replaces an existing hero
func (r *HeroRepository) Update(_ context.Context, hero *entities.Hero) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.heroes[hero.ID]; !ok {
		return fmt.Errorf("hero %d: %w", hero.ID, domain.ErrHeroNotFound)
	}
	r.heroes[hero.ID] = *hero
	return nil
}

// Delete removes a hero by ID
func (r *HeroRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.heroes[id]; !ok {
		return fmt.Errorf("hero %d: %w", id, domain.ErrHeroNotFound)
	}
	delete(r.heroes, id)
	return nil
}

// nextID must be called with mu held
func (r *HeroRepository) nextID() int {
	if len(r.heroes) == 0 {
		return firstID
	}
	highest := 0
	for id := range r.heroes {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}
