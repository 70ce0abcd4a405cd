package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/domain"
	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
)

// Schema creates the heroes table
const Schema = `CREATE TABLE IF NOT EXISTS heroes (
	id INT NOT NULL AUTO_INCREMENT,
	name VARCHAR(255) NOT NULL,
	PRIMARY KEY (id)
) AUTO_INCREMENT = 11`

// HeroRepository implements domain.HeroRepository for MySQL (without tracing)
type HeroRepository struct {
	db     queryer
	logger *logrus.Logger
}

var _ domain.HeroRepository = (*HeroRepository)(nil)

// NewHeroRepository creates a new HeroRepository
func NewHeroRepository(db queryer, logger *logrus.Logger) *HeroRepository {
	return &HeroRepository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the heroes table when missing
func (r *HeroRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create heroes table: %w", err)
	}
	return nil
}

// FindAll retrieves heroes whose name contains nameFilter
func (r *HeroRepository) FindAll(ctx context.Context, nameFilter string) ([]*entities.Hero, error) {
	query := "SELECT id, name FROM heroes ORDER BY id"
	var args []any
	if nameFilter != "" {
		query = "SELECT id, name FROM heroes WHERE LOWER(name) LIKE ? ORDER BY id"
		args = append(args, "%"+escapeLike(strings.ToLower(nameFilter))+"%")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query": query,
		})
		return nil, fmt.Errorf("failed to query heroes: %w", err)
	}
	defer rows.Close()

	heroes := []*entities.Hero{}
	for rows.Next() {
		var hero entities.Hero
		if err := rows.Scan(&hero.ID, &hero.Name); err != nil {
			return nil, fmt.Errorf("failed to scan hero: %w", err)
		}
		heroes = append(heroes, &hero)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heroes: %w", err)
	}

	r.logWithTrace(ctx, "Heroes retrieved from database", logrus.Fields{
		"heroes.count": len(heroes),
	})

	return heroes, nil
}

// FindByID finds a hero by ID
func (r *HeroRepository) FindByID(ctx context.Context, id int) (*entities.Hero, error) {
	query := "SELECT id, name FROM heroes WHERE id = ?"

	var hero entities.Hero
	err := r.db.QueryRowContext(ctx, query, id).Scan(&hero.ID, &hero.Name)
	if errors.Is(err, sql.ErrNoRows) {
		r.logWithTrace(ctx, "Hero not found in database", logrus.Fields{
			"hero.id": id,
		})
		return nil, fmt.Errorf("hero %d: %w", id, domain.ErrHeroNotFound)
	}
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query": query,
		})
		return nil, fmt.Errorf("failed to query hero: %w", err)
	}

	return &hero, nil
}

// Create inserts a hero; AUTO_INCREMENT assigns the ID
func (r *HeroRepository) Create(ctx context.Context, hero *entities.Hero) error {
	query := "INSERT INTO heroes (name) VALUES (?)"

	result, err := r.db.ExecContext(ctx, query, hero.Name)
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query": query,
		})
		return fmt.Errorf("failed to insert hero: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to get last insert ID", err, nil)
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	hero.ID = int(id)

	r.logWithTrace(ctx, "Hero created in database", logrus.Fields{
		"hero.id": hero.ID,
	})

	return nil
}

// Update renames an existing hero
func (r *HeroRepository) Update(ctx context.Context, hero *entities.Hero) error {
	query := "UPDATE heroes SET name = ? WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, hero.Name, hero.ID)
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query": query,
		})
		return fmt.Errorf("failed to update hero: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// MySQL reports zero affected rows when the name is unchanged
		if _, err := r.FindByID(ctx, hero.ID); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes a hero by ID
func (r *HeroRepository) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM heroes WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query": query,
		})
		return fmt.Errorf("failed to delete hero: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("hero %d: %w", id, domain.ErrHeroNotFound)
	}

	r.logWithTrace(ctx, "Hero deleted from database", logrus.Fields{
		"hero.id": id,
	})

	return nil
}

// escapeLike escapes LIKE wildcards so the filter matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// logWithTrace logs a message with trace information
func (r *HeroRepository) logWithTrace(ctx context.Context, message string, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["component"] = "mysql"
	logging.LogWithTrace(ctx, r.logger, "repository", message, fields)
}

// logErrorWithTrace logs an error with trace information
func (r *HeroRepository) logErrorWithTrace(ctx context.Context, message string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["component"] = "mysql"
	logging.LogErrorWithTrace(ctx, r.logger, "repository", message, err, fields)
}
