package mysql

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanehiroyuu/hero-tour/internal/domain"
	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "thor", want: "thor"},
		{in: "100%", want: `100\%`},
		{in: "dr_iq", want: `dr\_iq`},
		{in: `back\slash`, want: `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

// unreachableDB returns a handle whose first query fails to connect
func unreachableDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("mysql", "hero:hero@tcp(127.0.0.1:1)/heroes?timeout=100ms")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHeroRepository_ConnectionErrorsAreWrapped(t *testing.T) {
	logger := logrus.New()
	repo := NewHeroRepository(NewLoggingDB(unreachableDB(t), logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := repo.FindAll(ctx, "mag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query heroes")

	_, err = repo.FindByID(ctx, 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query hero")

	err = repo.Create(ctx, &entities.Hero{Name: "Nova"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert hero")

	err = repo.Delete(ctx, 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete hero")
}

// newMockRepository wires the repository through LoggingDB onto sqlmock
func newMockRepository(t *testing.T) (*HeroRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return NewHeroRepository(NewLoggingDB(db, logger), logger), mock
}

func heroRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name"})
}

func TestHeroRepository_Migrate(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(Schema).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
}

func TestHeroRepository_FindAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT id, name FROM heroes ORDER BY id").
		WillReturnRows(heroRows().AddRow(12, "Dr. Nice").AddRow(13, "Bombasto"))

	heroes, err := repo.FindAll(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, heroes, 2)
	assert.Equal(t, &entities.Hero{ID: 12, Name: "Dr. Nice"}, heroes[0])
	assert.Equal(t, &entities.Hero{ID: 13, Name: "Bombasto"}, heroes[1])
}

func TestHeroRepository_FindAll_FilterIsLoweredAndEscaped(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT id, name FROM heroes WHERE LOWER(name) LIKE ? ORDER BY id").
		WithArgs(`%mag\_%`).
		WillReturnRows(heroRows())

	heroes, err := repo.FindAll(context.Background(), "Mag_")

	require.NoError(t, err)
	assert.NotNil(t, heroes)
	assert.Empty(t, heroes)
}

func TestHeroRepository_FindByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT id, name FROM heroes WHERE id = ?").
		WithArgs(12).
		WillReturnRows(heroRows().AddRow(12, "Dr. Nice"))

	hero, err := repo.FindByID(context.Background(), 12)

	require.NoError(t, err)
	assert.Equal(t, &entities.Hero{ID: 12, Name: "Dr. Nice"}, hero)
}

func TestHeroRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT id, name FROM heroes WHERE id = ?").
		WithArgs(99).
		WillReturnRows(heroRows())

	hero, err := repo.FindByID(context.Background(), 99)

	assert.Nil(t, hero)
	assert.True(t, errors.Is(err, domain.ErrHeroNotFound))
}

func TestHeroRepository_Create_UsesLastInsertID(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("INSERT INTO heroes (name) VALUES (?)").
		WithArgs("Nova").
		WillReturnResult(sqlmock.NewResult(21, 1))

	hero := &entities.Hero{Name: "Nova"}
	require.NoError(t, repo.Create(context.Background(), hero))

	assert.Equal(t, 21, hero.ID)
}

func TestHeroRepository_Update(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "renamed",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE heroes SET name = ? WHERE id = ?").
					WithArgs("Super Nova", 12).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unchanged name re-checks existence",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE heroes SET name = ? WHERE id = ?").
					WithArgs("Super Nova", 12).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT id, name FROM heroes WHERE id = ?").
					WithArgs(12).
					WillReturnRows(heroRows().AddRow(12, "Super Nova"))
			},
		},
		{
			name: "missing hero",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE heroes SET name = ? WHERE id = ?").
					WithArgs("Super Nova", 12).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT id, name FROM heroes WHERE id = ?").
					WithArgs(12).
					WillReturnRows(heroRows())
			},
			wantErr: domain.ErrHeroNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			err := repo.Update(context.Background(), &entities.Hero{ID: 12, Name: "Super Nova"})

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHeroRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("DELETE FROM heroes WHERE id = ?").
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 12))
}

func TestHeroRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("DELETE FROM heroes WHERE id = ?").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)

	assert.True(t, errors.Is(err, domain.ErrHeroNotFound))
}
