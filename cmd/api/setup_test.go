package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/config"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/router"
)

func TestSetupRepository_Memory(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo, closer, err := SetupRepository(context.Background(), config.StoreConfig{Driver: config.StoreMemory}, logger)
	require.NoError(t, err)
	defer closer.Close()

	heroes, err := repo.FindAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, heroes, 9)
}

func TestSetupRepository_MySQLUnreachable(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := SetupRepository(ctx, config.StoreConfig{
		Driver: config.StoreMySQL,
		DSN:    "hero:hero@tcp(127.0.0.1:1)/heroes?timeout=100ms",
	}, logger)
	assert.Error(t, err)
}

func TestSetupRouter(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo, _, err := SetupRepository(context.Background(), config.StoreConfig{Driver: config.StoreMemory}, logger)
	require.NoError(t, err)

	e := SetupRouter(logger, &appcontext.RepoLocator{HeroRepo: repo}, router.Options{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/heroes/13", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":13,"name":"Bombasto"}`, rec.Body.String())
}
