package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/httpclient"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/memory"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/messages"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/interface-adapter/handler"
	"github.com/kanehiroyuu/hero-tour/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	locator := &appcontext.RepoLocator{HeroRepo: memory.NewHeroRepository(memory.SeedHeroes())}
	e := Setup(handler.NewHeroHandler(), handler.NewHealthHandler(), logger, locator, Options{})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Service is healthy")
}

func TestRouter_ListAndSearch(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/heroes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var heroes []entities.Hero
	require.NoError(t, json.Unmarshal([]byte(body), &heroes))
	assert.Len(t, heroes, 9)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/heroes/?name=mag", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &heroes))
	assert.Equal(t, []entities.Hero{{ID: 15, Name: "Magneta"}, {ID: 19, Name: "Magma"}}, heroes)
}

func TestRouter_GetHero(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/heroes/12", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":12,"name":"Dr. Nice"}`, body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/heroes/99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "not-found")

	resp, body = do(t, http.MethodGet, srv.URL+"/api/heroes/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"provided_id":"abc"`)
}

func TestRouter_CreateUpdateDelete(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/heroes", `{"name":"Nova"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":21,"name":"Nova"}`, body)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/heroes", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/heroes", `{"id":21,"name":"Supernova"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/heroes", `{"id":404,"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/heroes/21", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/heroes/21", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_HeroServiceRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	transport, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	sink := messages.NewService(0)
	svc := usecase.NewHeroService(transport, sink)

	list := svc.ListHeroes(ctx)
	require.NoError(t, list.Err)
	assert.Len(t, list.Value, 9)

	added := svc.AddHero(ctx, entities.Hero{Name: "Nova"})
	require.NoError(t, added.Err)
	assert.Equal(t, 21, added.Value.ID)

	updated := svc.UpdateHero(ctx, entities.Hero{ID: 21, Name: "Supernova"})
	require.NoError(t, updated.Err)
	assert.Nil(t, updated.Value)

	got := svc.GetHero(ctx, 21)
	require.NoError(t, got.Err)
	assert.Equal(t, "Supernova", got.Value.Name)

	found := svc.SearchHeroes(ctx, "nova")
	require.NoError(t, found.Err)
	assert.Equal(t, []entities.Hero{{ID: 21, Name: "Supernova"}}, found.Value)

	deleted := svc.DeleteHero(ctx, 21)
	require.NoError(t, deleted.Err)

	missing := svc.GetHero(ctx, 21)
	assert.Nil(t, missing.Value)
	assert.Error(t, missing.Err)

	none := svc.SearchHeroes(ctx, "Zzz")
	require.NoError(t, none.Err)
	assert.Empty(t, none.Value)

	msgs := sink.Messages()
	require.Len(t, msgs, 8)
	assert.Equal(t, []string{
		"fetched heroes",
		"added hero w/ id=21",
		"update hero id=21",
		"fetched hero id=21",
		"found heroes matching nova",
		"deleted hero id=21",
	}, msgs[:6])
	assert.True(t, strings.HasPrefix(msgs[6], "getHero id=21 failed: "), msgs[6])
	assert.Contains(t, msgs[6], "404 Not Found")
	assert.Equal(t, "not found heroes Zzz", msgs[7])
}
