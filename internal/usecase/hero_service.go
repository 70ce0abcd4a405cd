package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// heroesURL is the hero resource path, relative to the transport's base URL
const heroesURL = "api/heroes"

var errEmptyBody = errors.New("empty response body")

// HeroService issues hero CRUD calls against the hero API. Every failure is
// logged to the message sink and replaced by the operation's fallback value;
// no operation returns an error or panics on a transport failure.
type HeroService struct {
	transport port.HeroTransport
	sink      port.MessageSink
	observer  port.Observer
}

// HeroServiceOption configures optional HeroService collaborators
type HeroServiceOption func(*HeroService)

// WithObserver sets the observer receiving one structured event per operation
func WithObserver(observer port.Observer) HeroServiceOption {
	return func(s *HeroService) {
		s.observer = observer
	}
}

// NewHeroService creates a new HeroService
func NewHeroService(transport port.HeroTransport, sink port.MessageSink, opts ...HeroServiceOption) *HeroService {
	s := &HeroService{
		transport: transport,
		sink:      sink,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// jsonHeader is attached to every mutating request
func jsonHeader() http.Header {
	return http.Header{"Content-Type": []string{"application/json"}}
}

// ListHeroes handles GET api/heroes
func (s *HeroService) ListHeroes(ctx context.Context) Result[[]entities.Hero] {
	const op = "getHeroes"
	span, ctx := tracer.StartSpanFromContext(ctx, "hero_service.get_heroes")
	defer span.Finish()
	start := time.Now()

	var heroes []entities.Hero
	status, err := s.transport.Do(ctx, port.Request{
		Method: http.MethodGet,
		Path:   heroesURL,
	}, &heroes)
	if err != nil {
		res := handleError(ctx, s, op, []entities.Hero{}, status, err)
		s.record(ctx, span, op, start, 0, res.Err)
		return res
	}

	if heroes == nil {
		heroes = []entities.Hero{}
	}
	s.log(ctx, "fetched heroes")
	s.record(ctx, span, op, start, len(heroes), nil)
	return Result[[]entities.Hero]{Value: heroes}
}

// GetHero handles GET api/heroes/{id}
func (s *HeroService) GetHero(ctx context.Context, id int) Result[*entities.Hero] {
	op := fmt.Sprintf("getHero id=%d", id)
	span, ctx := tracer.StartSpanFromContext(ctx, "hero_service.get_hero")
	defer span.Finish()
	span.SetTag("hero.id", id)
	start := time.Now()

	var hero *entities.Hero
	status, err := s.transport.Do(ctx, port.Request{
		Method: http.MethodGet,
		Path:   heroPath(id),
	}, &hero)
	if err != nil {
		res := handleError[*entities.Hero](ctx, s, op, nil, status, err)
		s.record(ctx, span, op, start, 0, res.Err)
		return res
	}

	s.log(ctx, fmt.Sprintf("fetched hero id=%d", id))
	s.record(ctx, span, op, start, countOf(hero), nil)
	return Result[*entities.Hero]{Value: hero}
}

// UpdateHero handles PUT api/heroes. A server answering 204 yields a nil Value
// with a nil Err.
func (s *HeroService) UpdateHero(ctx context.Context, hero entities.Hero) Result[*entities.Hero] {
	const op = "updateHero"
	span, ctx := tracer.StartSpanFromContext(ctx, "hero_service.update_hero")
	defer span.Finish()
	span.SetTag("hero.id", hero.ID)
	start := time.Now()

	var updated *entities.Hero
	status, err := s.transport.Do(ctx, port.Request{
		Method: http.MethodPut,
		Path:   heroesURL,
		Header: jsonHeader(),
		Body:   hero,
	}, &updated)
	if err != nil {
		res := handleError[*entities.Hero](ctx, s, op, nil, status, err)
		s.record(ctx, span, op, start, 0, res.Err)
		return res
	}

	s.log(ctx, fmt.Sprintf("update hero id=%d", hero.ID))
	s.record(ctx, span, op, start, countOf(updated), nil)
	return Result[*entities.Hero]{Value: updated}
}

// AddHero handles POST api/heroes. The server assigns the ID; any ID set on
// hero is left for the server to ignore.
func (s *HeroService) AddHero(ctx context.Context, hero entities.Hero) Result[*entities.Hero] {
	const op = "addHero"
	span, ctx := tracer.StartSpanFromContext(ctx, "hero_service.add_hero")
	defer span.Finish()
	span.SetTag("hero.name", hero.Name)
	start := time.Now()

	var created *entities.Hero
	status, err := s.transport.Do(ctx, port.Request{
		Method: http.MethodPost,
		Path:   heroesURL,
		Header: jsonHeader(),
		Body:   hero,
	}, &created)
	if err == nil && created == nil {
		// the created hero carries the server-assigned id; without it there is nothing to return
		err = errEmptyBody
	}
	if err != nil {
		res := handleError[*entities.Hero](ctx, s, op, nil, status, err)
		s.record(ctx, span, op, start, 0, res.Err)
		return res
	}

	span.SetTag("hero.id", created.ID)
	s.log(ctx, fmt.Sprintf("added hero w/ id=%d", created.ID))
	s.record(ctx, span, op, start, 1, nil)
	return Result[*entities.Hero]{Value: created}
}

// DeleteHero handles DELETE api/heroes/{id}. The JSON content type is sent even
// though the request has no body.
func (s *HeroService) DeleteHero(ctx context.Context, id int) Result[*entities.Hero] {
	const op = "deleteHero"
	span, ctx := tracer.StartSpanFromContext(ctx, "hero_service.delete_hero")
	defer span.Finish()
	span.SetTag("hero.id", id)
	start := time.Now()

	var deleted *entities.Hero
	status, err := s.transport.Do(ctx, port.Request{
		Method: http.MethodDelete,
		Path:   heroPath(id),
		Header: jsonHeader(),
	}, &deleted)
	if err != nil {
		res := handleError[*entities.Hero](ctx, s, op, nil, status, err)
		s.record(ctx, span, op, start, 0, res.Err)
		return res
	}

	s.log(ctx, fmt.Sprintf("deleted hero id=%d", id))
	s.record(ctx, span, op, start, countOf(deleted), nil)
	return Result[*entities.Hero]{Value: deleted}
}

// SearchHeroes handles GET api/heroes/?name={term}. A blank term returns an
// empty slice without calling the transport or logging.
func (s *HeroService) SearchHeroes(ctx context.Context, term string) Result[[]entities.Hero] {
	if strings.TrimSpace(term) == "" {
		return Result[[]entities.Hero]{Value: []entities.Hero{}}
	}

	const op = "searchHeroes"
	span, ctx := tracer.StartSpanFromContext(ctx, "hero_service.search_heroes")
	defer span.Finish()
	span.SetTag("search.term", term)
	start := time.Now()

	var heroes []entities.Hero
	status, err := s.transport.Do(ctx, port.Request{
		Method: http.MethodGet,
		Path:   heroesURL + "/",
		Query:  url.Values{"name": []string{term}},
	}, &heroes)
	if err != nil {
		res := handleError(ctx, s, op, []entities.Hero{}, status, err)
		s.record(ctx, span, op, start, 0, res.Err)
		return res
	}

	if heroes == nil {
		heroes = []entities.Hero{}
	}
	if len(heroes) > 0 {
		s.log(ctx, fmt.Sprintf("found heroes matching %s", term))
	} else {
		s.log(ctx, fmt.Sprintf("not found heroes %s", term))
	}
	s.record(ctx, span, op, start, len(heroes), nil)
	return Result[[]entities.Hero]{Value: heroes}
}

// handleError logs the failure and resolves with fallback
func handleError[T any](ctx context.Context, s *HeroService, op string, fallback T, status int, err error) Result[T] {
	failure := &TransportFailure{Op: op, StatusCode: status, Err: err}
	s.log(ctx, fmt.Sprintf("%s failed: %s", op, failure.Error()))
	return Result[T]{Value: fallback, Err: failure}
}

func (s *HeroService) log(ctx context.Context, message string) {
	if s.sink != nil {
		s.sink.Add(ctx, message)
	}
}

// record tags the span and publishes the operation event
func (s *HeroService) record(ctx context.Context, span tracer.Span, op string, start time.Time, count int, err error) {
	event := port.Event{
		Operation: op,
		Outcome:   port.OutcomeSuccess,
		Duration:  time.Since(start),
		Count:     count,
		Err:       err,
	}
	if err != nil {
		event.Outcome = port.OutcomeFailure
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
	} else {
		span.SetTag("heroes.count", count)
	}

	if s.observer != nil {
		s.observer.Observe(ctx, event)
	}
}

func heroPath(id int) string {
	return heroesURL + "/" + strconv.Itoa(id)
}

func countOf(hero *entities.Hero) int {
	if hero == nil {
		return 0
	}
	return 1
}
