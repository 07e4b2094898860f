package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

const (
	lucas   = "Lucas Borges"
	aluizio = "Aluizio"
)

var (
	// Monday, outside the special period.
	monday = time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	// Tuesday, inside the special period.
	special = time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	sunday  = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Monday 09:00.
	clock = func() time.Time { return time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC) }
)

type fakeCache struct {
	mu          sync.Mutex
	views       map[string]*domain.DayView
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: make(map[string]*domain.DayView)}
}

func (c *fakeCache) Get(_ context.Context, date string) (*domain.DayView, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[date]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, view *domain.DayView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[view.Date] = view
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, date)
	c.invalidated = append(c.invalidated, date)
	return nil
}

type fixture struct {
	store     *repository.SlotMemoryStore
	cache     *fakeCache
	resolver  *Resolver
	booker    *Booker
	canceller *Canceller
	lookup    *Lookup
}

func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()
	mem := repository.NewSlotMemoryStore()
	return newFixtureOn(t, policy, mem, mem)
}

// newFixtureOn runs the use cases on store; mem is the memory store beneath it,
// used by tests to inspect what was committed.
func newFixtureOn(t *testing.T, policy Policy, mem *repository.SlotMemoryStore, store domain.Store) *fixture {
	t.Helper()

	cal := domain.DefaultCalendar()
	catalog := domain.DefaultCatalog()
	cache := newFakeCache()
	m := metrics.New("test")

	resolver := NewResolver(store, cal, catalog, cache, nil, m)
	booker := NewBooker(store, resolver, cal, catalog, policy, nil, nil, nil, m)
	booker.now = clock
	canceller := NewCanceller(store, resolver, cal, catalog, nil, nil, nil, m)
	canceller.now = clock

	return &fixture{
		store:     mem,
		cache:     cache,
		resolver:  resolver,
		booker:    booker,
		canceller: canceller,
		lookup:    NewLookup(store, catalog),
	}
}

func (f *fixture) book(t *testing.T, date time.Time, hm, barber, phone string, services ...string) (*BookOutput, error) {
	t.Helper()
	return f.booker.Execute(context.Background(), BookInput{
		Name:     "Cliente " + phone,
		Phone:    phone,
		Date:     date,
		Time:     hm,
		Barber:   barber,
		Services: services,
	})
}

func (f *fixture) mustBook(t *testing.T, date time.Time, hm, barber, phone string, services ...string) *BookOutput {
	t.Helper()
	out, err := f.book(t, date, hm, barber, phone, services...)
	require.NoError(t, err)
	return out
}

func (f *fixture) cancel(date time.Time, hm, barber, phone string) (*CancelOutput, error) {
	return f.canceller.Execute(context.Background(), CancelInput{
		Date:   date,
		Time:   hm,
		Barber: barber,
		Phone:  phone,
	})
}

func (f *fixture) state(t *testing.T, date time.Time, hm, barber string) domain.Resolution {
	t.Helper()
	res, err := f.resolver.Resolve(context.Background(), domain.NewSlotKey(date, hm, barber))
	require.NoError(t, err)
	return res
}
