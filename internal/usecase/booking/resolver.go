package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ViewCache holds rendered day grids. It only ever serves display reads;
// booking decisions always go to the store.
type ViewCache interface {
	Get(ctx context.Context, date string) (*domain.DayView, bool, error)
	Set(ctx context.Context, view *domain.DayView) error
	Invalidate(ctx context.Context, date string) error
}

// getter is the read half shared by Store and Tx.
type getter interface {
	Get(ctx context.Context, id string) (*models.SlotRecord, error)
}

type Resolver struct {
	store    domain.Store
	calendar *domain.Calendar
	catalog  *domain.Catalog
	cache    ViewCache
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewResolver(
	store domain.Store,
	calendar *domain.Calendar,
	catalog *domain.Catalog,
	cache ViewCache,
	log *zap.Logger,
	m *metrics.Metrics,
) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		store:    store,
		calendar: calendar,
		catalog:  catalog,
		cache:    cache,
		log:      log,
		metrics:  m,
	}
}

// Resolve returns the state of one slot: calendar rules first, then the block
// at the key, then the reservation. Storage failures are returned as errors
// and never turn into an available slot.
func (r *Resolver) Resolve(ctx context.Context, key domain.SlotKey) (domain.Resolution, error) {
	if reason, blocked := r.calendar.StaticBlock(key.Date, key.Time, key.Barber); blocked {
		return domain.Resolution{Key: key, State: domain.StateBlocked, Reason: reason}, nil
	}
	return resolveStored(ctx, r.store, key)
}

func resolveStored(ctx context.Context, g getter, key domain.SlotKey) (domain.Resolution, error) {
	block, err := getOptional(ctx, g, key.BlockID())
	if err != nil {
		return domain.Resolution{}, err
	}
	reservation, err := getOptional(ctx, g, key.ID())
	if err != nil {
		return domain.Resolution{}, err
	}
	return domain.Classify(key, reservation, block), nil
}

func getOptional(ctx context.Context, g getter, id string) (*models.SlotRecord, error) {
	rec, err := g.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Day builds the whole grid of date from a single range read.
func (r *Resolver) Day(ctx context.Context, date time.Time) (*domain.DayView, error) {
	day := date.Format("2006-01-02")

	if r.cache != nil {
		view, hit, err := r.cache.Get(ctx, day)
		if err != nil {
			r.log.Warn("day view cache read failed", zap.String("date", day), zap.Error(err))
		}
		r.metrics.CacheLookup(hit)
		if hit {
			return view, nil
		}
	}

	recs, err := r.store.ListDay(ctx, date)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.SlotRecord, len(recs))
	for i := range recs {
		byID[recs[i].ID] = &recs[i]
	}

	view := &domain.DayView{
		Date:    day,
		Special: r.calendar.IsSpecial(date),
		Barbers: r.catalog.Barbers(),
	}
	for _, hm := range r.calendar.Times() {
		row := domain.DayRow{Time: hm}
		for _, barber := range r.catalog.Barbers() {
			key := domain.NewSlotKey(date, hm, barber)

			var res domain.Resolution
			if reason, blocked := r.calendar.StaticBlock(key.Date, hm, barber); blocked {
				res = domain.Resolution{Key: key, State: domain.StateBlocked, Reason: reason}
			} else {
				res = domain.Classify(key, byID[key.ID()], byID[key.BlockID()])
			}

			row.Cells = append(row.Cells, domain.Cell{
				Barber: barber,
				State:  res.State,
				Reason: res.Reason,
				Label:  domain.Label(res.State, res.Reason),
			})
		}
		view.Rows = append(view.Rows, row)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, view); err != nil {
			r.log.Warn("day view cache write failed", zap.String("date", day), zap.Error(err))
		}
	}
	return view, nil
}

// Invalidate drops the cached grid of date. Errors are logged only; the
// cache entry then expires on its own.
func (r *Resolver) Invalidate(ctx context.Context, date time.Time) {
	if r.cache == nil {
		return
	}
	day := date.Format("2006-01-02")
	if err := r.cache.Invalidate(ctx, day); err != nil {
		r.log.Warn("day view cache invalidation failed", zap.String("date", day), zap.Error(err))
	}
}
