package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// RetryStore retries connectivity failures of the wrapped store with
// exponential backoff. Business errors and ErrNotFound pass through at once.
type RetryStore struct {
	next     booking.Store
	attempts int
	base     time.Duration
	log      *zap.Logger
	metrics  *metrics.Metrics

	sleep func(ctx context.Context, d time.Duration) error
}

var _ booking.Store = (*RetryStore)(nil)

func NewRetryStore(next booking.Store, attempts int, base time.Duration, log *zap.Logger, m *metrics.Metrics) *RetryStore {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RetryStore{
		next:     next,
		attempts: attempts,
		base:     base,
		log:      log,
		metrics:  m,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *RetryStore) do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			delay := s.base << (attempt - 1)
			s.metrics.StoreRetry(op)
			s.log.Warn("store retry",
				zap.String("op", op),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
			if serr := s.sleep(ctx, delay); serr != nil {
				return httperr.ErrConnectivity(err)
			}
		}

		err = fn()
		if err == nil || !httperr.IsConnectivity(err) {
			return err
		}
	}
	return err
}

func (s *RetryStore) Get(ctx context.Context, id string) (*models.SlotRecord, error) {
	var rec *models.SlotRecord
	err := s.do(ctx, "get", func() error {
		var err error
		rec, err = s.next.Get(ctx, id)
		return err
	})
	return rec, err
}

func (s *RetryStore) ListDay(ctx context.Context, day time.Time) ([]models.SlotRecord, error) {
	var recs []models.SlotRecord
	err := s.do(ctx, "list_day", func() error {
		var err error
		recs, err = s.next.ListDay(ctx, day)
		return err
	})
	return recs, err
}

func (s *RetryStore) Set(ctx context.Context, rec *models.SlotRecord) error {
	return s.do(ctx, "set", func() error { return s.next.Set(ctx, rec) })
}

func (s *RetryStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, "delete", func() error { return s.next.Delete(ctx, id) })
}

// RunInTx reruns the whole transaction, so fn reads current state again.
func (s *RetryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) error {
	return s.do(ctx, "tx", func() error { return s.next.RunInTx(ctx, fn) })
}
