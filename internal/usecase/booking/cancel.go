package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
)

type CancelInput struct {
	Date   time.Time
	Time   string
	Barber string
	Phone  string
}

type CancelOutput struct {
	Key       domain.SlotKey
	Cancelled []models.SubBooking

	// Record is what remains at the key; nil when the record was deleted.
	Record    *models.SlotRecord
	Deleted   bool
	Unblocked bool
	Warnings  []string
}

type Canceller struct {
	store    domain.Store
	resolver *Resolver
	calendar *domain.Calendar
	catalog  *domain.Catalog

	audit   *audit.Dispatcher
	notify  *notify.Dispatcher
	log     *zap.Logger
	metrics *metrics.Metrics

	now func() time.Time
}

func NewCanceller(
	store domain.Store,
	resolver *Resolver,
	calendar *domain.Calendar,
	catalog *domain.Catalog,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	log *zap.Logger,
	m *metrics.Metrics,
) *Canceller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Canceller{
		store:    store,
		resolver: resolver,
		calendar: calendar,
		catalog:  catalog,
		audit:    audit,
		notify:   notifier,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

func (uc *Canceller) Execute(ctx context.Context, in CancelInput) (*CancelOutput, error) {
	out, err := uc.execute(ctx, in)
	if err != nil {
		uc.metrics.CancellationOutcome(string(outcomeOf(err)))
		return nil, err
	}
	uc.metrics.CancellationOutcome("cancelled")
	return out, nil
}

func (uc *Canceller) execute(ctx context.Context, in CancelInput) (*CancelOutput, error) {
	key, err := uc.validate(in)
	if err != nil {
		return nil, err
	}

	var (
		out      *CancelOutput
		wasCombo bool
	)
	err = uc.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		out, wasCombo = &CancelOutput{Key: key}, false

		rec, err := tx.Get(ctx, key.ID())
		if errors.Is(err, domain.ErrNotFound) || (err == nil && domain.IsBlockRecord(rec)) {
			return httperr.ErrIntegrity("not_found")
		}
		if err != nil {
			return err
		}

		var keep []models.SubBooking
		for _, b := range rec.Bookings {
			if domain.SamePhone(b.CustomerPhone, in.Phone) {
				out.Cancelled = append(out.Cancelled, b)
			} else {
				keep = append(keep, b)
			}
		}
		if len(out.Cancelled) == 0 {
			return httperr.ErrIntegrity("phone_mismatch")
		}

		wasCombo = uc.catalog.IsCombo(rec.Services())

		if len(keep) == 0 {
			out.Deleted = true
			return tx.Delete(ctx, rec.ID)
		}

		rec.Bookings = keep
		rec.Status = domain.StatusBooked
		if len(keep) == 1 && uc.catalog.IsQuickOnly(keep[0].Services) {
			rec.Status = domain.StatusQuickService
		}
		rec.UpdatedAt = uc.now()
		out.Record = rec
		return tx.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Liberação do horário seguinte
	// --------------------------------------------------
	stillCombo := out.Record != nil && uc.catalog.IsCombo(out.Record.Services())
	if wasCombo && !stillCombo {
		unblocked, err := uc.unblockFollowup(ctx, key)
		if err != nil {
			uc.log.Warn("combo follow-up unblock failed", zap.String("slot", key.ID()), zap.Error(err))
			out.Warnings = append(out.Warnings, "combo_unblock_failed")
			uc.audit.Dispatch(audit.Event{
				Action:   "combo_unblock_failed",
				Entity:   "slot",
				EntityID: key.ID(),
				Barber:   key.Barber,
				Metadata: map[string]any{"error": err.Error()},
			})
		}
		out.Unblocked = unblocked
	}

	uc.resolver.Invalidate(ctx, key.Date)

	ids := make([]string, 0, len(out.Cancelled))
	for _, b := range out.Cancelled {
		ids = append(ids, b.ID)

		uc.notify.Dispatch(notify.Cancellation(notify.Appointment{
			ID:       b.ID,
			Name:     b.CustomerName,
			Phone:    b.CustomerPhone,
			Date:     key.Date,
			Time:     key.Time,
			Barber:   key.Barber,
			Services: b.Services,
			Total:    uc.catalog.Total(b.Services),
		}))
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_cancelled",
		Entity:   "slot",
		EntityID: key.ID(),
		Barber:   key.Barber,
		Metadata: map[string]any{
			"sub_bookings": ids,
			"deleted":      out.Deleted,
			"unblocked":    out.Unblocked,
		},
	})

	return out, nil
}

func (uc *Canceller) validate(in CancelInput) (domain.SlotKey, error) {
	hm := strings.TrimSpace(in.Time)
	barber := strings.TrimSpace(in.Barber)

	if in.Date.IsZero() || hm == "" || barber == "" || domain.NormalizePhone(in.Phone) == "" {
		return domain.SlotKey{}, httperr.ErrValidation("missing_fields")
	}
	if !uc.catalog.IsBarber(barber) {
		return domain.SlotKey{}, httperr.ErrValidation("unknown_barber")
	}
	if !uc.calendar.IsSlot(hm) {
		return domain.SlotKey{}, httperr.ErrValidation("invalid_time")
	}
	return domain.NewSlotKey(in.Date, hm, barber), nil
}

// unblockFollowup removes the block on the slot after key when it belongs to
// key's reservation. A missing block is not an error.
func (uc *Canceller) unblockFollowup(ctx context.Context, key domain.SlotKey) (bool, error) {
	next, ok := uc.calendar.Next(key.Time)
	if !ok {
		return false, nil
	}
	nextKey := key.WithTime(next)

	var removed bool
	err := uc.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		removed = false

		blk, err := getOptional(ctx, tx, nextKey.BlockID())
		if err != nil || blk == nil {
			return err
		}
		if blk.BlockedBy != "" && blk.BlockedBy != key.ID() {
			uc.log.Info("follow-up block owned by another reservation, keeping it",
				zap.String("block", blk.ID),
				zap.String("blocked_by", blk.BlockedBy),
			)
			return nil
		}
		removed = true
		return tx.Delete(ctx, blk.ID)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
