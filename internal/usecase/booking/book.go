package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookInput struct {
	Name  string
	Phone string

	// Date is the calendar day in the shop zone; the clock part is ignored.
	Date time.Time
	Time string

	// Barber is a barber name, "" or domain.NoPreference.
	Barber   string
	Services []string
}

type BookOutput struct {
	Barber     string
	Key        domain.SlotKey
	Record     *models.SlotRecord
	SubBooking models.SubBooking

	// Merged is set when the booking joined a quick-service slot.
	Merged       bool
	ComboBlocked bool
	Total        int

	// Warnings lists post-commit side effects that failed. The booking stands.
	Warnings []string
}

// plan is one barber that passed every pre-commit check.
type plan struct {
	key   domain.SlotKey
	combo bool
}

// ======================================================
// USE CASE
// ======================================================

type Booker struct {
	store    domain.Store
	resolver *Resolver
	calendar *domain.Calendar
	catalog  *domain.Catalog
	policy   Policy

	audit   *audit.Dispatcher
	notify  *notify.Dispatcher
	log     *zap.Logger
	metrics *metrics.Metrics

	now   func() time.Time
	intn  func(int) int
	newID func() string
}

func NewBooker(
	store domain.Store,
	resolver *Resolver,
	calendar *domain.Calendar,
	catalog *domain.Catalog,
	policy Policy,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	log *zap.Logger,
	m *metrics.Metrics,
) *Booker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Booker{
		store:    store,
		resolver: resolver,
		calendar: calendar,
		catalog:  catalog,
		policy:   policy,
		audit:    audit,
		notify:   notifier,
		log:      log,
		metrics:  m,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Booker) Execute(ctx context.Context, in BookInput) (*BookOutput, error) {
	out, err := uc.execute(ctx, in)
	switch {
	case err == nil && out.Merged:
		uc.metrics.BookingOutcome("merged")
	case err == nil:
		uc.metrics.BookingOutcome("created")
	default:
		uc.metrics.BookingOutcome(string(outcomeOf(err)))
	}
	return out, err
}

func outcomeOf(err error) httperr.Kind {
	if k := httperr.KindOf(err); k != "" {
		return k
	}
	return "error"
}

func (uc *Booker) execute(ctx context.Context, in BookInput) (*BookOutput, error) {

	// --------------------------------------------------
	// 1️⃣ Validação (sem acesso ao storage)
	// --------------------------------------------------
	in, candidates, err := uc.validate(in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Barbeiros candidatos
	// --------------------------------------------------
	viable, err := uc.evaluate(ctx, in, candidates)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Commit transacional
	// --------------------------------------------------
	var out *BookOutput
	for i, p := range uc.policy.order(viable, uc.intn) {
		out, err = uc.commit(ctx, p, in)
		if err == nil {
			break
		}
		if httperr.KindOf(err) != httperr.KindConflict || i == len(viable)-1 {
			if httperr.KindOf(err) == httperr.KindConflict {
				uc.audit.Dispatch(audit.Event{
					Action:   "appointment_conflict",
					Entity:   "slot",
					EntityID: p.key.ID(),
					Barber:   p.key.Barber,
					Metadata: map[string]any{"code": httperr.CodeOf(err)},
				})
			}
			return nil, err
		}
		uc.log.Info("slot taken during commit, trying next barber",
			zap.String("slot", p.key.ID()),
			zap.Error(err),
		)
	}

	// --------------------------------------------------
	// 4️⃣ Bloqueio do horário seguinte (combo)
	// --------------------------------------------------
	if uc.catalog.IsCombo(out.Record.Services()) {
		if err := uc.blockFollowup(ctx, out.Key); err != nil {
			uc.log.Warn("combo follow-up block failed", zap.String("slot", out.Key.ID()), zap.Error(err))
			out.Warnings = append(out.Warnings, "combo_block_failed")
			uc.audit.Dispatch(audit.Event{
				Action:   "combo_block_failed",
				Entity:   "slot",
				EntityID: out.Key.ID(),
				Barber:   out.Barber,
				Metadata: map[string]any{"error": err.Error()},
			})
		} else {
			out.ComboBlocked = true
		}
	}

	// --------------------------------------------------
	// 5️⃣ Cache, auditoria e notificação
	// --------------------------------------------------
	uc.resolver.Invalidate(ctx, out.Key.Date)

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_created",
		Entity:   "slot",
		EntityID: out.Key.ID(),
		Barber:   out.Barber,
		Metadata: map[string]any{
			"sub_booking": out.SubBooking.ID,
			"services":    out.SubBooking.Services,
			"merged":      out.Merged,
		},
	})

	uc.notify.Dispatch(notify.Confirmation(notify.Appointment{
		ID:       out.SubBooking.ID,
		Name:     out.SubBooking.CustomerName,
		Phone:    out.SubBooking.CustomerPhone,
		Date:     out.Key.Date,
		Time:     out.Key.Time,
		Barber:   out.Barber,
		Services: out.SubBooking.Services,
		Total:    out.Total,
	}))

	return out, nil
}

// ======================================================
// STEPS
// ======================================================

func (uc *Booker) validate(in BookInput) (BookInput, []string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = domain.NormalizePhone(in.Phone)
	in.Time = strings.TrimSpace(in.Time)
	in.Barber = strings.TrimSpace(in.Barber)

	if in.Name == "" || in.Phone == "" || in.Date.IsZero() || in.Time == "" {
		return in, nil, httperr.ErrValidation("missing_fields")
	}

	services, err := uc.catalog.Normalize(in.Services)
	if err != nil {
		return in, nil, err
	}
	in.Services = services
	in.Date = domain.NewSlotKey(in.Date, in.Time, "").Date

	if !uc.calendar.IsSlot(in.Time) {
		return in, nil, httperr.ErrValidation("invalid_time")
	}

	now := uc.now().In(in.Date.Location())
	start, _ := time.ParseInLocation("2006-01-02 15:04", in.Date.Format("2006-01-02")+" "+in.Time, in.Date.Location())
	if start.Before(now) {
		return in, nil, httperr.ErrValidation("past_time")
	}

	if uc.calendar.IsClosedDay(in.Date) {
		return in, nil, httperr.ErrValidation("closed_day")
	}
	if uc.calendar.IsEarlyOnly(in.Time) && !uc.calendar.IsSpecial(in.Date) {
		return in, nil, httperr.ErrValidation("outside_special_period")
	}

	if uc.catalog.HasQuick(services) && !uc.catalog.AllQuickCompatible(services) {
		return in, nil, httperr.ErrValidation("quick_service_combination")
	}

	var candidates []string
	switch {
	case in.Barber == "" || in.Barber == domain.NoPreference:
		candidates = uc.catalog.Barbers()
	case uc.catalog.IsBarber(in.Barber):
		candidates = []string{in.Barber}
	default:
		return in, nil, httperr.ErrValidation("unknown_barber")
	}

	if uc.catalog.HasVisagism(services) {
		vb := uc.catalog.VisagismBarber()
		if len(candidates) == 1 && candidates[0] != vb {
			return in, nil, httperr.ErrValidation("visagism_barber_only")
		}
		candidates = []string{vb}
	}

	return in, candidates, nil
}

// evaluate runs the advisory checks for each candidate in catalog order. The
// later viable barbers are fallbacks when the first loses its commit race.
func (uc *Booker) evaluate(ctx context.Context, in BookInput, candidates []string) ([]plan, error) {
	var (
		viable   []plan
		lastCode string
	)
	for _, barber := range candidates {
		key := domain.NewSlotKey(in.Date, in.Time, barber)

		p, code, err := uc.check(ctx, key, in.Services)
		if err != nil {
			return nil, err
		}
		if code != "" {
			lastCode = code
			continue
		}
		viable = append(viable, p)
	}

	if len(viable) == 0 {
		if len(candidates) > 1 {
			return nil, httperr.ErrConflict("no_barber_available")
		}
		return nil, httperr.ErrConflict(lastCode)
	}
	return viable, nil
}

// check returns a rejection code, or "" with the plan when key can take services.
func (uc *Booker) check(ctx context.Context, key domain.SlotKey, services []string) (plan, string, error) {
	res, err := uc.resolver.Resolve(ctx, key)
	if err != nil {
		return plan{}, "", err
	}

	var resulting []string
	switch res.State {
	case domain.StateAvailable:
		resulting = services
	case domain.StateQuickService:
		if !uc.catalog.AllQuickCompatible(services) {
			return plan{}, "quick_service_incompatible", nil
		}
		resulting = append(res.Reservation.Services(), services...)
	default:
		if res.Reason == domain.ReasonLunch {
			return plan{}, "barber_on_break", nil
		}
		return plan{}, "slot_unavailable", nil
	}

	p := plan{key: key, combo: uc.catalog.IsCombo(resulting)}
	if !p.combo {
		return p, "", nil
	}

	next, ok := uc.calendar.Next(key.Time)
	if !ok {
		return plan{}, "combo_after_closing", nil
	}
	nextRes, err := uc.resolver.Resolve(ctx, key.WithTime(next))
	if err != nil {
		return plan{}, "", err
	}
	if nextRes.State != domain.StateAvailable {
		return plan{}, "combo_followup_unavailable", nil
	}
	return p, "", nil
}

func (uc *Booker) commit(ctx context.Context, p plan, in BookInput) (*BookOutput, error) {
	now := uc.now()
	sub := models.SubBooking{
		ID:            uc.newID(),
		CustomerName:  in.Name,
		CustomerPhone: in.Phone,
		Services:      in.Services,
		CreatedAt:     now,
	}

	var (
		rec    *models.SlotRecord
		merged bool
	)
	err := uc.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		rec, merged = nil, false

		res, err := resolveStored(ctx, tx, p.key)
		if err != nil {
			return err
		}

		switch res.State {
		case domain.StateAvailable:
			status := domain.StatusBooked
			if uc.catalog.IsQuickOnly(in.Services) {
				status = domain.StatusQuickService
			}
			rec = domain.NewReservation(p.key, status, sub, now)
			return tx.Create(ctx, rec)

		case domain.StateQuickService:
			if !uc.catalog.AllQuickCompatible(in.Services) {
				return httperr.ErrConflict("quick_service_incompatible")
			}
			rec = res.Reservation
			rec.Bookings = append(rec.Bookings, sub)
			rec.Status = domain.StatusBooked
			rec.UpdatedAt = now
			merged = true
			return tx.Update(ctx, rec)
		}
		return httperr.ErrConflict("slot_unavailable")
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{
		Barber:     p.key.Barber,
		Key:        p.key,
		Record:     rec,
		SubBooking: sub,
		Merged:     merged,
		Total:      uc.catalog.Total(in.Services),
	}, nil
}

// blockFollowup writes the block on the slot after key on behalf of key's
// reservation. An existing block owned by the same reservation is kept.
func (uc *Booker) blockFollowup(ctx context.Context, key domain.SlotKey) error {
	next, ok := uc.calendar.Next(key.Time)
	if !ok {
		return httperr.ErrConflict("combo_after_closing")
	}
	nextKey := key.WithTime(next)

	return uc.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		res, err := resolveStored(ctx, tx, nextKey)
		if err != nil {
			return err
		}
		if res.Block != nil && res.Block.BlockedBy == key.ID() {
			return nil
		}
		if res.State != domain.StateAvailable {
			return httperr.ErrConflict("combo_followup_unavailable")
		}
		return tx.Create(ctx, domain.NewBlock(nextKey, key.ID(), uc.now()))
	})
}
