package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type LookupInput struct {
	Date   time.Time
	Time   string
	Barber string
	Phone  string
}

type LookupOutput struct {
	Key    domain.SlotKey
	Record *models.SlotRecord
	// Mine holds the entries of the record booked with the caller's phone.
	Mine []models.SubBooking
}

// Lookup returns a reservation to the customer who holds it. It is gated by
// phone the same way cancellation is.
type Lookup struct {
	store   domain.Store
	catalog *domain.Catalog
}

func NewLookup(store domain.Store, catalog *domain.Catalog) *Lookup {
	return &Lookup{store: store, catalog: catalog}
}

func (uc *Lookup) Execute(ctx context.Context, in LookupInput) (*LookupOutput, error) {
	hm := strings.TrimSpace(in.Time)
	barber := strings.TrimSpace(in.Barber)
	if in.Date.IsZero() || hm == "" || barber == "" || domain.NormalizePhone(in.Phone) == "" {
		return nil, httperr.ErrValidation("missing_fields")
	}
	if !uc.catalog.IsBarber(barber) {
		return nil, httperr.ErrValidation("unknown_barber")
	}

	key := domain.NewSlotKey(in.Date, hm, barber)
	rec, err := uc.store.Get(ctx, key.ID())
	if errors.Is(err, domain.ErrNotFound) || (err == nil && domain.IsBlockRecord(rec)) {
		return nil, httperr.ErrIntegrity("not_found")
	}
	if err != nil {
		return nil, err
	}

	out := &LookupOutput{Key: key, Record: rec}
	for _, b := range rec.Bookings {
		if domain.SamePhone(b.CustomerPhone, in.Phone) {
			out.Mine = append(out.Mine, b)
		}
	}
	if len(out.Mine) == 0 {
		return nil, httperr.ErrIntegrity("phone_mismatch")
	}
	return out, nil
}
