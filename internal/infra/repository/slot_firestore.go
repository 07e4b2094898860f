package repository

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const DefaultCollection = "agendamentos"

// slotDoc is the Firestore shape of a slot record. Field names follow the
// documents already written by the shop.
type slotDoc struct {
	Kind         string          `firestore:"tipo"`
	Date         time.Time       `firestore:"data"`
	Time         string          `firestore:"horario"`
	Barber       string          `firestore:"barbeiro"`
	Status       string          `firestore:"status_geral"`
	CustomerName string          `firestore:"nome"`
	Bookings     []subBookingDoc `firestore:"agendamentos_individuais"`
	BlockedBy    string          `firestore:"bloqueado_por,omitempty"`
	CreatedAt    time.Time       `firestore:"criado_em"`
	UpdatedAt    time.Time       `firestore:"atualizado_em"`
}

type subBookingDoc struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"nome"`
	Phone     string    `firestore:"telefone"`
	Services  []string  `firestore:"servicos"`
	CreatedAt time.Time `firestore:"timestamp"`
}

func toDoc(rec *models.SlotRecord) slotDoc {
	d := slotDoc{
		Kind:         rec.Kind,
		Date:         rec.Date,
		Time:         rec.Time,
		Barber:       rec.Barber,
		Status:       rec.Status,
		CustomerName: rec.CustomerName,
		BlockedBy:    rec.BlockedBy,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		Bookings:     make([]subBookingDoc, 0, len(rec.Bookings)),
	}
	for _, b := range rec.Bookings {
		d.Bookings = append(d.Bookings, subBookingDoc{
			ID:        b.ID,
			Name:      b.CustomerName,
			Phone:     b.CustomerPhone,
			Services:  b.Services,
			CreatedAt: b.CreatedAt,
		})
	}
	return d
}

func (d slotDoc) record(id string, loc *time.Location) *models.SlotRecord {
	rec := &models.SlotRecord{
		ID:           id,
		Kind:         d.Kind,
		Date:         d.Date.In(loc),
		Time:         d.Time,
		Barber:       d.Barber,
		Status:       d.Status,
		CustomerName: d.CustomerName,
		BlockedBy:    d.BlockedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, b := range d.Bookings {
		rec.Bookings = append(rec.Bookings, models.SubBooking{
			ID:            b.ID,
			CustomerName:  b.Name,
			CustomerPhone: b.Phone,
			Services:      b.Services,
			CreatedAt:     b.CreatedAt,
		})
	}
	return rec
}

// SlotFirestoreStore keeps one document per slot id in a single collection.
// Transactions use Firestore optimistic concurrency, which already retries
// the callback on contention.
type SlotFirestoreStore struct {
	client     *firestore.Client
	collection string
	loc        *time.Location
}

var _ booking.Store = (*SlotFirestoreStore)(nil)

func NewSlotFirestoreStore(client *firestore.Client, collection string, loc *time.Location) *SlotFirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SlotFirestoreStore{client: client, collection: collection, loc: loc}
}

func (s *SlotFirestoreStore) ref(id string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id)
}

func (s *SlotFirestoreStore) decode(snap *firestore.DocumentSnapshot) (*models.SlotRecord, error) {
	var d slotDoc
	if err := snap.DataTo(&d); err != nil {
		// unreadable documents surface as an empty record so the slot resolves as corrupt
		return &models.SlotRecord{ID: snap.Ref.ID}, nil
	}
	return d.record(snap.Ref.ID, s.loc), nil
}

func (s *SlotFirestoreStore) Get(ctx context.Context, id string) (*models.SlotRecord, error) {
	snap, err := s.ref(id).Get(ctx)
	if err != nil {
		return nil, translateFirestore(err)
	}
	return s.decode(snap)
}

func (s *SlotFirestoreStore) ListDay(ctx context.Context, day time.Time) ([]models.SlotRecord, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	iter := s.client.Collection(s.collection).
		Where("data", ">=", start).
		Where("data", "<", end).
		Documents(ctx)
	defer iter.Stop()

	var out []models.SlotRecord
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, translateFirestore(err)
		}
		rec, _ := s.decode(snap)
		out = append(out, *rec)
	}
	return out, nil
}

func (s *SlotFirestoreStore) Set(ctx context.Context, rec *models.SlotRecord) error {
	_, err := s.ref(rec.ID).Set(ctx, toDoc(rec))
	return translateFirestore(err)
}

func (s *SlotFirestoreStore) Delete(ctx context.Context, id string) error {
	_, err := s.ref(id).Delete(ctx)
	return translateFirestore(err)
}

func (s *SlotFirestoreStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{store: s, tx: ftx})
	})
	if err == nil || httperr.KindOf(err) != "" || errors.Is(err, booking.ErrNotFound) {
		return err
	}
	return translateFirestore(err)
}

type firestoreTx struct {
	store *SlotFirestoreStore
	tx    *firestore.Transaction
}

func (t *firestoreTx) Get(_ context.Context, id string) (*models.SlotRecord, error) {
	snap, err := t.tx.Get(t.store.ref(id))
	if err != nil {
		return nil, translateFirestore(err)
	}
	return t.store.decode(snap)
}

func (t *firestoreTx) Create(_ context.Context, rec *models.SlotRecord) error {
	return translateFirestore(t.tx.Create(t.store.ref(rec.ID), toDoc(rec)))
}

func (t *firestoreTx) Update(_ context.Context, rec *models.SlotRecord) error {
	return translateFirestore(t.tx.Set(t.store.ref(rec.ID), toDoc(rec)))
}

func (t *firestoreTx) Delete(_ context.Context, id string) error {
	return translateFirestore(t.tx.Delete(t.store.ref(id)))
}

func translateFirestore(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return booking.ErrNotFound
	case codes.AlreadyExists:
		return httperr.ErrConflict("slot_unavailable")
	}
	return httperr.ErrConnectivity(err)
}
