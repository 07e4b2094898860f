package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// SlotMemoryStore keeps slot records in process. Transactions are serialized
// by a single lock, which is enough for one replica and for tests.
type SlotMemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.SlotRecord
}

var _ booking.Store = (*SlotMemoryStore)(nil)

func NewSlotMemoryStore() *SlotMemoryStore {
	return &SlotMemoryStore{records: make(map[string]*models.SlotRecord)}
}

func (s *SlotMemoryStore) Get(ctx context.Context, id string) (*models.SlotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, httperr.ErrConnectivity(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *SlotMemoryStore) ListDay(ctx context.Context, day time.Time) ([]models.SlotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, httperr.ErrConnectivity(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	want := day.Format("2006-01-02")
	var out []models.SlotRecord
	for _, rec := range s.records {
		if rec.Date.Format("2006-01-02") == want {
			out = append(out, *rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *SlotMemoryStore) Set(ctx context.Context, rec *models.SlotRecord) error {
	if err := ctx.Err(); err != nil {
		return httperr.ErrConnectivity(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *SlotMemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return httperr.ErrConnectivity(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// RunInTx stages writes and applies them only when fn returns nil.
func (s *SlotMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return httperr.ErrConnectivity(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s, staged: make(map[string]*models.SlotRecord)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for id, rec := range tx.staged {
		if rec == nil {
			delete(s.records, id)
			continue
		}
		s.records[id] = rec
	}
	return nil
}

type memoryTx struct {
	store  *SlotMemoryStore
	staged map[string]*models.SlotRecord
}

func (t *memoryTx) current(id string) (*models.SlotRecord, bool) {
	if rec, ok := t.staged[id]; ok {
		return rec, rec != nil
	}
	rec, ok := t.store.records[id]
	return rec, ok
}

func (t *memoryTx) Get(_ context.Context, id string) (*models.SlotRecord, error) {
	rec, ok := t.current(id)
	if !ok {
		return nil, booking.ErrNotFound
	}
	return rec.Clone(), nil
}

func (t *memoryTx) Create(_ context.Context, rec *models.SlotRecord) error {
	if _, ok := t.current(rec.ID); ok {
		return httperr.ErrConflict("slot_unavailable")
	}
	t.staged[rec.ID] = rec.Clone()
	return nil
}

func (t *memoryTx) Update(_ context.Context, rec *models.SlotRecord) error {
	if _, ok := t.current(rec.ID); !ok {
		return booking.ErrNotFound
	}
	t.staged[rec.ID] = rec.Clone()
	return nil
}

func (t *memoryTx) Delete(_ context.Context, id string) error {
	t.staged[id] = nil
	return nil
}
