package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"

	txAttempts = 3

	advisoryLockSQL = "SELECT pg_advisory_xact_lock(hashtext(?))"
)

// SlotGormStore keeps slot records in a Postgres table. The primary key on the
// slot id gives mutual exclusion: a locked read serializes updates on an
// existing row and the unique index rejects the second of two racing inserts.
// A reservation and the block of the same slot are different rows, so every
// transaction also takes a transaction-scoped advisory lock per slot before
// touching either of them.
type SlotGormStore struct {
	db *gorm.DB
}

var _ booking.Store = (*SlotGormStore)(nil)

func NewSlotGormStore(db *gorm.DB) *SlotGormStore {
	return &SlotGormStore{db: db}
}

// --------------------------------------------------
// Plain access
// --------------------------------------------------

func (r *SlotGormStore) Get(ctx context.Context, id string) (*models.SlotRecord, error) {
	var rec models.SlotRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *SlotGormStore) ListDay(ctx context.Context, day time.Time) ([]models.SlotRecord, error) {
	var recs []models.SlotRecord
	if err := r.db.WithContext(ctx).
		Where("date = ?", day.Format("2006-01-02")).
		Order("time ASC, id ASC").
		Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	return recs, nil
}

func (r *SlotGormStore) Set(ctx context.Context, rec *models.SlotRecord) error {
	return translate(r.db.WithContext(ctx).Save(rec).Error)
}

func (r *SlotGormStore) Delete(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SlotRecord{}).Error)
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

// RunInTx reruns fn when it lost an insert race or Postgres aborted the
// transaction; the next attempt reads the winner's row under lock.
func (r *SlotGormStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		tx := &gormTx{locked: make(map[string]bool)}
		err = r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			tx.db = db
			return fn(ctx, tx)
		})
		if err == nil {
			return nil
		}
		if !tx.raced && !isRetryableTx(err) {
			break
		}
	}

	if httperr.KindOf(err) != "" || errors.Is(err, booking.ErrNotFound) {
		return err
	}
	return translate(err)
}

type gormTx struct {
	db     *gorm.DB
	raced  bool
	locked map[string]bool
}

// lock serializes transactions on the slot of id until commit or rollback.
// Reads that follow the lock see rows committed by the previous holder.
func (t *gormTx) lock(ctx context.Context, id string) error {
	slot := booking.SlotIDOf(id)
	if t.locked[slot] {
		return nil
	}
	if err := t.db.WithContext(ctx).Exec(advisoryLockSQL, slot).Error; err != nil {
		return translate(err)
	}
	t.locked[slot] = true
	return nil
}

func (t *gormTx) Get(ctx context.Context, id string) (*models.SlotRecord, error) {
	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}

	var rec models.SlotRecord
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (t *gormTx) Create(ctx context.Context, rec *models.SlotRecord) error {
	if err := t.lock(ctx, rec.ID); err != nil {
		return err
	}
	err := t.db.WithContext(ctx).Create(rec).Error
	if isUniqueViolation(err) {
		t.raced = true
	}
	return translate(err)
}

func (t *gormTx) Update(ctx context.Context, rec *models.SlotRecord) error {
	if err := t.lock(ctx, rec.ID); err != nil {
		return err
	}
	res := t.db.WithContext(ctx).Model(&models.SlotRecord{}).
		Where("id = ?", rec.ID).
		Select("*").
		Updates(rec)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (t *gormTx) Delete(ctx context.Context, id string) error {
	if err := t.lock(ctx, id); err != nil {
		return err
	}
	return translate(t.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SlotRecord{}).Error)
}

// --------------------------------------------------
// Errors
// --------------------------------------------------

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return booking.ErrNotFound
	case isUniqueViolation(err):
		return httperr.ErrConflict("slot_unavailable")
	}
	return httperr.ErrConnectivity(err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isRetryableTx(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
