package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrNotFound is returned by stores for a missing document.
var ErrNotFound = errors.New("slot record not found")

// Store is the document store holding reservations and blocks keyed by slot id.
// Implementations wrap infrastructure failures with httperr.ErrConnectivity and
// report a duplicate Create with httperr.ErrConflict.
type Store interface {
	Get(ctx context.Context, id string) (*models.SlotRecord, error)

	// ListDay returns every record (reservations and blocks) dated day.
	ListDay(ctx context.Context, day time.Time) ([]models.SlotRecord, error)

	Set(ctx context.Context, rec *models.SlotRecord) error
	Delete(ctx context.Context, id string) error

	// RunInTx runs fn atomically. fn may be invoked more than once.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the read-modify-write view handed to RunInTx callbacks. Reads must
// happen before writes.
type Tx interface {
	Get(ctx context.Context, id string) (*models.SlotRecord, error)
	Create(ctx context.Context, rec *models.SlotRecord) error
	Update(ctx context.Context, rec *models.SlotRecord) error
	Delete(ctx context.Context, id string) error
}
