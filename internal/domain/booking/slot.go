package booking

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	KindReservation = "reservation"
	KindBlock       = "block"

	StatusBooked       = "booked"
	StatusQuickService = "quick_service"
	StatusBlocked      = "blocked"

	// BlockMarker is the customer name carried by synthetic block records.
	BlockMarker = "BLOQUEADO"

	blockSuffix = "_BLOCKED"
)

// SlotKey addresses one bookable unit.
type SlotKey struct {
	Date   time.Time
	Time   string
	Barber string
}

func NewSlotKey(date time.Time, hm, barber string) SlotKey {
	return SlotKey{
		Date:   time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		Time:   hm,
		Barber: barber,
	}
}

func (k SlotKey) DateString() string {
	return k.Date.Format("2006-01-02")
}

// ID is the reservation document id: date_time_barber.
func (k SlotKey) ID() string {
	return k.DateString() + "_" + k.Time + "_" + k.Barber
}

// BlockID is the block document id: date_time_barber_BLOCKED.
func (k SlotKey) BlockID() string {
	return k.ID() + blockSuffix
}

// SlotIDOf maps a reservation or block id to the reservation id of its slot.
func SlotIDOf(id string) string {
	return strings.TrimSuffix(id, blockSuffix)
}

func (k SlotKey) WithTime(hm string) SlotKey {
	k.Time = hm
	return k
}

func (k SlotKey) String() string {
	return k.ID()
}

func NewReservation(key SlotKey, status string, first models.SubBooking, now time.Time) *models.SlotRecord {
	return &models.SlotRecord{
		ID:        key.ID(),
		Kind:      KindReservation,
		Date:      key.Date,
		Time:      key.Time,
		Barber:    key.Barber,
		Status:    status,
		Bookings:  []models.SubBooking{first},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewBlock builds the block record that holds key on behalf of blockedBy.
func NewBlock(key SlotKey, blockedBy string, now time.Time) *models.SlotRecord {
	return &models.SlotRecord{
		ID:           key.BlockID(),
		Kind:         KindBlock,
		Date:         key.Date,
		Time:         key.Time,
		Barber:       key.Barber,
		Status:       StatusBlocked,
		CustomerName: BlockMarker,
		BlockedBy:    blockedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func IsBlockRecord(r *models.SlotRecord) bool {
	return r != nil && (r.Kind == KindBlock || r.CustomerName == BlockMarker)
}
