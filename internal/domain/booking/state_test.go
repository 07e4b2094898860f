package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestSlotKeyIDs(t *testing.T) {
	key := NewSlotKey(time.Date(2025, time.July, 15, 14, 3, 0, 0, time.UTC), "10:00", "Lucas Borges")

	assert.Equal(t, "2025-07-15_10:00_Lucas Borges", key.ID())
	assert.Equal(t, "2025-07-15_10:00_Lucas Borges_BLOCKED", key.BlockID())
	assert.Equal(t, "2025-07-15_10:30_Lucas Borges", key.WithTime("10:30").ID())

	// reservation and block share one slot lock
	assert.Equal(t, key.ID(), SlotIDOf(key.BlockID()))
	assert.Equal(t, key.ID(), SlotIDOf(key.ID()))
}

func TestClassify(t *testing.T) {
	key := NewSlotKey(time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC), "14:00", "Aluizio")
	now := time.Now()
	sub := models.SubBooking{ID: "a", CustomerName: "Ana", CustomerPhone: "1", Services: []string{"Pezim"}}

	assert.Equal(t, StateAvailable, Classify(key, nil, nil).State)

	quick := NewReservation(key, StatusQuickService, sub, now)
	assert.Equal(t, StateQuickService, Classify(key, quick, nil).State)

	booked := NewReservation(key, StatusBooked, sub, now)
	assert.Equal(t, StateBooked, Classify(key, booked, nil).State)

	block := NewBlock(key, "other", now)
	res := Classify(key, nil, block)
	assert.Equal(t, StateBlocked, res.State)
	assert.Equal(t, ReasonCombo, res.Reason)

	corrupt := NewReservation(key, "weird", sub, now)
	res = Classify(key, corrupt, nil)
	assert.Equal(t, StateBlocked, res.State)
	assert.Equal(t, ReasonCorrupt, res.Reason)

	empty := NewReservation(key, StatusBooked, sub, now)
	empty.Bookings = nil
	assert.Equal(t, ReasonCorrupt, Classify(key, empty, nil).Reason)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Disponível", Label(StateAvailable, ReasonNone))
	assert.Equal(t, "Pezim (Rápido)", Label(StateQuickService, ReasonNone))
	assert.Equal(t, "Almoço", Label(StateBlocked, ReasonLunch))
	assert.Equal(t, "Indisponível", Label(StateBlocked, ReasonUnavailable))
	assert.Equal(t, "Indisponível", Label(StateBlocked, ReasonCombo))
}
