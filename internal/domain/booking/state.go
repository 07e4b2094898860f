package booking

import "github.com/BruksfildServices01/barber-booking/internal/models"

type State string

const (
	StateAvailable    State = "available"
	StateBooked       State = "booked"
	StateQuickService State = "quick_service"
	StateBlocked      State = "blocked"
)

type Reason string

const (
	ReasonNone           Reason = ""
	ReasonLunch          Reason = "lunch"
	ReasonClosed         Reason = "closed"
	ReasonOutsideSpecial Reason = "outside_special_period"
	ReasonUnavailable    Reason = "unavailable"
	ReasonCombo          Reason = "combo"
	ReasonCorrupt        Reason = "corrupt"
)

// Resolution is the state of one slot plus the record behind it, if any.
type Resolution struct {
	Key         SlotKey
	State       State
	Reason      Reason
	Reservation *models.SlotRecord
	Block       *models.SlotRecord
}

// Label is the text shown in the availability grid.
func Label(s State, r Reason) string {
	switch s {
	case StateAvailable:
		return "Disponível"
	case StateBooked:
		return "Ocupado"
	case StateQuickService:
		return "Pezim (Rápido)"
	}
	switch r {
	case ReasonLunch:
		return "Almoço"
	case ReasonClosed:
		return "Fechado"
	case ReasonOutsideSpecial:
		return "SDJ"
	}
	return "Indisponível"
}

// Classify turns the stored records of a slot into its state. It never looks
// at calendar rules.
func Classify(key SlotKey, reservation, block *models.SlotRecord) Resolution {
	res := Resolution{Key: key, Reservation: reservation, Block: block}

	if block != nil {
		res.State, res.Reason = StateBlocked, ReasonCombo
		return res
	}
	if reservation == nil {
		res.State = StateAvailable
		return res
	}
	if IsBlockRecord(reservation) || len(reservation.Bookings) == 0 {
		res.State, res.Reason = StateBlocked, ReasonCorrupt
		return res
	}

	switch reservation.Status {
	case StatusQuickService:
		res.State = StateQuickService
	case StatusBooked:
		res.State = StateBooked
	default:
		res.State, res.Reason = StateBlocked, ReasonCorrupt
	}
	return res
}
