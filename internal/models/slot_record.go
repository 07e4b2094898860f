package models

import "time"

// SlotRecord is one document of the slot namespace: either a reservation for a
// (date, time, barber) key or a synthetic block on that key.
type SlotRecord struct {
	ID string `gorm:"primaryKey;size:120" json:"id"`

	Kind   string    `gorm:"size:20;not null" json:"kind"`
	Date   time.Time `gorm:"type:date;not null;index" json:"date"`
	Time   string    `gorm:"size:5;not null" json:"time"`
	Barber string    `gorm:"size:60;not null;index" json:"barber"`
	Status string    `gorm:"size:20;not null" json:"status"`

	// BLOQUEADO on blocks.
	CustomerName string       `gorm:"size:100" json:"customer_name,omitempty"`
	Bookings     []SubBooking `gorm:"serializer:json;type:jsonb" json:"bookings"`
	BlockedBy    string       `gorm:"size:120" json:"blocked_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubBooking is one customer's claim inside a reservation. Reservations hold
// more than one only after a quick-service merge.
type SubBooking struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Services      []string  `json:"services"`
	CreatedAt     time.Time `json:"created_at"`
}

// Services flattens the services of every sub-booking.
func (r *SlotRecord) Services() []string {
	var out []string
	for _, b := range r.Bookings {
		out = append(out, b.Services...)
	}
	return out
}

func (r *SlotRecord) Clone() *SlotRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Bookings = make([]SubBooking, len(r.Bookings))
	for i, b := range r.Bookings {
		b.Services = append([]string(nil), b.Services...)
		cp.Bookings[i] = b
	}
	return &cp
}
