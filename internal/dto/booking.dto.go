package dto

import "time"

type BookRequest struct {
	Name     string   `json:"name" binding:"required"`
	Phone    string   `json:"phone" binding:"required"`
	Date     string   `json:"date" binding:"required"` // YYYY-MM-DD
	Time     string   `json:"time" binding:"required"` // HH:mm
	Barber   string   `json:"barber"`                  // vazio ou "Sem preferência"
	Services []string `json:"services" binding:"required,min=1"`
}

type BookResponse struct {
	ID           string    `json:"id"`
	SlotID       string    `json:"slot_id"`
	Barber       string    `json:"barber"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Services     []string  `json:"services"`
	Total        int       `json:"total"`
	Status       string    `json:"status"`
	Merged       bool      `json:"merged"`
	ComboBlocked bool      `json:"combo_blocked"`
	SummaryURL   string    `json:"summary_url,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type CancelRequest struct {
	Phone  string `json:"phone" binding:"required"`
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	Barber string `json:"barber" binding:"required"`
}

type CancelledBooking struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Services []string `json:"services"`
}

type CancelResponse struct {
	SlotID    string             `json:"slot_id"`
	Cancelled []CancelledBooking `json:"cancelled"`
	Deleted   bool               `json:"deleted"`
	Unblocked bool               `json:"unblocked"`
	Warnings  []string           `json:"warnings,omitempty"`
}

type BarbersResponse struct {
	Barbers        []string `json:"barbers"`
	NoPreference   string   `json:"no_preference"`
	VisagismBarber string   `json:"visagism_barber"`
}
