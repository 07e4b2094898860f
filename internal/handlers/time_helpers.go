package handlers

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// parseDateInShop reads a YYYY-MM-DD date as midnight in the shop zone.
func parseDateInShop(loc *time.Location, dateStr string) (time.Time, error) {
	return timezone.ParseDate(dateStr, loc)
}
