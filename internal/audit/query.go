package audit

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Filter narrows the audit trail. Zero fields are ignored.
type Filter struct {
	Action string
	Barber string
	// SlotID matches one slot; SlotDate every slot of that day (YYYY-MM-DD).
	SlotID   string
	SlotDate string

	// Recorded between From (inclusive) and To (exclusive).
	From time.Time
	To   time.Time

	Page  int
	Limit int
}

// Normalize clamps paging to sane bounds.
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// List returns one page of the trail, newest first, plus the total match count.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	f = f.Normalize()

	q := l.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Barber != "" {
		q = q.Where("barber = ?", f.Barber)
	}
	if f.SlotID != "" {
		q = q.Where("entity_id = ?", f.SlotID)
	}
	if f.SlotDate != "" {
		// slot ids start with their date
		q = q.Where("entity_id LIKE ?", f.SlotDate+"_%")
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
