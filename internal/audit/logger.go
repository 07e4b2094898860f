package audit

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

var _ Sink = (*Logger)(nil)

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	log := models.AuditLog{
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Barber:   ev.Barber,
		Metadata: encodeMetadata(ev.Metadata),
	}

	return l.db.Create(&log).Error
}

// ZapSink writes events to the application log; used when there is no
// relational database.
type ZapSink struct {
	log *zap.Logger
}

var _ Sink = (*ZapSink)(nil)

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) Log(ev Event) error {
	s.log.Info("audit",
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
		zap.String("entity_id", ev.EntityID),
		zap.String("barber", ev.Barber),
		zap.String("metadata", encodeMetadata(ev.Metadata)),
	)
	return nil
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
