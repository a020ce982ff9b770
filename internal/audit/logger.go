package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// GormSink stores events in the audit_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Log(ctx context.Context, ev Event) error {
	entry := models.AuditLog{
		Actor:    ev.Actor,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metadataJSON(ev.Metadata),
	}

	return s.db.WithContext(ctx).Create(&entry).Error
}

// LogSink writes events to the structured log when no database is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Log(_ context.Context, ev Event) error {
	s.log.Info().
		Str("audit_action", ev.Action).
		Str("actor", ev.Actor).
		Str("entity", ev.Entity).
		Str("entity_id", ev.EntityID).
		RawJSON("metadata", []byte(orEmptyObject(metadataJSON(ev.Metadata)))).
		Msg("audit")
	return nil
}

func metadataJSON(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

func orEmptyObject(s string) string {
	if s == "" {
		return "{}"
	}
	return s
}
