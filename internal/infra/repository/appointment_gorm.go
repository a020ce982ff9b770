package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// AppointmentGormRepository stores one row per appointment.
type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) List(ctx context.Context) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Order("date ASC, time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap models.Appointment,
) (*models.Appointment, error) {

	now := time.Now().UTC()
	ap.ID = uuid.NewString()
	ap.CreatedAt = now
	ap.UpdatedAt = now
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}

	if err := r.db.WithContext(ctx).Create(&ap).Error; err != nil {
		// only raised when a slot constraint exists
		if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	id string,
	change domain.Update,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := change.Apply(&ap); err != nil {
		return nil, err
	}
	ap.UpdatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Save(&ap).Error; err != nil {
		if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

// AuditLogFilter narrows the audit trail listing. Zero values are ignored.
type AuditLogFilter struct {
	Action   string
	EntityID string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

func (r *AppointmentGormRepository) ListAuditLogs(
	ctx context.Context,
	f AuditLogFilter,
) ([]models.AuditLog, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset((f.Page - 1) * f.Limit)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Compile-time check
var _ domain.Store = (*AppointmentGormRepository)(nil)
