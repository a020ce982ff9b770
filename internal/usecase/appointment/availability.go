package appointment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

var ErrInvalidDate = httperr.ErrBusiness("invalid_date")

type CheckAvailability struct {
	store domain.Store
}

func NewCheckAvailability(store domain.Store) *CheckAvailability {
	return &CheckAvailability{store: store}
}

// IsAvailable is an exact match on the date and time strings. Status and
// service length are not considered; excludeID skips one record.
func (uc *CheckAvailability) IsAvailable(
	ctx context.Context,
	date string,
	t string,
	excludeID string,
) (bool, error) {

	ctx, span := tracer.Start(ctx, "appointment.is_available")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.date", date),
		attribute.String("appointment.time", t),
	)

	list, err := uc.store.List(ctx)
	if err != nil {
		return false, spanError(span, err)
	}

	return slotFree(list, date, t, excludeID), nil
}

// FreeSlots lists the business slots of date that nobody holds. Sundays
// have none.
func (uc *CheckAvailability) FreeSlots(ctx context.Context, date string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "appointment.free_slots")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.date", date))

	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, spanError(span, ErrInvalidDate)
	}
	if !domain.IsBusinessDay(day) {
		return []string{}, nil
	}

	list, err := uc.store.List(ctx)
	if err != nil {
		return nil, spanError(span, err)
	}

	free := make([]string, 0, len(domain.BusinessSlots))
	for _, slot := range domain.BusinessSlots {
		if slotFree(list, date, slot, "") {
			free = append(free, slot)
		}
	}
	return free, nil
}

func slotFree(list []models.Appointment, date, t, excludeID string) bool {
	for _, ap := range list {
		if excludeID != "" && ap.ID == excludeID {
			continue
		}
		if ap.Date == date && ap.Time == t {
			return false
		}
	}
	return true
}
