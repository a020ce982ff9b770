package appointment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewDeleteAppointment(store domain.Store, audit *audit.Dispatcher) *DeleteAppointment {
	return &DeleteAppointment{store: store, audit: audit}
}

func (uc *DeleteAppointment) Execute(ctx context.Context, id string, actor string) error {
	ctx, span := tracer.Start(ctx, "appointment.delete")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.id", id))

	if err := uc.store.Delete(ctx, id); err != nil {
		return spanError(span, err)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: id,
	})
	return nil
}
