package appointment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/validators"
)

var ErrEmptyUpdate = httperr.ErrBusiness("empty_update")

type UpdateAppointment struct {
	store        domain.Store
	availability *CheckAvailability
	audit        *audit.Dispatcher
}

func NewUpdateAppointment(store domain.Store, audit *audit.Dispatcher) *UpdateAppointment {
	return &UpdateAppointment{
		store:        store,
		availability: NewCheckAvailability(store),
		audit:        audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	id string,
	change domain.Update,
	actor string,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.update")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.id", id))

	if change.Empty() {
		return nil, spanError(span, ErrEmptyUpdate)
	}
	if err := change.Validate(); err != nil {
		return nil, spanError(span, err)
	}

	if change.Phone != nil && !validators.IsValidPhone(*change.Phone) {
		v := &httperr.ValidationError{}
		v.Add("phone", "Telefone inválido (DDD + número)")
		return nil, spanError(span, v)
	}
	if change.Plate != nil {
		plate := validators.NormalizePlate(*change.Plate)
		change.Plate = &plate
	}

	// --------------------------------------------------
	// Horário: mesma regra do formulário, ignorando o próprio registro
	// --------------------------------------------------
	if change.TouchesSlot() {
		current, err := findByID(ctx, uc.store, id)
		if err != nil {
			return nil, spanError(span, err)
		}

		date, t := current.Date, current.Time
		if change.Date != nil {
			date = *change.Date
		}
		if change.Time != nil {
			t = *change.Time
		}

		if err := checkSlotShape(date, t); err != nil {
			return nil, spanError(span, err)
		}

		free, err := uc.availability.IsAvailable(ctx, date, t, id)
		if err != nil {
			return nil, spanError(span, err)
		}
		if !free {
			return nil, spanError(span, domain.ErrSlotTaken)
		}
	}

	ap, err := uc.store.Update(ctx, id, change)
	if err != nil {
		return nil, spanError(span, err)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: change,
	})

	return ap, nil
}

func checkSlotShape(date, t string) error {
	v := &httperr.ValidationError{}

	day, err := domain.ParseDate(date)
	if err != nil {
		v.Add("date", "Data inválida")
	} else if !domain.IsBusinessDay(day) {
		v.Add("date", "Selecione um dia de semana (segunda a sábado)")
	}
	if !domain.IsBusinessSlot(t) {
		v.Add("time", "Selecione um horário válido")
	}

	return v.OrNil()
}
