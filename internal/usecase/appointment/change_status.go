package appointment

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

type ChangeStatusResult struct {
	Appointment  *models.Appointment  `json:"appointment"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

type ChangeStatus struct {
	store    domain.Store
	composer *notify.Composer
	sink     notify.Sink
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewChangeStatus(
	store domain.Store,
	composer *notify.Composer,
	sink notify.Sink,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log zerolog.Logger,
) *ChangeStatus {
	return &ChangeStatus{
		store:    store,
		composer: composer,
		sink:     sink,
		audit:    audit,
		metrics:  m,
		log:      log.With().Str("usecase", "change_status").Logger(),
	}
}

// Execute sets the status without ordering rules. Entering confirmed or
// completed from another status composes the customer message; relaying it
// is best effort.
func (uc *ChangeStatus) Execute(
	ctx context.Context,
	id string,
	status string,
	actor string,
) (*ChangeStatusResult, error) {

	ctx, span := tracer.Start(ctx, "appointment.change_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", id),
		attribute.String("appointment.status", status),
	)

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, spanError(span, err)
	}

	current, err := findByID(ctx, uc.store, id)
	if err != nil {
		return nil, spanError(span, err)
	}
	// legacy values are compared in their normalized form
	from, err := domain.ParseStatus(current.Status)
	if err != nil {
		from = ""
	}

	target := string(to)
	ap, err := uc.store.Update(ctx, id, domain.Update{Status: &target})
	if err != nil {
		return nil, spanError(span, err)
	}

	uc.metrics.ObserveStatusChange(target)
	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"from": string(from), "to": target},
	})

	result := &ChangeStatusResult{Appointment: ap}

	kind := domain.Transition(from, to)
	n, ok := uc.composer.Compose(*ap, kind)
	if !ok {
		return result, nil
	}
	result.Notification = &n

	if uc.sink != nil {
		if err := uc.sink.Send(ctx, n); err != nil {
			uc.metrics.ObserveNotification(string(kind), false)
			uc.log.Error().Err(err).
				Str("appointment_id", ap.ID).
				Str("kind", string(kind)).
				Msg("notification relay failed")
			return result, nil
		}
	}
	uc.metrics.ObserveNotification(string(kind), true)

	return result, nil
}

func findByID(ctx context.Context, store domain.Store, id string) (*models.Appointment, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
