package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/timezone"
	"github.com/BruksfildServices01/detailing-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type BookingInput struct {
	ClientName   string `json:"clientName"`
	Phone        string `json:"phone"`
	CarModel     string `json:"carModel"`
	Plate        string `json:"plate"`
	VehicleSize  string `json:"vehicleSize"`
	ServiceType  string `json:"serviceType"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	HasWax       bool   `json:"hasWax"`
	Observations string `json:"observations"`
}

// BookingRules bound the bookable dates. Zero days disables a bound.
type BookingRules struct {
	Location       *time.Location
	MinAdvanceDays int
	MaxAdvanceDays int
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	store        domain.Store
	availability *CheckAvailability
	locker       domain.SlotLocker
	audit        *audit.Dispatcher
	metrics      *metrics.Metrics
	log          zerolog.Logger
	rules        BookingRules

	now func() time.Time
}

// NewCreateBooking wires the booking flow. A nil locker keeps the plain
// check-then-create sequence, where two simultaneous requests for one slot
// may both succeed.
func NewCreateBooking(
	store domain.Store,
	locker domain.SlotLocker,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log zerolog.Logger,
	rules BookingRules,
) *CreateBooking {
	if rules.Location == nil {
		rules.Location = timezone.Location(timezone.DefaultTimezone)
	}
	return &CreateBooking{
		store:        store,
		availability: NewCheckAvailability(store),
		locker:       locker,
		audit:        audit,
		metrics:      m,
		log:          log.With().Str("usecase", "create_booking").Logger(),
		rules:        rules,
		now:          time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in BookingInput,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.create_booking")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.service_type", in.ServiceType),
		attribute.String("appointment.date", in.Date),
		attribute.String("appointment.time", in.Time),
	)

	in = normalize(in)

	// --------------------------------------------------
	// 1️⃣ Campos do formulário (na ordem do formulário)
	// --------------------------------------------------
	v, slotChecked, err := uc.validate(ctx, in)
	if err != nil {
		uc.metrics.ObserveBooking("error")
		return nil, spanError(span, err)
	}
	if !v.Empty() {
		for _, f := range v.Fields {
			uc.metrics.ObserveValidationFailure(f.Field)
		}
		uc.metrics.ObserveBooking("invalid")
		return nil, spanError(span, v)
	}

	// --------------------------------------------------
	// 2️⃣ Porte do veículo e preço
	// --------------------------------------------------
	st := domain.ServiceType(in.ServiceType)
	size, _ := domain.ResolveVehicleSize(in.VehicleSize, st, in.CarModel)
	if size.Mismatch {
		uc.log.Warn().
			Str("car_model", in.CarModel).
			Str("service_size", string(size.Size)).
			Str("inferred_size", string(size.Inferred)).
			Msg("car model suggests a different vehicle size")
	}

	total, err := domain.TotalPrice(st, in.HasWax)
	if err != nil {
		return nil, spanError(span, err)
	}

	// --------------------------------------------------
	// 3️⃣ Reserva do horário (opcional)
	// --------------------------------------------------
	if uc.locker != nil && slotChecked {
		release, err := uc.reserve(ctx, in.Date, in.Time)
		if err != nil {
			return nil, spanError(span, err)
		}
		defer release()
	}

	// --------------------------------------------------
	// 4️⃣ Criação
	// --------------------------------------------------
	ap, err := uc.store.Create(ctx, models.Appointment{
		ClientName:   in.ClientName,
		Phone:        in.Phone,
		CarModel:     in.CarModel,
		Plate:        in.Plate,
		ServiceType:  in.ServiceType,
		VehicleSize:  string(size.Size),
		Date:         in.Date,
		Time:         in.Time,
		HasWax:       in.HasWax,
		TotalPrice:   total,
		Observations: in.Observations,
		Status:       string(domain.InitialStatus()),
	})
	if err != nil {
		if httperr.IsBusiness(err, "slot_taken") {
			uc.metrics.ObserveBooking("slot_taken")
		} else {
			uc.metrics.ObserveBooking("error")
		}
		return nil, spanError(span, err)
	}

	uc.metrics.ObserveBooking("created")
	uc.audit.Dispatch(audit.Event{
		Actor:    "customer",
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"date":        ap.Date,
			"time":        ap.Time,
			"serviceType": ap.ServiceType,
			"totalPrice":  ap.TotalPrice,
		},
	})
	uc.log.Info().
		Str("appointment_id", ap.ID).
		Str("date", ap.Date).
		Str("time", ap.Time).
		Float64("total_price", ap.TotalPrice).
		Msg("booking created")

	return ap, nil
}

// reserve holds the slot and re-checks it under the reservation.
func (uc *CreateBooking) reserve(ctx context.Context, date, t string) (func(), error) {
	release, ok, err := uc.locker.TryLock(ctx, domain.SlotKey(date, t))
	if err != nil {
		uc.metrics.ObserveBooking("error")
		return nil, err
	}
	if !ok {
		uc.metrics.ObserveBooking("slot_taken")
		return nil, domain.ErrSlotTaken
	}

	free, err := uc.availability.IsAvailable(ctx, date, t, "")
	if err != nil {
		release()
		uc.metrics.ObserveBooking("error")
		return nil, err
	}
	if !free {
		release()
		uc.metrics.ObserveBooking("slot_taken")
		return nil, domain.ErrSlotTaken
	}
	return release, nil
}

// ======================================================
// VALIDATION
// ======================================================

func normalize(in BookingInput) BookingInput {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.CarModel = strings.TrimSpace(in.CarModel)
	in.Plate = validators.NormalizePlate(in.Plate)
	in.VehicleSize = strings.ToLower(strings.TrimSpace(in.VehicleSize))
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Observations = strings.TrimSpace(in.Observations)
	return in
}

// validate returns the field errors in form order. slotChecked reports
// whether date and time were well formed enough to query availability.
func (uc *CreateBooking) validate(
	ctx context.Context,
	in BookingInput,
) (*httperr.ValidationError, bool, error) {

	v := &httperr.ValidationError{}

	if in.ClientName == "" {
		v.Add("clientName", "Nome é obrigatório")
	}

	switch {
	case in.Phone == "":
		v.Add("phone", "Telefone é obrigatório")
	case !validators.IsValidPhone(in.Phone):
		v.Add("phone", "Telefone inválido (DDD + número)")
	}

	if in.CarModel == "" {
		v.Add("carModel", "Modelo do carro é obrigatório")
	}
	if in.Plate == "" {
		v.Add("plate", "Placa é obrigatória")
	}

	size, sizeOK := domain.ParseVehicleSize(in.VehicleSize)
	switch {
	case in.VehicleSize == "":
		v.Add("vehicleSize", "Selecione o tamanho do veículo")
	case !sizeOK:
		v.Add("vehicleSize", "Tamanho do veículo inválido")
	}

	svc, svcOK := domain.LookupService(domain.ServiceType(in.ServiceType))
	switch {
	case in.ServiceType == "":
		v.Add("serviceType", "Selecione um serviço")
	case !svcOK:
		v.Add("serviceType", "Serviço inválido")
	case sizeOK && svc.Size != size:
		v.Add("serviceType", "O serviço selecionado não corresponde ao tamanho do veículo")
	}

	dateOK := false
	if in.Date == "" {
		v.Add("date", "Data é obrigatória")
	} else if day, err := domain.ParseDate(in.Date); err != nil {
		v.Add("date", "Data inválida")
	} else if !domain.IsBusinessDay(day) {
		v.Add("date", "Selecione um dia de semana (segunda a sábado)")
	} else if msg := uc.checkWindow(day); msg != "" {
		v.Add("date", msg)
	} else {
		dateOK = true
	}

	slotChecked := false
	switch {
	case in.Time == "":
		v.Add("time", "Horário é obrigatório")
	case !domain.IsBusinessSlot(in.Time):
		v.Add("time", "Selecione um horário válido")
	case in.Date != "":
		free, err := uc.availability.IsAvailable(ctx, in.Date, in.Time, "")
		if err != nil {
			return nil, false, err
		}
		if !free {
			v.Add("time", "Este horário já está reservado. Por favor, selecione outro.")
		} else {
			slotChecked = dateOK
		}
	}

	return v, slotChecked, nil
}

func (uc *CreateBooking) checkWindow(day time.Time) string {
	today := timezone.CalendarDate(uc.now(), uc.rules.Location)
	days := int(day.Sub(today).Hours() / 24)

	minOK := uc.rules.MinAdvanceDays <= 0 || days >= uc.rules.MinAdvanceDays
	maxOK := uc.rules.MaxAdvanceDays <= 0 || days <= uc.rules.MaxAdvanceDays
	if minOK && maxOK {
		return ""
	}

	first := today.AddDate(0, 0, uc.rules.MinAdvanceDays)
	if uc.rules.MaxAdvanceDays <= 0 {
		return fmt.Sprintf("Selecione uma data a partir de %s", first.Format("02/01/2006"))
	}
	last := today.AddDate(0, 0, uc.rules.MaxAdvanceDays)
	return fmt.Sprintf("Selecione uma data entre %s e %s", first.Format("02/01/2006"), last.Format("02/01/2006"))
}
