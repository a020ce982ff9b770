package appointment

import (
	"strings"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// Update is a partial change. Nil fields are left untouched; id, createdAt
// and totalPrice are not client-settable.
type Update struct {
	ClientName   *string `json:"clientName"`
	Phone        *string `json:"phone"`
	CarModel     *string `json:"carModel"`
	Plate        *string `json:"plate"`
	ServiceType  *string `json:"serviceType"`
	VehicleSize  *string `json:"vehicleSize"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	HasWax       *bool   `json:"hasWax"`
	Observations *string `json:"observations"`
	Status       *string `json:"status"`
}

func (u Update) Empty() bool {
	return u.ClientName == nil && u.Phone == nil && u.CarModel == nil &&
		u.Plate == nil && u.ServiceType == nil && u.VehicleSize == nil &&
		u.Date == nil && u.Time == nil && u.HasWax == nil &&
		u.Observations == nil && u.Status == nil
}

// TouchesSlot reports whether the change may move the appointment.
func (u Update) TouchesSlot() bool {
	return u.Date != nil || u.Time != nil
}

// Validate checks the shape of the supplied fields only.
func (u Update) Validate() error {
	v := &httperr.ValidationError{}

	if u.ClientName != nil && strings.TrimSpace(*u.ClientName) == "" {
		v.Add("clientName", "Nome é obrigatório")
	}
	if u.ServiceType != nil {
		if _, ok := LookupService(ServiceType(*u.ServiceType)); !ok {
			v.Add("serviceType", "Serviço inválido")
		}
	}
	if u.VehicleSize != nil && *u.VehicleSize != "" {
		if _, ok := ParseVehicleSize(*u.VehicleSize); !ok {
			v.Add("vehicleSize", "Porte do veículo inválido")
		}
	}
	if u.Date != nil {
		if _, err := ParseDate(*u.Date); err != nil {
			v.Add("date", "Data inválida")
		}
	}
	if u.Time != nil && !ValidTime(*u.Time) {
		v.Add("time", "Horário inválido")
	}
	if u.Status != nil {
		if _, err := ParseStatus(*u.Status); err != nil {
			v.Add("status", "Status inválido")
		}
	}

	return v.OrNil()
}

// Apply merges the change into ap and recomputes the stored price.
func (u Update) Apply(ap *models.Appointment) error {
	if u.ClientName != nil {
		ap.ClientName = strings.TrimSpace(*u.ClientName)
	}
	if u.Phone != nil {
		ap.Phone = *u.Phone
	}
	if u.CarModel != nil {
		ap.CarModel = strings.TrimSpace(*u.CarModel)
	}
	if u.Plate != nil {
		ap.Plate = *u.Plate
	}
	if u.ServiceType != nil {
		ap.ServiceType = *u.ServiceType
	}
	if u.VehicleSize != nil {
		ap.VehicleSize = *u.VehicleSize
	}
	if u.Date != nil {
		ap.Date = *u.Date
	}
	if u.Time != nil {
		ap.Time = *u.Time
	}
	if u.HasWax != nil {
		ap.HasWax = *u.HasWax
	}
	if u.Observations != nil {
		ap.Observations = *u.Observations
	}
	if u.Status != nil {
		st, err := ParseStatus(*u.Status)
		if err != nil {
			return err
		}
		ap.Status = string(st)
	}

	// A new service without an explicit size takes the size it encodes.
	if u.ServiceType != nil && u.VehicleSize == nil {
		ap.VehicleSize = ""
	}

	if u.ServiceType != nil || u.VehicleSize != nil || u.CarModel != nil {
		res, err := ResolveVehicleSize(ap.VehicleSize, ServiceType(ap.ServiceType), ap.CarModel)
		if err != nil {
			return err
		}
		ap.VehicleSize = string(res.Size)
	}

	total, err := TotalPrice(ServiceType(ap.ServiceType), ap.HasWax)
	if err != nil {
		return err
	}
	ap.TotalPrice = total
	return nil
}
