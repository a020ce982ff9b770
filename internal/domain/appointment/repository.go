package appointment

import (
	"context"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

var ErrNotFound = httperr.ErrBusiness("appointment_not_found")

// Store is the appointment collection. Create assigns id, createdAt and the
// initial status when empty. Update and Delete return ErrNotFound for
// unknown ids and leave the collection untouched.
type Store interface {
	List(ctx context.Context) ([]models.Appointment, error)
	Create(ctx context.Context, ap models.Appointment) (*models.Appointment, error)
	Update(ctx context.Context, id string, change Update) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// SlotLocker serialises check-then-create for a single (date, time).
// TryLock never waits: ok=false means another request holds the slot.
type SlotLocker interface {
	TryLock(ctx context.Context, key string) (release func(), ok bool, err error)
}
