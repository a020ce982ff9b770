package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func strPtr(s string) *string { return &s }

func TestUpdateAppointment_MovesToFreeSlot(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ap := seed(t, store, bookedAppointment())[0]

	updated, err := NewUpdateAppointment(store, nil).Execute(ctx, ap.ID, domain.Update{
		Time:  strPtr("10:00"),
		Plate: strPtr("xyz9a87"),
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "10:00", updated.Time)
	assert.Equal(t, "XYZ-9A87", updated.Plate)
	assert.Equal(t, ap.CreatedAt, updated.CreatedAt)
}

func TestUpdateAppointment_SameSlotExcludesItself(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ap := seed(t, store, bookedAppointment())[0]

	_, err := NewUpdateAppointment(store, nil).Execute(ctx, ap.ID, domain.Update{
		Time:         strPtr("09:00"),
		Observations: strPtr("cliente chega 10 min antes"),
	}, "admin")
	assert.NoError(t, err)
}

func TestUpdateAppointment_SlotTaken(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	other := bookedAppointment()
	other.Time = "10:00"
	aps := seed(t, store, bookedAppointment(), other)

	_, err := NewUpdateAppointment(store, nil).Execute(ctx, aps[0].ID, domain.Update{Time: strPtr("10:00")}, "admin")
	assert.ErrorIs(t, err, domain.ErrSlotTaken)
}

func TestUpdateAppointment_Rejections(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ap := seed(t, store, bookedAppointment())[0]
	uc := NewUpdateAppointment(store, nil)

	_, err := uc.Execute(ctx, ap.ID, domain.Update{}, "admin")
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = uc.Execute(ctx, ap.ID, domain.Update{Date: strPtr("2024-10-20")}, "admin")
	ve, ok := httperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "date", ve.FirstField())

	_, err = uc.Execute(ctx, ap.ID, domain.Update{Phone: strPtr("123")}, "admin")
	ve, ok = httperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "phone", ve.FirstField())

	_, err = uc.Execute(ctx, "missing", domain.Update{ClientName: strPtr("X")}, "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, _ := store.List(ctx)
	assert.Equal(t, []models.Appointment{ap}, list)
}

func TestDeleteAppointment(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	aps := seed(t, store, bookedAppointment(), bookedAppointment())
	uc := NewDeleteAppointment(store, nil)

	require.NoError(t, uc.Execute(ctx, aps[0].ID, "admin"))

	list, _ := store.List(ctx)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, uc.Execute(ctx, aps[0].ID, "admin"), domain.ErrNotFound)
}
