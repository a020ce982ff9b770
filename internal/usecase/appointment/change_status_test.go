package appointment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

type recordingSink struct {
	sent []notify.Notification
	err  error
}

func (s *recordingSink) Send(_ context.Context, n notify.Notification) error {
	s.sent = append(s.sent, n)
	return s.err
}

func newChangeStatus(store domain.Store, sink notify.Sink, log zerolog.Logger) *ChangeStatus {
	return NewChangeStatus(store, notify.NewComposer("Carlach Detailing", "55"), sink, nil, nil, log)
}

func bookedAppointment() models.Appointment {
	return models.Appointment{
		ClientName:  "Maria",
		Phone:       "11987654321",
		CarModel:    "Civic",
		Plate:       "ABC-1234",
		ServiceType: "lavacao-basica-seda",
		Date:        "2024-10-15",
		Time:        "09:00",
		TotalPrice:  60,
	}
}

func TestChangeStatus_ConfirmNotifies(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ap := seed(t, store, bookedAppointment())[0]
	sink := &recordingSink{}

	res, err := newChangeStatus(store, sink, zerolog.Nop()).Execute(ctx, ap.ID, "confirmed", "admin")
	require.NoError(t, err)

	assert.Equal(t, "confirmed", res.Appointment.Status)
	require.NotNil(t, res.Notification)
	assert.Equal(t, domain.NotifyConfirmation, res.Notification.Kind)
	assert.True(t, strings.HasPrefix(res.Notification.Link, "https://wa.me/5511987654321?text="))
	require.Len(t, sink.sent, 1)

	list, _ := store.List(ctx)
	assert.Equal(t, "confirmed", list[0].Status)
}

func TestChangeStatus_SameStatusDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	booked := bookedAppointment()
	booked.Status = "confirmado"
	ap := seed(t, store, booked)[0]
	sink := &recordingSink{}

	res, err := newChangeStatus(store, sink, zerolog.Nop()).Execute(ctx, ap.ID, "confirmed", "admin")
	require.NoError(t, err)

	assert.Nil(t, res.Notification)
	assert.Empty(t, sink.sent)
}

func TestChangeStatus_BackToPendingIsAllowed(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	booked := bookedAppointment()
	booked.Status = "completed"
	ap := seed(t, store, booked)[0]

	res, err := newChangeStatus(store, nil, zerolog.Nop()).Execute(ctx, ap.ID, "pendente", "admin")
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Appointment.Status)
	assert.Nil(t, res.Notification)
}

func TestChangeStatus_SinkFailureIsLoggedOnly(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ap := seed(t, store, bookedAppointment())[0]

	var buf bytes.Buffer
	sink := &recordingSink{err: errors.New("kafka down")}

	res, err := newChangeStatus(store, sink, zerolog.New(&buf)).Execute(ctx, ap.ID, "completed", "admin")
	require.NoError(t, err)

	assert.Equal(t, "completed", res.Appointment.Status)
	require.NotNil(t, res.Notification)
	assert.Equal(t, domain.NotifyCompletion, res.Notification.Kind)
	assert.Contains(t, buf.String(), "notification relay failed")
}

func TestChangeStatus_Errors(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ap := seed(t, store, bookedAppointment())[0]
	uc := newChangeStatus(store, nil, zerolog.Nop())

	_, err := uc.Execute(ctx, "missing", "confirmed", "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Execute(ctx, ap.ID, "cancelado", "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
