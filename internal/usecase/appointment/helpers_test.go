package appointment

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// monday 2024-10-14 09:00 in Sao Paulo
var fixedNow = time.Date(2024, 10, 14, 12, 0, 0, 0, time.UTC)

func newStore() domain.Store {
	return repository.NewCollectionStore(repository.NewMemoryKV(), "appointments")
}

func newCreateBooking(store domain.Store, locker domain.SlotLocker) *CreateBooking {
	uc := NewCreateBooking(store, locker, nil, nil, zerolog.Nop(), BookingRules{
		Location:       time.FixedZone("BRT", -3*60*60),
		MinAdvanceDays: 1,
		MaxAdvanceDays: 30,
	})
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func validInput() BookingInput {
	return BookingInput{
		ClientName:  "Maria Silva",
		Phone:       "(11) 98765-4321",
		CarModel:    "Honda Civic",
		Plate:       "abc1234",
		VehicleSize: "seda",
		ServiceType: "lavacao-basica-seda",
		Date:        "2024-10-15",
		Time:        "09:00",
	}
}

func seed(t *testing.T, store domain.Store, aps ...models.Appointment) []models.Appointment {
	t.Helper()
	out := make([]models.Appointment, 0, len(aps))
	for _, ap := range aps {
		created, err := store.Create(context.Background(), ap)
		require.NoError(t, err)
		out = append(out, *created)
	}
	return out
}

// barrierStore makes the first n List calls wait for each other, so every
// caller sees the collection as it was before anyone wrote. Creates are
// serialized: only the availability check races, not the write itself.
type barrierStore struct {
	domain.Store
	calls    int32
	n        int32
	wg       sync.WaitGroup
	createMu sync.Mutex
}

func newBarrierStore(inner domain.Store, n int) *barrierStore {
	b := &barrierStore{Store: inner, n: int32(n)}
	b.wg.Add(n)
	return b
}

func (b *barrierStore) List(ctx context.Context) ([]models.Appointment, error) {
	list, err := b.Store.List(ctx)
	if atomic.AddInt32(&b.calls, 1) <= b.n {
		b.wg.Done()
		b.wg.Wait()
	}
	return list, err
}

func (b *barrierStore) Create(ctx context.Context, ap models.Appointment) (*models.Appointment, error) {
	b.createMu.Lock()
	defer b.createMu.Unlock()
	return b.Store.Create(ctx, ap)
}
