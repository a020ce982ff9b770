package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func baseConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory, Key: "appointments"},
	}
}

func TestOpen_Memory(t *testing.T) {
	st, err := Open(context.Background(), baseConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()

	assert.Nil(t, st.Locker)
	assert.Nil(t, st.DB)

	_, err = st.Store.Create(context.Background(), models.Appointment{ClientName: "Ana"})
	require.NoError(t, err)

	list, err := st.Store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOpen_SQLiteWithAtomicReservation(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "nested", "detailing.db")
	cfg.Booking.AtomicReservation = true

	st, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()

	assert.NotNil(t, st.Locker)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.Storage.Driver = config.DriverRedis
	cfg.Storage.Redis.Addr = mr.Addr()
	cfg.Booking.AtomicReservation = true

	st, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Store.Create(context.Background(), models.Appointment{ClientName: "Ana"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("appointments"))

	release, ok, err := st.Locker.TryLock(context.Background(), "2024-10-15 08:00")
	require.NoError(t, err)
	require.True(t, ok)
	release()
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := baseConfig()
	cfg.Storage.Driver = config.DriverRedis
	cfg.Storage.Redis.Addr = addr

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.Driver = "mongo"

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
