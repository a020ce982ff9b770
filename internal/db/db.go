package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/detailing-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

const slotLockTTL = 10 * time.Second

// Storage is the selected appointment backend. DB is only set for the
// postgres driver; Locker is nil unless atomic reservation is enabled.
type Storage struct {
	Store  domain.Store
	Locker domain.SlotLocker
	DB     *gorm.DB
	Gorm   *infraRepo.AppointmentGormRepository

	closers []func() error
}

func (s *Storage) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	sc := cfg.Storage
	atomic := cfg.Booking.AtomicReservation
	st := &Storage{}

	switch sc.Driver {
	case config.DriverMemory:
		st.Store = infraRepo.NewCollectionStore(infraRepo.NewMemoryKV(), sc.Key)
		if atomic {
			st.Locker = infraRepo.NewMemorySlotLocker()
		}

	case config.DriverSQLite:
		kv, err := infraRepo.NewSQLiteKV(sc.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		st.closers = append(st.closers, kv.Close)
		st.Store = infraRepo.NewCollectionStore(kv, sc.Key)
		if atomic {
			st.Locker = infraRepo.NewMemorySlotLocker()
		}

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		st.closers = append(st.closers, client.Close)
		st.Store = infraRepo.NewCollectionStore(infraRepo.NewRedisKV(client), sc.Key)
		if atomic {
			st.Locker = infraRepo.NewRedisSlotLocker(client, slotLockTTL)
		}

	case config.DriverS3:
		client := infraRepo.NewS3Client(sc.S3)
		st.Store = infraRepo.NewCollectionStore(infraRepo.NewS3KV(client, sc.S3.Bucket), sc.Key)
		if atomic {
			st.Locker = infraRepo.NewMemorySlotLocker()
		}

	case config.DriverPostgres:
		gdb, err := NewDB(sc.DBUrl, atomic)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		st.closers = append(st.closers, sqlDB.Close)
		st.DB = gdb
		st.Gorm = infraRepo.NewAppointmentGormRepository(gdb)
		st.Store = st.Gorm
		if atomic {
			st.Locker = infraRepo.NewMemorySlotLocker()
		}

	default:
		return nil, fmt.Errorf("unknown storage driver %q", sc.Driver)
	}

	log.Info().
		Str("driver", sc.Driver).
		Bool("atomic_reservation", atomic).
		Msg("storage ready")

	return st, nil
}

// NewDB connects to postgres, tunes the pool and migrates the schema.
// With unique set, (date, time) gets a unique index so a slot can only be
// stored once.
func NewDB(dsn string, unique bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if unique {
		if err := db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS uniq_appointments_slot
			ON appointments (date, time)
		`).Error; err != nil {
			return nil, fmt.Errorf("failed to create slot index: %w", err)
		}
	}

	return db, nil
}
