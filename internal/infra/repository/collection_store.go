package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// CollectionStore keeps every appointment under one key of a KV medium.
// Each operation is an unsynchronized read-modify-write of the whole list:
// two writers that interleave lose one of the changes (last writer wins).
type CollectionStore struct {
	kv  KV
	key string

	newID func() string
	now   func() time.Time
}

func NewCollectionStore(kv KV, key string) *CollectionStore {
	return &CollectionStore{
		kv:    kv,
		key:   key,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// --------------------------------------------------
// Medium I/O
// --------------------------------------------------

func (s *CollectionStore) load(ctx context.Context) ([]models.Appointment, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []models.Appointment{}, nil
	}

	var list []models.Appointment
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", s.key, err)
	}
	if list == nil {
		list = []models.Appointment{}
	}
	return list, nil
}

func (s *CollectionStore) save(ctx context.Context, list []models.Appointment) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", s.key, err)
	}
	return s.kv.Set(ctx, s.key, raw)
}

// --------------------------------------------------
// Store
// --------------------------------------------------

func (s *CollectionStore) List(ctx context.Context) ([]models.Appointment, error) {
	return s.load(ctx)
}

func (s *CollectionStore) Create(
	ctx context.Context,
	ap models.Appointment,
) (*models.Appointment, error) {

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ap.ID = s.newID()
	ap.CreatedAt = now
	ap.UpdatedAt = now
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}

	list = append(list, ap)
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return &ap, nil
}

func (s *CollectionStore) Update(
	ctx context.Context,
	id string,
	change domain.Update,
) (*models.Appointment, error) {

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].ID != id {
			continue
		}

		updated := list[i]
		if err := change.Apply(&updated); err != nil {
			return nil, err
		}
		updated.UpdatedAt = s.now()
		list[i] = updated

		if err := s.save(ctx, list); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	return nil, domain.ErrNotFound
}

func (s *CollectionStore) Delete(ctx context.Context, id string) error {
	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range list {
		if list[i].ID == id {
			list = append(list[:i], list[i+1:]...)
			return s.save(ctx, list)
		}
	}

	return domain.ErrNotFound
}

// Compile-time check
var _ domain.Store = (*CollectionStore)(nil)
