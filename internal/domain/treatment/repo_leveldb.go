package treatment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pharmalocal/pharmalocal/internal/platform/store"
)

type LevelDBRepository struct {
	store *store.Store
}

func NewLevelDBRepository(s *store.Store) *LevelDBRepository {
	return &LevelDBRepository{store: s}
}

func (r *LevelDBRepository) Create(ctx context.Context, t *Treatment) error {
	ok, err := r.store.Has(store.Treatments, t.ID)
	if err != nil {
		return err
	}
	if ok {
		return ErrDuplicateID
	}
	return r.store.Put(store.Treatments, t.ID, t)
}

func (r *LevelDBRepository) GetByID(ctx context.Context, id string) (*Treatment, error) {
	t := &Treatment{}
	if err := r.store.Get(store.Treatments, id, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *LevelDBRepository) Update(ctx context.Context, t *Treatment) error {
	ok, err := r.store.Has(store.Treatments, t.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.store.Put(store.Treatments, t.ID, t)
}

func (r *LevelDBRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(store.Treatments, id)
}

func (r *LevelDBRepository) List(ctx context.Context) ([]*Treatment, error) {
	var out []*Treatment
	err := r.store.List(store.Treatments, func(raw []byte) error {
		t := &Treatment{}
		if err := json.Unmarshal(raw, t); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

func (r *LevelDBRepository) ListByPatient(ctx context.Context, patientID string) ([]*Treatment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Treatment
	for _, t := range all {
		if t.PatientID == patientID {
			out = append(out, t)
		}
	}
	return out, nil
}
