package patient

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

func (r *LevelDBRepository) Create(ctx context.Context, p *Patient) error {
	ok, err := r.store.Has(store.Patients, p.ID)
	if err != nil {
		return err
	}
	if ok {
		return ErrDuplicateID
	}
	return r.store.Put(store.Patients, p.ID, p)
}

func (r *LevelDBRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	p := &Patient{}
	if err := r.store.Get(store.Patients, id, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *LevelDBRepository) Update(ctx context.Context, p *Patient) error {
	ok, err := r.store.Has(store.Patients, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.store.Put(store.Patients, p.ID, p)
}

func (r *LevelDBRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(store.Patients, id)
}

func (r *LevelDBRepository) List(ctx context.Context) ([]*Patient, error) {
	var out []*Patient
	err := r.store.List(store.Patients, func(raw []byte) error {
		p := &Patient{}
		if err := json.Unmarshal(raw, p); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}
