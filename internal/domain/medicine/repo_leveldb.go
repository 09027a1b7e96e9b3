package medicine

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

func (r *LevelDBRepository) Create(ctx context.Context, m *Medicine) error {
	ok, err := r.store.Has(store.Medicines, m.ID)
	if err != nil {
		return err
	}
	if ok {
		return ErrDuplicateID
	}
	return r.store.Put(store.Medicines, m.ID, m)
}

func (r *LevelDBRepository) GetByID(ctx context.Context, id string) (*Medicine, error) {
	m := &Medicine{}
	if err := r.store.Get(store.Medicines, id, m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *LevelDBRepository) Update(ctx context.Context, m *Medicine) error {
	ok, err := r.store.Has(store.Medicines, m.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.store.Put(store.Medicines, m.ID, m)
}

func (r *LevelDBRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(store.Medicines, id)
}

func (r *LevelDBRepository) List(ctx context.Context) ([]*Medicine, error) {
	var out []*Medicine
	err := r.store.List(store.Medicines, func(raw []byte) error {
		m := &Medicine{}
		if err := json.Unmarshal(raw, m); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	return out, err
}
