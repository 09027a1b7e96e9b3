package reaction

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

func (r *LevelDBRepository) Create(ctx context.Context, ar *AdverseReaction) error {
	ok, err := r.store.Has(store.Reactions, ar.ID)
	if err != nil {
		return err
	}
	if ok {
		return ErrDuplicateID
	}
	return r.store.Put(store.Reactions, ar.ID, ar)
}

func (r *LevelDBRepository) GetByID(ctx context.Context, id string) (*AdverseReaction, error) {
	ar := &AdverseReaction{}
	if err := r.store.Get(store.Reactions, id, ar); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ar, nil
}

func (r *LevelDBRepository) Update(ctx context.Context, ar *AdverseReaction) error {
	ok, err := r.store.Has(store.Reactions, ar.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.store.Put(store.Reactions, ar.ID, ar)
}

func (r *LevelDBRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(store.Reactions, id)
}

func (r *LevelDBRepository) List(ctx context.Context) ([]*AdverseReaction, error) {
	var out []*AdverseReaction
	err := r.store.List(store.Reactions, func(raw []byte) error {
		ar := &AdverseReaction{}
		if err := json.Unmarshal(raw, ar); err != nil {
			return err
		}
		out = append(out, ar)
		return nil
	})
	return out, err
}

func (r *LevelDBRepository) ListByPatient(ctx context.Context, patientID string) ([]*AdverseReaction, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*AdverseReaction
	for _, ar := range all {
		if ar.PatientID == patientID {
			out = append(out, ar)
		}
	}
	return out, nil
}
