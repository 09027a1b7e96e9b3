package reaction

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("adverse reaction not found")
	ErrDuplicateID = errors.New("adverse reaction id already exists")
)

type Repository interface {
	Create(ctx context.Context, r *AdverseReaction) error
	GetByID(ctx context.Context, id string) (*AdverseReaction, error)
	Update(ctx context.Context, r *AdverseReaction) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*AdverseReaction, error)
	ListByPatient(ctx context.Context, patientID string) ([]*AdverseReaction, error)
}
