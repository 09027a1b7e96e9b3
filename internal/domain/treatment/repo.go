package treatment

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("treatment not found")
	ErrDuplicateID = errors.New("treatment id already exists")
)

type Repository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id string) (*Treatment, error)
	Update(ctx context.Context, t *Treatment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Treatment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Treatment, error)
}
