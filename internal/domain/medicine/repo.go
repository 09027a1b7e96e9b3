package medicine

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("medicine not found")
	ErrDuplicateID = errors.New("medicine id already exists")
)

type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id string) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Medicine, error)
}
