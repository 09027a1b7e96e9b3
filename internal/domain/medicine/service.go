package medicine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validIconTypes = map[string]bool{
	"pill": true, "syrup": true, "injection": true, "capsule": true, "cream": true,
}

func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if strings.TrimSpace(m.ComercialName) == "" {
		return fmt.Errorf("comercialName is required")
	}
	if m.IconType == "" {
		m.IconType = "pill"
	}
	if !validIconTypes[m.IconType] {
		return fmt.Errorf("invalid iconType: %s", m.IconType)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().UnixMilli()
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id string) (*Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges the partial JSON document over the stored record. The
// id and createdAt fields are never overwritten.
func (s *Service) Update(ctx context.Context, id string, patch json.RawMessage) (*Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevID, prevCreated := m.ID, m.CreatedAt
	if err := json.Unmarshal(patch, m); err != nil {
		return nil, fmt.Errorf("invalid update payload: %w", err)
	}
	m.ID, m.CreatedAt = prevID, prevCreated
	if strings.TrimSpace(m.ComercialName) == "" {
		return nil, fmt.Errorf("comercialName is required")
	}
	if m.IconType != "" && !validIconTypes[m.IconType] {
		return nil, fmt.Errorf("invalid iconType: %s", m.IconType)
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all medicines, newest first.
func (s *Service) List(ctx context.Context) ([]*Medicine, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, nil
}
