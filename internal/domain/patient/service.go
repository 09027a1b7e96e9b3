package patient

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

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("fullName is required")
	}
	if strings.TrimSpace(p.Cedula) == "" {
		return fmt.Errorf("cedula is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges the partial JSON document over the stored record,
// keeping id and createdAt intact.
func (s *Service) Update(ctx context.Context, id string, patch json.RawMessage) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevID, prevCreated := p.ID, p.CreatedAt
	if err := json.Unmarshal(patch, p); err != nil {
		return nil, fmt.Errorf("invalid update payload: %w", err)
	}
	p.ID, p.CreatedAt = prevID, prevCreated
	if strings.TrimSpace(p.FullName) == "" {
		return nil, fmt.Errorf("fullName is required")
	}
	if strings.TrimSpace(p.Cedula) == "" {
		return nil, fmt.Errorf("cedula is required")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all patients, newest first. The query filter matches
// name or cedula, case-insensitively.
func (s *Service) List(ctx context.Context, query string) ([]*Patient, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		filtered := items[:0]
		for _, p := range items {
			if strings.Contains(strings.ToLower(p.FullName), q) ||
				strings.Contains(strings.ToLower(p.Cedula), q) {
				filtered = append(filtered, p)
			}
		}
		items = filtered
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, nil
}
