package treatment

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(t *Treatment) error {
	if t.PatientID == "" {
		return fmt.Errorf("patientId is required")
	}
	if t.MedicineID == "" {
		return fmt.Errorf("medicineId is required")
	}
	if t.StartDate == "" {
		return fmt.Errorf("startDate is required")
	}
	if len(t.Doses) == 0 {
		return fmt.Errorf("at least one dose is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, t *Treatment) error {
	if err := validate(t); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().UnixMilli()
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id string) (*Treatment, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges the partial JSON document over the stored record,
// keeping id and createdAt intact. The merged result must still pass
// validation, so a patch cannot leave a treatment without doses.
func (s *Service) Update(ctx context.Context, id string, patch json.RawMessage) (*Treatment, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevID, prevCreated := t.ID, t.CreatedAt
	if err := json.Unmarshal(patch, t); err != nil {
		return nil, fmt.Errorf("invalid update payload: %w", err)
	}
	t.ID, t.CreatedAt = prevID, prevCreated
	if err := validate(t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all treatments, newest first.
func (s *Service) List(ctx context.Context) ([]*Treatment, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

// ListByPatient returns a patient's treatments, newest first. When
// activeOnly is set, inactive treatments are filtered out.
func (s *Service) ListByPatient(ctx context.Context, patientID string, activeOnly bool) ([]*Treatment, error) {
	items, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		filtered := items[:0]
		for _, t := range items {
			if t.IsActive {
				filtered = append(filtered, t)
			}
		}
		items = filtered
	}
	sortNewestFirst(items)
	return items, nil
}

func sortNewestFirst(items []*Treatment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
}
