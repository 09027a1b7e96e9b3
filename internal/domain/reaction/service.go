package reaction

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

var validSeverities = map[string]bool{
	SeverityLeve: true, SeverityModerada: true, SeverityGrave: true,
}

var validStatuses = map[string]bool{
	StatusPendiente: true, StatusRevisado: true, StatusReportado: true,
}

func validate(r *AdverseReaction) error {
	if r.PatientID == "" {
		return fmt.Errorf("patientId is required")
	}
	if r.MedicineID == "" {
		return fmt.Errorf("medicineId is required")
	}
	if strings.TrimSpace(r.Symptom) == "" {
		return fmt.Errorf("symptom is required")
	}
	if !validSeverities[r.Severity] {
		return fmt.Errorf("invalid severity: %s", r.Severity)
	}
	if !validStatuses[r.Status] {
		return fmt.Errorf("invalid status: %s", r.Status)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, r *AdverseReaction) error {
	if r.Status == "" {
		r.Status = StatusPendiente
	}
	if err := validate(r); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixMilli()
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id string) (*AdverseReaction, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges the partial JSON document over the stored record,
// keeping id and createdAt intact.
func (s *Service) Update(ctx context.Context, id string, patch json.RawMessage) (*AdverseReaction, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevID, prevCreated := r.ID, r.CreatedAt
	if err := json.Unmarshal(patch, r); err != nil {
		return nil, fmt.Errorf("invalid update payload: %w", err)
	}
	r.ID, r.CreatedAt = prevID, prevCreated
	if err := validate(r); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all reactions, newest first.
func (s *Service) List(ctx context.Context) ([]*AdverseReaction, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, nil
}

// ListByPatient returns a patient's reactions ranked by severity
// priority, grave first.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*AdverseReaction, error) {
	items, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	SortBySeverity(items)
	return items, nil
}
