package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pharmalocal/pharmalocal/internal/domain/medicine"
	"github.com/pharmalocal/pharmalocal/internal/domain/patient"
	"github.com/pharmalocal/pharmalocal/internal/domain/reaction"
	"github.com/pharmalocal/pharmalocal/internal/domain/treatment"
	"github.com/pharmalocal/pharmalocal/internal/platform/store"
)

// Store is the slice of the embedded store the codec needs. All
// multi-collection mutations happen in a single batch, so a failed
// import or clear leaves the store exactly as it was.
type Store interface {
	List(collection string, fn func(raw []byte) error) error
	ReplaceAll(data map[string][]store.Record) error
	ClearAll(collections ...string) error
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// Snapshot reads every collection into an envelope. No side effects.
func (s *Service) Snapshot(ctx context.Context) (*AppData, error) {
	data := &AppData{
		Medicines:        []*medicine.Medicine{},
		Patients:         []*patient.Patient{},
		Treatments:       []*treatment.Treatment{},
		AdverseReactions: []*reaction.AdverseReaction{},
		Version:          CurrentVersion,
	}

	if err := s.store.List(store.Medicines, func(raw []byte) error {
		m := &medicine.Medicine{}
		if err := json.Unmarshal(raw, m); err != nil {
			return err
		}
		data.Medicines = append(data.Medicines, m)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read medicines: %w", err)
	}

	if err := s.store.List(store.Patients, func(raw []byte) error {
		p := &patient.Patient{}
		if err := json.Unmarshal(raw, p); err != nil {
			return err
		}
		data.Patients = append(data.Patients, p)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read patients: %w", err)
	}

	if err := s.store.List(store.Treatments, func(raw []byte) error {
		t := &treatment.Treatment{}
		if err := json.Unmarshal(raw, t); err != nil {
			return err
		}
		data.Treatments = append(data.Treatments, t)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read treatments: %w", err)
	}

	if err := s.store.List(store.Reactions, func(raw []byte) error {
		r := &reaction.AdverseReaction{}
		if err := json.Unmarshal(raw, r); err != nil {
			return err
		}
		data.AdverseReactions = append(data.AdverseReactions, r)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read adverse reactions: %w", err)
	}

	return data, nil
}

// Export serializes the whole store as pretty-printed JSON.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	data, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return out, nil
}

// Import replaces the entire store contents with the document's. The
// document must carry all four collection arrays; a parse or shape
// failure leaves the store untouched.
func (s *Service) Import(ctx context.Context, doc []byte) error {
	if err := checkShape(doc); err != nil {
		return err
	}

	data := &AppData{}
	if err := json.Unmarshal(doc, data); err != nil {
		return fmt.Errorf("invalid backup document: %w", err)
	}

	payload := map[string][]store.Record{
		store.Medicines:  {},
		store.Patients:   {},
		store.Treatments: {},
		store.Reactions:  {},
	}
	for _, m := range data.Medicines {
		payload[store.Medicines] = append(payload[store.Medicines], store.Record{ID: m.ID, Value: m})
	}
	for _, p := range data.Patients {
		payload[store.Patients] = append(payload[store.Patients], store.Record{ID: p.ID, Value: p})
	}
	for _, t := range data.Treatments {
		payload[store.Treatments] = append(payload[store.Treatments], store.Record{ID: t.ID, Value: t})
	}
	for _, r := range data.AdverseReactions {
		payload[store.Reactions] = append(payload[store.Reactions], store.Record{ID: r.ID, Value: r})
	}

	return s.store.ReplaceAll(payload)
}

// ClearAll empties every collection in one batch. The caller is
// responsible for confirming the destructive intent.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.store.ClearAll(store.Medicines, store.Patients, store.Treatments, store.Reactions)
}

// checkShape verifies the document is a JSON object carrying all four
// collection arrays. Structural only: element fields are not checked.
func checkShape(doc []byte) error {
	var shape struct {
		Medicines        json.RawMessage `json:"medicines"`
		Patients         json.RawMessage `json:"patients"`
		Treatments       json.RawMessage `json:"treatments"`
		AdverseReactions json.RawMessage `json:"adverseReactions"`
	}
	if err := json.Unmarshal(doc, &shape); err != nil {
		return fmt.Errorf("invalid backup document: %w", err)
	}

	fields := map[string]json.RawMessage{
		"medicines":        shape.Medicines,
		"patients":         shape.Patients,
		"treatments":       shape.Treatments,
		"adverseReactions": shape.AdverseReactions,
	}
	for name, raw := range fields {
		if raw == nil {
			return fmt.Errorf("invalid backup document: missing %s array", name)
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return fmt.Errorf("invalid backup document: %s is not an array", name)
		}
	}
	return nil
}
