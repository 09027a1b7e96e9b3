package medicine

import (
	"context"
	"encoding/json"
	"testing"
)

type mockRepo struct {
	medicines map[string]*Medicine
}

func newMockRepo() *mockRepo {
	return &mockRepo{medicines: make(map[string]*Medicine)}
}

func (m *mockRepo) Create(ctx context.Context, med *Medicine) error {
	if _, ok := m.medicines[med.ID]; ok {
		return ErrDuplicateID
	}
	cp := *med
	m.medicines[med.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Medicine, error) {
	med, ok := m.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *med
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, med *Medicine) error {
	if _, ok := m.medicines[med.ID]; !ok {
		return ErrNotFound
	}
	cp := *med
	m.medicines[med.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	delete(m.medicines, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context) ([]*Medicine, error) {
	var out []*Medicine
	for _, med := range m.medicines {
		cp := *med
		out = append(out, &cp)
	}
	return out, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func TestCreate_RequiresComercialName(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Create(context.Background(), &Medicine{})
	if err == nil {
		t.Fatal("expected error for missing comercialName")
	}
}

func TestCreate_GeneratesIDAndCreatedAt(t *testing.T) {
	svc, _ := newTestService()

	m := &Medicine{ComercialName: "Ibupirac 600mg"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == "" {
		t.Error("expected id to be generated")
	}
	if m.CreatedAt == 0 {
		t.Error("expected createdAt to be set")
	}
	if m.IconType != "pill" {
		t.Errorf("expected default iconType pill, got %s", m.IconType)
	}
}

func TestCreate_PreservesSuppliedID(t *testing.T) {
	svc, _ := newTestService()

	m := &Medicine{ID: "legacy-1", ComercialName: "Amoxil", CreatedAt: 1700000000000}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "legacy-1" || m.CreatedAt != 1700000000000 {
		t.Errorf("expected legacy id and createdAt preserved, got %s / %d", m.ID, m.CreatedAt)
	}
}

func TestCreate_RejectsDuplicateID(t *testing.T) {
	svc, _ := newTestService()

	m := &Medicine{ID: "m1", ComercialName: "Amoxil"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Create(context.Background(), &Medicine{ID: "m1", ComercialName: "Otro"}); err != ErrDuplicateID {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestCreate_RejectsInvalidIconType(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Create(context.Background(), &Medicine{ComercialName: "Amoxil", IconType: "tablet"})
	if err == nil {
		t.Fatal("expected error for invalid iconType")
	}
}

func TestCreateThenGet_ReturnsEqualRecord(t *testing.T) {
	svc, _ := newTestService()

	in := &Medicine{
		ComercialName:        "Ibupirac 600mg",
		ActivePrinciples:     "Ibuprofeno",
		PharmacologicalGroup: "AINE",
		IconType:             "capsule",
	}
	if err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), in.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *in {
		t.Errorf("expected %+v, got %+v", in, got)
	}
}

func TestUpdate_MergesOnlyGivenFields(t *testing.T) {
	svc, _ := newTestService()

	m := &Medicine{
		ComercialName:    "Ibupirac 600mg",
		ActivePrinciples: "Ibuprofeno",
		AdditionalInfo:   "Tomar con comida",
	}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patch := json.RawMessage(`{"additionalInfo":"No exceder 3 tomas diarias"}`)
	got, err := svc.Update(context.Background(), m.ID, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.AdditionalInfo != "No exceder 3 tomas diarias" {
		t.Errorf("expected patched additionalInfo, got %s", got.AdditionalInfo)
	}
	if got.ComercialName != m.ComercialName || got.ActivePrinciples != m.ActivePrinciples {
		t.Error("expected untouched fields to be preserved")
	}
	if got.ID != m.ID || got.CreatedAt != m.CreatedAt {
		t.Error("expected id and createdAt to be immutable")
	}
}

func TestUpdate_CannotOverwriteID(t *testing.T) {
	svc, _ := newTestService()

	m := &Medicine{ComercialName: "Amoxil"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patch := json.RawMessage(`{"id":"hijacked","createdAt":1}`)
	got, err := svc.Update(context.Background(), m.ID, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != m.ID || got.CreatedAt != m.CreatedAt {
		t.Errorf("expected id/createdAt preserved, got %s / %d", got.ID, got.CreatedAt)
	}
}

func TestUpdate_AbsentID(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), "missing", json.RawMessage(`{}`))
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_AbsentIDIsNoop(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_ThenGetIsAbsent(t *testing.T) {
	svc, _ := newTestService()

	m := &Medicine{ComercialName: "Amoxil"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), m.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newTestService()

	old := &Medicine{ComercialName: "Viejo", CreatedAt: 100}
	recent := &Medicine{ComercialName: "Nuevo", CreatedAt: 200}
	svc.Create(context.Background(), old)
	svc.Create(context.Background(), recent)

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 medicines, got %d", len(items))
	}
	if items[0].ComercialName != "Nuevo" {
		t.Errorf("expected newest first, got %s", items[0].ComercialName)
	}
}

func TestGroup_Fallbacks(t *testing.T) {
	cases := []struct {
		name string
		m    Medicine
		want string
	}{
		{"group set", Medicine{PharmacologicalGroup: "AINE"}, "AINE"},
		{"action fallback", Medicine{PharmacologicalAction: "Analgésico, antipirético"}, "Analgésico"},
		{"unclassified", Medicine{}, "Sin clasificar"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.Group(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
