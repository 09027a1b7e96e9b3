package patient

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type mockRepo struct {
	patients map[string]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[string]*Patient)}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; ok {
		return ErrDuplicateID
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context) ([]*Patient, error) {
	var out []*Patient
	for _, p := range m.patients {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreate_RequiresNameAndCedula(t *testing.T) {
	svc := newTestService()

	if err := svc.Create(context.Background(), &Patient{Cedula: "001-1234567-8"}); err == nil {
		t.Error("expected error for missing fullName")
	}
	if err := svc.Create(context.Background(), &Patient{FullName: "Ana Gómez"}); err == nil {
		t.Error("expected error for missing cedula")
	}
}

func TestCreateThenGet_ReturnsEqualRecord(t *testing.T) {
	svc := newTestService()

	in := &Patient{
		FullName:    "Ana Gómez",
		Cedula:      "001-1234567-8",
		DateOfBirth: "1990-05-01",
		Phone:       "809-555-0101",
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
	svc := newTestService()

	p := &Patient{FullName: "Ana Gómez", Cedula: "001-1234567-8", Phone: "809-555-0101"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Update(context.Background(), p.ID, json.RawMessage(`{"phone":"809-555-0202"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phone != "809-555-0202" {
		t.Errorf("expected patched phone, got %s", got.Phone)
	}
	if got.FullName != p.FullName || got.Cedula != p.Cedula {
		t.Error("expected untouched fields preserved")
	}
}

func TestUpdate_CannotBlankRequiredFields(t *testing.T) {
	svc := newTestService()

	p := &Patient{FullName: "Ana Gómez", Cedula: "001-1234567-8"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Update(context.Background(), p.ID, json.RawMessage(`{"fullName":""}`)); err == nil {
		t.Error("expected error blanking fullName")
	}
}

func TestDelete_ThenGetIsAbsent(t *testing.T) {
	svc := newTestService()

	p := &Patient{FullName: "Ana Gómez", Cedula: "001-1234567-8"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_FiltersByNameOrCedula(t *testing.T) {
	svc := newTestService()

	svc.Create(context.Background(), &Patient{FullName: "Ana Gómez", Cedula: "001-1234567-8"})
	svc.Create(context.Background(), &Patient{FullName: "Luis Pérez", Cedula: "002-7654321-9"})

	byName, err := svc.List(context.Background(), "ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byName) != 1 || byName[0].FullName != "Ana Gómez" {
		t.Errorf("expected Ana Gómez, got %v", byName)
	}

	byCedula, err := svc.List(context.Background(), "002-76")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byCedula) != 1 || byCedula[0].FullName != "Luis Pérez" {
		t.Errorf("expected Luis Pérez, got %v", byCedula)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		dob  string
		want int
	}{
		{"birthday passed", "1990-05-01", 36},
		{"birthday upcoming", "1990-12-31", 35},
		{"missing", "", -1},
		{"unparseable", "01/05/1990", -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Patient{DateOfBirth: tc.dob}
			if got := p.Age(now); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
