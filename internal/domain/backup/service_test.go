package backup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pharmalocal/pharmalocal/internal/domain/medicine"
	"github.com/pharmalocal/pharmalocal/internal/domain/patient"
	"github.com/pharmalocal/pharmalocal/internal/domain/reaction"
	"github.com/pharmalocal/pharmalocal/internal/domain/treatment"
	"github.com/pharmalocal/pharmalocal/internal/platform/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st), st
}

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	puts := []struct {
		collection string
		id         string
		value      interface{}
	}{
		{store.Medicines, "m1", &medicine.Medicine{ID: "m1", ComercialName: "Ibupirac 600mg", CreatedAt: 100}},
		{store.Patients, "p1", &patient.Patient{ID: "p1", FullName: "Ana Gómez", Cedula: "001-1234567-8", CreatedAt: 100}},
		{store.Treatments, "t1", &treatment.Treatment{
			ID: "t1", PatientID: "p1", MedicineID: "m1", StartDate: "2026-01-15", IsActive: true,
			Doses: []treatment.Dose{{Time: "08:00", Dosage: "1 tableta"}}, CreatedAt: 100,
		}},
		{store.Reactions, "r1", &reaction.AdverseReaction{
			ID: "r1", PatientID: "p1", MedicineID: "m1", Symptom: "Urticaria",
			Severity: reaction.SeverityGrave, Status: reaction.StatusPendiente, CreatedAt: 100,
		}},
	}
	for _, p := range puts {
		if err := st.Put(p.collection, p.id, p.value); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st)

	doc, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Wipe, then restore from the exported document.
	if err := svc.ClearAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Import(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Medicines) != 1 || data.Medicines[0].ComercialName != "Ibupirac 600mg" {
		t.Errorf("expected medicine restored, got %+v", data.Medicines)
	}
	if len(data.Patients) != 1 || data.Patients[0].Cedula != "001-1234567-8" {
		t.Errorf("expected patient restored, got %+v", data.Patients)
	}
	if len(data.Treatments) != 1 || len(data.Treatments[0].Doses) != 1 {
		t.Errorf("expected treatment with doses restored, got %+v", data.Treatments)
	}
	if len(data.AdverseReactions) != 1 || data.AdverseReactions[0].Severity != reaction.SeverityGrave {
		t.Errorf("expected reaction restored, got %+v", data.AdverseReactions)
	}
	if data.Version != CurrentVersion {
		t.Errorf("expected version %d, got %d", CurrentVersion, data.Version)
	}
}

func TestImport_ReplacesExistingContents(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st)

	doc := []byte(`{
		"medicines": [{"id":"m9","comercialName":"Amoxil","createdAt":5}],
		"patients": [],
		"treatments": [],
		"adverseReactions": [],
		"version": 2
	}`)
	if err := svc.Import(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Medicines) != 1 || data.Medicines[0].ID != "m9" {
		t.Errorf("expected only imported medicine, got %+v", data.Medicines)
	}
	if len(data.Patients) != 0 || len(data.Treatments) != 0 || len(data.AdverseReactions) != 0 {
		t.Error("expected other collections emptied by import")
	}
}

func TestImport_MissingArrayLeavesStoreUntouched(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st)

	before, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs := map[string][]byte{
		"missing treatments": []byte(`{"medicines":[],"patients":[],"adverseReactions":[],"version":2}`),
		"array is object":    []byte(`{"medicines":{},"patients":[],"treatments":[],"adverseReactions":[],"version":2}`),
		"not json":           []byte(`plain text`),
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			if err := svc.Import(context.Background(), doc); err == nil {
				t.Fatal("expected import to fail")
			}
			after, err := svc.Export(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(before) != string(after) {
				t.Error("expected store unchanged after failed import")
			}
		})
	}
}

func TestClearAll_EmptiesEveryCollection(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st)

	if err := svc.ClearAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Medicines)+len(data.Patients)+len(data.Treatments)+len(data.AdverseReactions) != 0 {
		t.Errorf("expected empty store, got %+v", data)
	}
}

func TestExport_EmptyStoreHasArrays(t *testing.T) {
	svc, _ := newTestService(t)

	doc, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An empty store must still export importable (non-null) arrays.
	if err := svc.Import(context.Background(), doc); err != nil {
		t.Errorf("expected exported document to be importable, got %v", err)
	}
}
