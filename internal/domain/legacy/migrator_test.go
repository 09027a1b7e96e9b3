package legacy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pharmalocal/pharmalocal/internal/platform/store"
)

func newTestMigrator(t *testing.T, legacyJSON string) (*Migrator, *store.Store) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	path := filepath.Join(dir, "pharmalocal_data.json")
	if legacyJSON != "" {
		if err := os.WriteFile(path, []byte(legacyJSON), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	return NewMigrator(st, path, zerolog.Nop()), st
}

const v2Blob = `{
	"medicines": [{"id":"m1","comercialName":"Ibupirac 600mg","createdAt":1700000000000}],
	"patients": [{"id":"p1","fullName":"Ana Gómez","cedula":"001-1234567-8","createdAt":1700000000001}],
	"treatments": [{"id":"t1","patientId":"p1","medicineId":"m1","startDate":"2026-01-15","isActive":true,"doses":[{"time":"08:00","dosage":"1 tableta"}],"createdAt":1700000000002}],
	"adverseReactions": [{"id":"r1","patientId":"p1","medicineId":"m1","symptom":"Urticaria","severity":"grave","status":"pendiente","createdAt":1700000000003}],
	"version": 2
}`

func TestMigrate_TransfersAllCollections(t *testing.T) {
	m, st := newTestMigrator(t, v2Blob)

	if err := m.Migrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := map[string]int{
		store.Medicines:  1,
		store.Patients:   1,
		store.Treatments: 1,
		store.Reactions:  1,
	}
	for collection, want := range counts {
		if n, _ := st.Count(collection); n != want {
			t.Errorf("expected %d records in %s, got %d", want, collection, n)
		}
	}

	// Original ids and timestamps must survive the transfer.
	var med struct {
		ID        string `json:"id"`
		CreatedAt int64  `json:"createdAt"`
	}
	if err := st.Get(store.Medicines, "m1", &med); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if med.CreatedAt != 1700000000000 {
		t.Errorf("expected createdAt preserved, got %d", med.CreatedAt)
	}

	done, err := m.IsMigrated()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Error("expected migration flag set")
	}
}

func TestMigrate_AcceptsVersion1WithoutReactions(t *testing.T) {
	m, st := newTestMigrator(t, `{
		"medicines": [{"id":"m1","comercialName":"Amoxil","createdAt":1}],
		"patients": [],
		"treatments": [],
		"version": 1
	}`)

	if err := m.Migrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := st.Count(store.Medicines); n != 1 {
		t.Errorf("expected 1 medicine, got %d", n)
	}
	if n, _ := st.Count(store.Reactions); n != 0 {
		t.Errorf("expected no reactions, got %d", n)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	m, st := newTestMigrator(t, v2Blob)

	if err := m.Migrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Migrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n, _ := st.Count(store.Medicines); n != 1 {
		t.Errorf("expected 1 medicine after double migration, got %d", n)
	}
}

func TestMigrate_AbsentFileSetsFlag(t *testing.T) {
	m, st := newTestMigrator(t, "")

	if err := m.Migrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done, err := m.IsMigrated()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Error("expected flag set when legacy file is absent")
	}
	if n, _ := st.Count(store.Medicines); n != 0 {
		t.Errorf("expected empty store, got %d medicines", n)
	}
}

func TestMigrate_ParseFailureLeavesFlagUnset(t *testing.T) {
	m, _ := newTestMigrator(t, `{"medicines": [broken`)

	if err := m.Migrate(context.Background()); err == nil {
		t.Fatal("expected parse error to surface")
	}

	done, err := m.IsMigrated()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done {
		t.Error("expected flag unset after parse failure so migration can retry")
	}
}
