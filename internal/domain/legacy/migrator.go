package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pharmalocal/pharmalocal/internal/domain/medicine"
	"github.com/pharmalocal/pharmalocal/internal/domain/patient"
	"github.com/pharmalocal/pharmalocal/internal/domain/reaction"
	"github.com/pharmalocal/pharmalocal/internal/domain/treatment"
	"github.com/pharmalocal/pharmalocal/internal/platform/store"
)

// MigratedFlag is the meta key gating the one-shot migration.
const MigratedFlag = "migrated_from_flat_store"

// blob is the old flat-document layout. Version 1 predates adverse
// reactions, so every array is optional; an absent one is just empty.
type blob struct {
	Medicines        []*medicine.Medicine        `json:"medicines"`
	Patients         []*patient.Patient          `json:"patients"`
	Treatments       []*treatment.Treatment      `json:"treatments"`
	AdverseReactions []*reaction.AdverseReaction `json:"adverseReactions"`
	Version          int                         `json:"version"`
}

// Store is the slice of the embedded store the migrator needs.
type Store interface {
	GetMeta(k string) (string, bool, error)
	SetMeta(k, v string) error
	BulkPut(collection string, records []store.Record) error
}

// Migrator moves records from the legacy single-document JSON file
// into per-entity collections, at most once. A parse failure is
// surfaced and leaves the flag unset so the next start retries;
// swallowing it would silently lose patient data.
type Migrator struct {
	store Store
	path  string
	log   zerolog.Logger
}

func NewMigrator(s Store, legacyPath string, log zerolog.Logger) *Migrator {
	return &Migrator{store: s, path: legacyPath, log: log}
}

// IsMigrated reports whether the migration has already completed.
func (m *Migrator) IsMigrated() (bool, error) {
	v, ok, err := m.store.GetMeta(MigratedFlag)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// Migrate runs the one-shot transfer. Record ids and createdAt values
// are preserved so migrated data stays referentially intact.
func (m *Migrator) Migrate(ctx context.Context) error {
	done, err := m.IsMigrated()
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Fresh install, nothing to migrate.
			if err := m.store.SetMeta(MigratedFlag, "true"); err != nil {
				return err
			}
			m.log.Info().Str("path", m.path).Msg("no legacy data file, migration skipped")
			return nil
		}
		return fmt.Errorf("read legacy data: %w", err)
	}

	var data blob
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse legacy data at %s: %w", m.path, err)
	}

	if err := m.insert(store.Medicines, medicineRecords(data.Medicines)); err != nil {
		return err
	}
	if err := m.insert(store.Patients, patientRecords(data.Patients)); err != nil {
		return err
	}
	if err := m.insert(store.Treatments, treatmentRecords(data.Treatments)); err != nil {
		return err
	}
	if err := m.insert(store.Reactions, reactionRecords(data.AdverseReactions)); err != nil {
		return err
	}

	if err := m.store.SetMeta(MigratedFlag, "true"); err != nil {
		return err
	}

	m.log.Info().
		Int("legacy_version", data.Version).
		Int("medicines", len(data.Medicines)).
		Int("patients", len(data.Patients)).
		Int("treatments", len(data.Treatments)).
		Int("adverse_reactions", len(data.AdverseReactions)).
		Msg("legacy data migrated")
	return nil
}

func (m *Migrator) insert(collection string, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := m.store.BulkPut(collection, records); err != nil {
		return fmt.Errorf("migrate %s: %w", collection, err)
	}
	return nil
}

func medicineRecords(items []*medicine.Medicine) []store.Record {
	out := make([]store.Record, 0, len(items))
	for _, m := range items {
		out = append(out, store.Record{ID: m.ID, Value: m})
	}
	return out
}

func patientRecords(items []*patient.Patient) []store.Record {
	out := make([]store.Record, 0, len(items))
	for _, p := range items {
		out = append(out, store.Record{ID: p.ID, Value: p})
	}
	return out
}

func treatmentRecords(items []*treatment.Treatment) []store.Record {
	out := make([]store.Record, 0, len(items))
	for _, t := range items {
		out = append(out, store.Record{ID: t.ID, Value: t})
	}
	return out
}

func reactionRecords(items []*reaction.AdverseReaction) []store.Record {
	out := make([]store.Record, 0, len(items))
	for _, r := range items {
		out = append(out, store.Record{ID: r.ID, Value: r})
	}
	return out
}
