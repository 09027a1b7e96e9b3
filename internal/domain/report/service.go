package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmalocal/pharmalocal/internal/domain/medicine"
	"github.com/pharmalocal/pharmalocal/internal/domain/patient"
	"github.com/pharmalocal/pharmalocal/internal/domain/reaction"
	"github.com/pharmalocal/pharmalocal/internal/domain/schedule"
	"github.com/pharmalocal/pharmalocal/internal/domain/treatment"
)

// Service materializes treatment plans and the full-inventory
// workbook from the domain services. It never writes to the store.
type Service struct {
	medicines   *medicine.Service
	patients    *patient.Service
	treatments  *treatment.Service
	reactions   *reaction.Service
	centerName  string
	defaultHour int
	log         zerolog.Logger
}

func NewService(
	medicines *medicine.Service,
	patients *patient.Service,
	treatments *treatment.Service,
	reactions *reaction.Service,
	centerName string,
	defaultHour int,
	log zerolog.Logger,
) *Service {
	return &Service{
		medicines:   medicines,
		patients:    patients,
		treatments:  treatments,
		reactions:   reactions,
		centerName:  centerName,
		defaultHour: defaultHour,
		log:         log.With().Str("component", "report").Logger(),
	}
}

// ScheduleForPatient derives the per-medicine hour plan from the
// patient's active treatments.
func (s *Service) ScheduleForPatient(ctx context.Context, patientID string) ([]schedule.Entry, error) {
	treatments, err := s.treatments.ListByPatient(ctx, patientID, true)
	if err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	return schedule.FromTreatments(treatments, s.defaultHour).Entries(), nil
}

// BuildPlan resolves a set of schedule entries into a renderable plan.
// When entries is nil the plan is derived from the patient's active
// treatments. Deleted referenced medicines keep their row under the
// placeholder name.
func (s *Service) BuildPlan(ctx context.Context, patientID string, entries []schedule.Entry) (*Plan, error) {
	derived := entries == nil
	if derived {
		fromStore, err := s.ScheduleForPatient(ctx, patientID)
		if err != nil {
			return nil, err
		}
		entries = fromStore
	}

	plan := &Plan{
		CenterName:  s.centerName,
		GeneratedAt: time.Now(),
		Rows:        make([]Row, 0, len(entries)),
	}

	p, err := s.patients.Get(ctx, patientID)
	switch {
	case err == nil:
		plan.Patient = p
	case errors.Is(err, patient.ErrNotFound):
		s.log.Warn().Str("patient_id", patientID).Msg("plan requested for unknown patient")
	default:
		return nil, fmt.Errorf("get patient: %w", err)
	}

	for _, e := range entries {
		row := Row{
			MedicineID:   e.MedicineID,
			Name:         Unknown,
			Group:        "Sin clasificar",
			Hours:        e.Hours,
			Instructions: e.Instructions,
		}
		m, err := s.medicines.Get(ctx, e.MedicineID)
		switch {
		case err == nil:
			row.Name = m.ComercialName
			row.ActivePrinciples = m.ActivePrinciples
			row.Group = m.Group()
			if row.Instructions == "" {
				row.Instructions = m.AdministrationInstructions
			}
		case errors.Is(err, medicine.ErrNotFound):
			s.log.Warn().Str("medicine_id", e.MedicineID).Msg("plan references deleted medicine")
		default:
			return nil, fmt.Errorf("get medicine: %w", err)
		}
		plan.Rows = append(plan.Rows, row)
	}

	// Explicit session entries keep their order; derived plans read
	// best sorted by name.
	if derived {
		sort.SliceStable(plan.Rows, func(i, j int) bool { return plan.Rows[i].Name < plan.Rows[j].Name })
	}
	return plan, nil
}

// Preview groups a plan's rows by pharmacological classification for
// the on-screen summary. Groups come out alphabetically, medicines
// alphabetically within each group.
func (s *Service) Preview(plan *Plan) []PreviewGroup {
	byGroup := make(map[string][]Row)
	for _, row := range plan.Rows {
		byGroup[row.Group] = append(byGroup[row.Group], row)
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]PreviewGroup, 0, len(names))
	for _, name := range names {
		rows := byGroup[name]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
		groups = append(groups, PreviewGroup{Group: name, Medicines: rows})
	}
	return groups
}

// Workbook builds the full spreadsheet export: inventory, patients,
// treatments, pharmacovigilance and the visual planning matrix, led
// by a summary sheet.
func (s *Service) Workbook(ctx context.Context, w SheetWriter) ([]byte, error) {
	medicines, err := s.medicines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	patients, err := s.patients.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	treatments, err := s.treatments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	reactions, err := s.reactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}

	patientNames := make(map[string]string, len(patients))
	for _, p := range patients {
		patientNames[p.ID] = p.FullName
	}
	medicineNames := make(map[string]string, len(medicines))
	for _, m := range medicines {
		medicineNames[m.ID] = m.ComercialName
	}

	sheets := []Sheet{
		s.summarySheet(medicines, patients, treatments),
		inventorySheet(medicines),
		patientsSheet(patients),
		treatmentsSheet(treatments, patientNames, medicineNames),
		reactionsSheet(reactions, patientNames, medicineNames),
		planningSheet(treatments, medicineNames, s.defaultHour),
	}
	return w.WriteSheets(sheets)
}

func (s *Service) summarySheet(medicines []*medicine.Medicine, patients []*patient.Patient, treatments []*treatment.Treatment) Sheet {
	groups := make(map[string]struct{})
	for _, m := range medicines {
		groups[m.Group()] = struct{}{}
	}
	return Sheet{
		Name:   "Resumen",
		Widths: []float64{25, 15},
		Rows: [][]string{
			{"Concepto", "Valor"},
			{"Total Medicamentos", strconv.Itoa(len(medicines))},
			{"Total Pacientes", strconv.Itoa(len(patients))},
			{"Total Tratamientos", strconv.Itoa(len(treatments))},
			{"Grupos Farmacológicos", strconv.Itoa(len(groups))},
			{"Fecha del Reporte", time.Now().Format("02/01/2006")},
			{"Centro", s.centerName},
		},
	}
}

func inventorySheet(medicines []*medicine.Medicine) Sheet {
	rows := [][]string{{
		"ID", "Nombre Comercial", "Grupo Farmacológico", "Principio Activo",
		"Acción Farmacológica", "Instrucciones de Administración",
		"Instrucciones de Conservación", "Información Adicional", "Fecha de Creación",
	}}
	for _, m := range medicines {
		rows = append(rows, []string{
			m.ID, m.ComercialName, m.Group(), m.ActivePrinciples,
			m.PharmacologicalAction, m.AdministrationInstructions,
			m.ConservationInstructions, m.AdditionalInfo, dateOf(m.CreatedAt),
		})
	}
	return Sheet{
		Name:   "Inventario",
		Widths: []float64{15, 25, 25, 25, 30, 30, 25, 30, 15},
		Rows:   rows,
	}
}

func patientsSheet(patients []*patient.Patient) Sheet {
	rows := [][]string{{
		"ID", "Nombre Completo", "Cédula/DNI", "Fecha de Nacimiento",
		"Teléfono", "Email", "Dirección", "Condiciones Médicas", "Fecha de Creación",
	}}
	for _, p := range patients {
		rows = append(rows, []string{
			p.ID, p.FullName, p.Cedula, p.DateOfBirth,
			p.Phone, p.Email, p.Address, p.MedicalConditions, dateOf(p.CreatedAt),
		})
	}
	return Sheet{
		Name:   "Pacientes",
		Widths: []float64{15, 30, 20, 15, 15, 25, 30, 30, 15},
		Rows:   rows,
	}
}

func treatmentsSheet(treatments []*treatment.Treatment, patientNames, medicineNames map[string]string) Sheet {
	rows := [][]string{{
		"ID", "Paciente", "Medicamento", "Fecha de Inicio", "Fecha de Fin",
		"Estado", "Número de Dosis", "Instrucciones Generales", "Notas", "Fecha de Creación",
	}}
	for _, t := range treatments {
		status := "Inactivo"
		if t.IsActive {
			status = "Activo"
		}
		rows = append(rows, []string{
			t.ID, nameOr(patientNames, t.PatientID), nameOr(medicineNames, t.MedicineID),
			t.StartDate, t.EndDate, status, strconv.Itoa(len(t.Doses)),
			t.GeneralInstructions, t.Notes, dateOf(t.CreatedAt),
		})
	}
	return Sheet{
		Name:   "Tratamientos",
		Widths: []float64{15, 25, 25, 15, 15, 10, 15, 30, 30, 15},
		Rows:   rows,
	}
}

func reactionsSheet(reactions []*reaction.AdverseReaction, patientNames, medicineNames map[string]string) Sheet {
	sorted := make([]*reaction.AdverseReaction, len(reactions))
	copy(sorted, reactions)
	reaction.SortBySeverity(sorted)

	rows := [][]string{{
		"ID", "Paciente", "Medicamento", "Síntoma", "Gravedad",
		"Fecha Reportada", "Estado", "Notas", "Fecha de Creación",
	}}
	for _, r := range sorted {
		rows = append(rows, []string{
			r.ID, nameOr(patientNames, r.PatientID), nameOr(medicineNames, r.MedicineID),
			r.Symptom, r.Severity, r.DateReported, r.Status, r.Notes, dateOf(r.CreatedAt),
		})
	}
	return Sheet{
		Name:   "Farmacovigilancia",
		Widths: []float64{15, 25, 25, 30, 12, 15, 12, 30, 15},
		Rows:   rows,
	}
}

func planningSheet(treatments []*treatment.Treatment, medicineNames map[string]string, defaultHour int) Sheet {
	active := treatments[:0:0]
	for _, t := range treatments {
		if t.IsActive {
			active = append(active, t)
		}
	}
	entries := schedule.FromTreatments(active, defaultHour).Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return nameOr(medicineNames, entries[i].MedicineID) < nameOr(medicineNames, entries[j].MedicineID)
	})

	header := []string{"Medicamento"}
	widths := []float64{25}
	for _, h := range TimelineHours {
		header = append(header, HourLabel(h))
		widths = append(widths, 7)
	}
	rows := [][]string{header}
	for _, e := range entries {
		row := []string{nameOr(medicineNames, e.MedicineID)}
		for _, h := range TimelineHours {
			mark := ""
			for _, eh := range e.Hours {
				if eh == h {
					mark = "✓"
					break
				}
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
		if e.Instructions != "" {
			rows = append(rows, []string{"Instrucciones: " + e.Instructions})
		}
	}
	return Sheet{Name: "Planificación Visual", Widths: widths, Rows: rows}
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return Unknown
}

func dateOf(epochMillis int64) string {
	if epochMillis == 0 {
		return ""
	}
	return time.UnixMilli(epochMillis).Format("02/01/2006")
}
