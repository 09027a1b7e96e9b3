package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pharmalocal/pharmalocal/internal/domain/patient"
)

// TimelineHours is the canonical hour-column ordering of every matrix
// rendering: midnight, then the waking hours.
var TimelineHours = []int{0, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23}

// Warnings are printed on every treatment plan.
var Warnings = []string{
	"Siga estrictamente las dosis y horarios indicados",
	"No suspenda el tratamiento sin consulta médica",
	"Consulte al profesional de salud ante cualquier reacción adversa",
	"Mantenga los medicamentos fuera del alcance de niños",
}

// Unknown is the placeholder shown when a referenced patient or
// medicine no longer exists. Deletes never cascade, so readers must
// tolerate dangling references.
const Unknown = "Desconocido"

// Row is one medicine line of a treatment plan.
type Row struct {
	MedicineID       string `json:"medicineId"`
	Name             string `json:"name"`
	ActivePrinciples string `json:"activePrinciples,omitempty"`
	Group            string `json:"group"`
	Hours            []int  `json:"hours"`
	Instructions     string `json:"instructions,omitempty"`
}

// Plan is the materialized input of every document sink.
type Plan struct {
	CenterName  string           `json:"centerName"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Patient     *patient.Patient `json:"patient,omitempty"`
	Rows        []Row            `json:"rows"`
}

// PatientName resolves the display name, with the placeholder for a
// deleted or never-set patient.
func (p *Plan) PatientName() string {
	if p.Patient == nil || p.Patient.FullName == "" {
		return Unknown
	}
	return p.Patient.FullName
}

// PreviewGroup is the on-screen grouping of a plan by pharmacological
// classification.
type PreviewGroup struct {
	Group     string `json:"group"`
	Medicines []Row  `json:"medicines"`
}

// MatrixRow is one rendered line of the hour matrix: a mark per
// timeline column, plus the instructions shown beneath.
type MatrixRow struct {
	Name         string `json:"name"`
	Marks        []bool `json:"marks"`
	Instructions string `json:"instructions,omitempty"`
}

// Matrix is the fixed-column hour grid shared by the spreadsheet, PDF
// and print renderings.
type Matrix struct {
	Header []string    `json:"header"`
	Rows   []MatrixRow `json:"rows"`
}

// BuildMatrix lays the plan's rows onto the canonical hour columns.
func (p *Plan) BuildMatrix() Matrix {
	header := make([]string, 0, len(TimelineHours)+1)
	header = append(header, "Medicamento")
	for _, h := range TimelineHours {
		header = append(header, HourLabel(h))
	}

	m := Matrix{Header: header}
	for _, row := range p.Rows {
		marks := make([]bool, len(TimelineHours))
		for i, h := range TimelineHours {
			for _, rh := range row.Hours {
				if rh == h {
					marks[i] = true
					break
				}
			}
		}
		m.Rows = append(m.Rows, MatrixRow{Name: row.Name, Marks: marks, Instructions: row.Instructions})
	}
	return m
}

// HourLabel renders an hour as its zero-padded clock label.
func HourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// HourPeriod names the part of day an hour belongs to.
func HourPeriod(h int) string {
	switch {
	case h >= 6 && h <= 12:
		return "Mañana"
	case h >= 13 && h <= 18:
		return "Tarde"
	case h >= 19 && h <= 23:
		return "Noche"
	default:
		return "Medianoche"
	}
}

// HourList renders a sorted hour set as "08:00, 14:00, 20:00".
func HourList(hours []int) string {
	labels := make([]string, 0, len(hours))
	for _, h := range hours {
		labels = append(labels, HourLabel(h))
	}
	return strings.Join(labels, ", ")
}

// Slug lowercases a name and replaces every non-alphanumeric rune
// with an underscore, matching the filenames of previously exported
// plans.
func Slug(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToLower(name))
}

// Filename builds the export name: plan_tratamiento_<slug>_<date>.
func Filename(patientName string, date time.Time, ext string) string {
	slug := "paciente"
	if patientName != "" && patientName != Unknown {
		slug = Slug(patientName)
	}
	return fmt.Sprintf("plan_tratamiento_%s_%s.%s", slug, date.Format("2006-01-02"), ext)
}
