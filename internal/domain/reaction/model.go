package reaction

import "sort"

// Severity values, ordered by clinical priority. The priority map is
// the single canonical ordering: grave sorts before moderada before
// leve wherever reactions are ranked.
const (
	SeverityLeve     = "leve"
	SeverityModerada = "moderada"
	SeverityGrave    = "grave"
)

const (
	StatusPendiente = "pendiente"
	StatusRevisado  = "revisado"
	StatusReportado = "reportado"
)

// SeverityPriority ranks severities for report ordering; lower sorts first.
var SeverityPriority = map[string]int{
	SeverityGrave:    0,
	SeverityModerada: 1,
	SeverityLeve:     2,
}

// AdverseReaction is a pharmacovigilance report. Keeps the
// backup-document JSON key spelling.
type AdverseReaction struct {
	ID           string `json:"id"`
	PatientID    string `json:"patientId"`
	MedicineID   string `json:"medicineId"`
	Symptom      string `json:"symptom"`
	Severity     string `json:"severity"`
	DateReported string `json:"dateReported,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"createdAt"`
}

// SortBySeverity orders reactions grave first, then moderada, then
// leve, stably, so equal severities keep their incoming order.
func SortBySeverity(items []*AdverseReaction) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, ok := SeverityPriority[items[i].Severity]
		if !ok {
			pi = len(SeverityPriority)
		}
		pj, ok := SeverityPriority[items[j].Severity]
		if !ok {
			pj = len(SeverityPriority)
		}
		return pi < pj
	})
}
