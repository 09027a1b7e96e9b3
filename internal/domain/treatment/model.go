package treatment

// Dose is one scheduled administration within a treatment. Time is a
// label like "08:00"; legacy records may carry slot descriptors such
// as "Desayuno (07:00-09:00)" instead.
type Dose struct {
	Time                 string `json:"time"`
	Dosage               string `json:"dosage"`
	SpecificInstructions string `json:"specificInstructions,omitempty"`
}

// Treatment links a patient to a medicine with its dosing plan. Keeps
// the backup-document JSON key spelling. Deleting the referenced
// patient or medicine does not cascade here; readers resolve broken
// references to a placeholder.
type Treatment struct {
	ID                  string `json:"id"`
	PatientID           string `json:"patientId"`
	MedicineID          string `json:"medicineId"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate,omitempty"`
	IsActive            bool   `json:"isActive"`
	Doses               []Dose `json:"doses"`
	GeneralInstructions string `json:"generalInstructions,omitempty"`
	Notes               string `json:"notes,omitempty"`
	CreatedAt           int64  `json:"createdAt"`
}
