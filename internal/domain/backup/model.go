package backup

import (
	"github.com/pharmalocal/pharmalocal/internal/domain/medicine"
	"github.com/pharmalocal/pharmalocal/internal/domain/patient"
	"github.com/pharmalocal/pharmalocal/internal/domain/reaction"
	"github.com/pharmalocal/pharmalocal/internal/domain/treatment"
)

// CurrentVersion marks the envelope schema generation. Version 1
// predates adverse reactions; version 2 carries all four collections.
const CurrentVersion = 2

// AppData is the portable backup envelope holding the whole store.
type AppData struct {
	Medicines        []*medicine.Medicine        `json:"medicines"`
	Patients         []*patient.Patient          `json:"patients"`
	Treatments       []*treatment.Treatment      `json:"treatments"`
	AdverseReactions []*reaction.AdverseReaction `json:"adverseReactions"`
	Version          int                         `json:"version"`
}
