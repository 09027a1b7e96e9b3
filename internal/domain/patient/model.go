package patient

import "time"

// Patient keeps the backup-document JSON key spelling.
type Patient struct {
	ID                string `json:"id"`
	FullName          string `json:"fullName"`
	Cedula            string `json:"cedula"`
	DateOfBirth       string `json:"dateOfBirth,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	Address           string `json:"address,omitempty"`
	MedicalConditions string `json:"medicalConditions,omitempty"`
	CreatedAt         int64  `json:"createdAt"`
}

// Age computes whole years from the dateOfBirth field at the given
// reference time. Returns -1 when the date is missing or unparseable.
func (p *Patient) Age(now time.Time) int {
	if p.DateOfBirth == "" {
		return -1
	}
	dob, err := time.Parse("2006-01-02", p.DateOfBirth)
	if err != nil {
		return -1
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return -1
	}
	return years
}
