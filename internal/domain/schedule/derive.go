package schedule

import (
	"regexp"
	"strconv"

	"github.com/pharmalocal/pharmalocal/internal/domain/treatment"
)

// DefaultHour is used when no time can be extracted anywhere.
const DefaultHour = 8

var (
	clockRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	plainClockRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)
	rangeRe      = regexp.MustCompile(`\((\d{1,2}):\d{2}\s*-\s*(\d{1,2}):\d{2}\)`)
)

// DeriveHour resolves an administration hour for a legacy dose whose
// time was stored as a free-text slot label. Precedence: an explicit
// HH:MM in the instructions, then in the dosage text, then the
// midpoint of a labeled range like "Comida (12:00-14:00)" (wrapping
// past midnight), then the fallback. Older reports were produced with
// exactly this ordering, so it must not change.
func DeriveHour(slotLabel, dosage, instructions string, fallback int) int {
	if h, ok := extractClock(instructions); ok {
		return h
	}
	if h, ok := extractClock(dosage); ok {
		return h
	}
	if h, ok := rangeMidpoint(slotLabel); ok {
		return h
	}
	return fallback
}

// extractClock pulls the first HH:MM occurrence with a valid hour.
func extractClock(s string) (int, bool) {
	for _, m := range clockRe.FindAllStringSubmatch(s, -1) {
		h, err := strconv.Atoi(m[1])
		if err == nil && h >= 0 && h <= 23 {
			return h, true
		}
	}
	return 0, false
}

// rangeMidpoint computes the middle hour of a "(HH:MM-HH:MM)" range,
// handling ranges spanning midnight like "(23:00-01:00)".
func rangeMidpoint(s string) (int, bool) {
	m := rangeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || start > 23 || end > 23 {
		return 0, false
	}
	if end < start {
		end += 24
	}
	return (start + (end-start)/2) % 24, true
}

// FromTreatments builds a session schedule from a patient's
// treatments. Modern doses carry a plain "HH:MM" time label which is
// used directly; legacy slot labels go through DeriveHour.
func FromTreatments(treatments []*treatment.Treatment, fallback int) *Builder {
	b := NewBuilder()
	for _, t := range treatments {
		for _, d := range t.Doses {
			hour := DeriveHour(d.Time, d.Dosage, d.SpecificInstructions, fallback)
			if m := plainClockRe.FindStringSubmatch(d.Time); m != nil {
				if h, err := strconv.Atoi(m[1]); err == nil && h <= 23 {
					hour = h
				}
			}
			b.AddHour(t.MedicineID, hour)
		}
		if t.GeneralInstructions != "" {
			b.SetInstructions(t.MedicineID, t.GeneralInstructions)
		}
	}
	return b
}
