package medicine

import "strings"

// Medicine is a catalog entry for a dispensed product. Field names keep
// the backup-document JSON key spelling so exported files stay portable
// across schema generations.
type Medicine struct {
	ID                         string `json:"id"`
	ComercialName              string `json:"comercialName"`
	ActivePrinciples           string `json:"activePrinciples,omitempty"`
	PharmacologicalGroup       string `json:"pharmacologicalGroup,omitempty"`
	PharmacologicalAction      string `json:"pharmacologicalAction,omitempty"`
	AdministrationInstructions string `json:"administrationInstructions,omitempty"`
	ConservationInstructions   string `json:"conservationInstructions,omitempty"`
	AdditionalInfo             string `json:"additionalInfo,omitempty"`
	IconType                   string `json:"iconType,omitempty"`
	ImageURL                   string `json:"imageUrl,omitempty"`
	CreatedAt                  int64  `json:"createdAt"`
}

// Group resolves the classification bucket used by report grouping:
// the pharmacological group when set, otherwise the first token of the
// legacy pharmacologicalAction field, otherwise "Sin clasificar".
func (m *Medicine) Group() string {
	if g := strings.TrimSpace(m.PharmacologicalGroup); g != "" {
		return g
	}
	if a := strings.TrimSpace(m.PharmacologicalAction); a != "" {
		return strings.TrimSpace(strings.SplitN(a, ",", 2)[0])
	}
	return "Sin clasificar"
}
