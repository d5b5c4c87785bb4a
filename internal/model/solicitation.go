package model

// Solicitation is a parsed government solicitation: the requirement side of
// every match. Fields may be empty when the source text did not state them;
// empty requirement sets are treated as neutral by the matcher.
type Solicitation struct {
	ID                 string   `json:"id"`
	Number             string   `json:"number,omitempty"`
	Title              string   `json:"title"`
	Agency             string   `json:"agency,omitempty"`
	NAICSCodes         []string `json:"naics_codes,omitempty"`
	SetAsides          []string `json:"set_asides,omitempty"`
	Clearance          string   `json:"clearance,omitempty"`
	Capabilities       []string `json:"capabilities,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	PlaceOfPerformance string   `json:"place_of_performance,omitempty"`
	RawText            string   `json:"raw_text,omitempty"`
}
