package model

// ConfirmationStatus classifies how well the evidence supports a factor, or
// the match as a whole. Ordered here from best to worst.
type ConfirmationStatus string

const (
	StatusConfirmed          ConfirmationStatus = "Confirmed"
	StatusPartiallyConfirmed ConfirmationStatus = "Partially Confirmed"
	StatusUnconfirmed        ConfirmationStatus = "Unconfirmed"
	StatusInsufficientData   ConfirmationStatus = "Insufficient Data"
	StatusContradicted       ConfirmationStatus = "Contradicted"
)

// Severity orders statuses from best (0) to worst. Unknown statuses rank
// worst so they can never mask a real problem.
func (s ConfirmationStatus) Severity() int {
	switch s {
	case StatusConfirmed:
		return 0
	case StatusPartiallyConfirmed:
		return 1
	case StatusUnconfirmed:
		return 2
	case StatusInsufficientData:
		return 3
	case StatusContradicted:
		return 4
	default:
		return 5
	}
}

// ConfirmationFactor is one of the six evidence checks run per company.
type ConfirmationFactor struct {
	Name           string             `json:"name"`
	Status         ConfirmationStatus `json:"status"`
	Confidence     float64            `json:"confidence"`
	Evidence       []string           `json:"evidence,omitempty"`
	Contradictions []string           `json:"contradictions,omitempty"`
}

// ConfirmationResult is the stage-two output for a single company.
type ConfirmationResult struct {
	CompanyID         string               `json:"company_id"`
	CompanyName       string               `json:"company_name"`
	OverallStatus     ConfirmationStatus   `json:"overall_status"`
	OverallConfidence float64              `json:"overall_confidence"`
	Factors           []ConfirmationFactor `json:"factors"`
	AlignmentSummary  string               `json:"alignment_summary"`
	SourcesUsed       []string             `json:"sources_used,omitempty"`
}

// Contradictions counts contradiction entries across all factors.
func (r ConfirmationResult) Contradictions() int {
	n := 0
	for _, f := range r.Factors {
		n += len(f.Contradictions)
	}
	return n
}
