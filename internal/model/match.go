package model

// Match recommendation labels.
const (
	MatchRecommended    = "Recommended"
	MatchBorderline     = "Borderline"
	MatchNotRecommended = "Not Recommended"
)

// ScoreComponent is one dimension's contribution to a match score.
type ScoreComponent struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Rationale string  `json:"rationale,omitempty"`
}

// MatchResult is the stage-one output for a single company.
type MatchResult struct {
	CompanyID      string           `json:"company_id"`
	CompanyName    string           `json:"company_name"`
	OverallScore   float64          `json:"overall_score"`
	Components     []ScoreComponent `json:"components"`
	Strengths      []string         `json:"strengths,omitempty"`
	Gaps           []string         `json:"gaps,omitempty"`
	Capped         bool             `json:"capped,omitempty"`
	CapReason      string           `json:"cap_reason,omitempty"`
	Recommendation string           `json:"recommendation"`
}
