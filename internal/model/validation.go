package model

// ValidationLevel buckets the final weighted score.
type ValidationLevel string

const (
	LevelExcellent  ValidationLevel = "Excellent"
	LevelGood       ValidationLevel = "Good"
	LevelAcceptable ValidationLevel = "Acceptable"
	LevelMarginal   ValidationLevel = "Marginal"
	LevelPoor       ValidationLevel = "Poor"
	LevelRejected   ValidationLevel = "Rejected"
)

// RiskLevel classifies pursuit risk. Critical always wins regardless of
// score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// ValidationComponent is one weighted input to the final score.
type ValidationComponent struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Rationale string  `json:"rationale,omitempty"`
}

// SWOT is the qualitative summary of the opportunity.
type SWOT struct {
	Strengths     []string `json:"strengths,omitempty"`
	Weaknesses    []string `json:"weaknesses,omitempty"`
	Opportunities []string `json:"opportunities,omitempty"`
	Threats       []string `json:"threats,omitempty"`
}

// ValidationResult is the stage-three output: the final verdict for one
// company.
type ValidationResult struct {
	CompanyID          string                `json:"company_id"`
	CompanyName        string                `json:"company_name"`
	Score              float64               `json:"score"`
	Level              ValidationLevel       `json:"level"`
	RiskLevel          RiskLevel             `json:"risk_level"`
	RiskFactors        []string              `json:"risk_factors,omitempty"`
	Components         []ValidationComponent `json:"components"`
	SWOT               SWOT                  `json:"swot"`
	RecommendedActions []string              `json:"recommended_actions,omitempty"`
	DecisionRationale  string                `json:"decision_rationale"`
	Recommendation     string                `json:"recommendation"`
}

// DataQuality describes how much independent data backed the assessment.
type DataQuality struct {
	SourceCount  int     `json:"source_count"`
	Completeness float64 `json:"completeness"` // share of profile fields populated, 0-1
}

// PipelineOutcome ties the three stages together for one company.
type PipelineOutcome struct {
	Match        MatchResult        `json:"match"`
	Confirmation ConfirmationResult `json:"confirmation"`
	Validation   ValidationResult   `json:"validation"`
}
