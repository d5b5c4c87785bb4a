package model

// Enrichment source identifiers. These are the only values Source may hold.
const (
	SourceUSASpending = "usaspending"
	SourceNIHReporter = "nih_reporter"
	SourceSBIR        = "sbir"
	SourceUSPTO       = "uspto"
	SourceWebSearch   = "websearch"
	SourceAIAnalysis  = "ai_analysis"
)

// EnrichmentPayload is the closed set of source-specific result shapes.
// Implemented only by AwardsPayload, PatentsPayload, SearchPayload, and
// AnalysisPayload.
type EnrichmentPayload interface {
	isEnrichmentPayload()
}

// Award is a single federal contract or grant record.
type Award struct {
	ID          string  `json:"id,omitempty"`
	Agency      string  `json:"agency,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Year        int     `json:"year,omitempty"`
}

// AwardsPayload holds contract/grant awards (usaspending, nih_reporter, sbir).
type AwardsPayload struct {
	Awards     []Award `json:"awards"`
	TotalValue float64 `json:"total_value,omitempty"`
}

// Patent is a single granted patent record.
type Patent struct {
	Number string `json:"number,omitempty"`
	Title  string `json:"title,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// PatentsPayload holds patent grants (uspto).
type PatentsPayload struct {
	Patents []Patent `json:"patents"`
}

// SearchFinding is one web search result considered relevant.
type SearchFinding struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// SearchPayload holds web presence findings (websearch).
type SearchPayload struct {
	Findings []SearchFinding `json:"findings"`
	Summary  string          `json:"summary,omitempty"`
}

// AnalysisPayload holds the AI capability assessment (ai_analysis).
type AnalysisPayload struct {
	Capabilities        []string `json:"capabilities,omitempty"`
	MissingCapabilities []string `json:"missing_capabilities,omitempty"`
	Differentiators     []string `json:"differentiators,omitempty"`
	Summary             string   `json:"summary,omitempty"`
	EstimatedEmployees  int      `json:"estimated_employees,omitempty"`
}

func (AwardsPayload) isEnrichmentPayload()   {}
func (PatentsPayload) isEnrichmentPayload()  {}
func (SearchPayload) isEnrichmentPayload()   {}
func (AnalysisPayload) isEnrichmentPayload() {}

// EnrichmentResult is one source's contribution to a company's evidence
// bundle. Confidence is the source's self-reported reliability in [0,1].
type EnrichmentResult struct {
	Source     string            `json:"source"`
	Confidence float64           `json:"confidence"`
	Payload    EnrichmentPayload `json:"payload,omitempty"`
}

// EnrichmentBundle is everything gathered about one company. Sources that
// failed are simply absent.
type EnrichmentBundle struct {
	CompanyID string             `json:"company_id"`
	Results   []EnrichmentResult `json:"results"`
}

// BySource returns the result for the named source, if present.
func (b EnrichmentBundle) BySource(source string) (EnrichmentResult, bool) {
	for _, r := range b.Results {
		if r.Source == source {
			return r, true
		}
	}
	return EnrichmentResult{}, false
}

// Sources lists the sources present in the bundle, in bundle order.
func (b EnrichmentBundle) Sources() []string {
	out := make([]string, 0, len(b.Results))
	for _, r := range b.Results {
		out = append(out, r.Source)
	}
	return out
}
