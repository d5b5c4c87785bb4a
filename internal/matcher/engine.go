// Package matcher scores a candidate company against a solicitation across
// seven weighted dimensions and emits a MatchResult.
package matcher

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// Thresholds for strength/gap statements and recommendation labels.
const (
	strengthThreshold    = 0.7
	gapThreshold         = 0.4
	recommendedThreshold = 0.75
	borderlineThreshold  = 0.50
	hardRequirementCap   = 0.49
)

type dimensionScorer func(model.Solicitation, model.Company) (float64, string)

var scorers = map[string]dimensionScorer{
	DimNAICS:           scoreNAICS,
	DimCapabilities:    scoreCapabilities,
	DimPastPerformance: scorePastPerformance,
	DimSizeStatus:      scoreSizeStatus,
	DimClearance:       scoreClearance,
	DimLocation:        scoreLocation,
	DimKeywords:        scoreKeywords,
}

var dimensionLabels = map[string]string{
	DimNAICS:           "NAICS alignment",
	DimCapabilities:    "capability coverage",
	DimPastPerformance: "past performance relevance",
	DimSizeStatus:      "size/status eligibility",
	DimClearance:       "security clearance",
	DimLocation:        "location",
	DimKeywords:        "keyword alignment",
}

// Engine scores companies against a solicitation. Immutable after
// construction; safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine validates the weight table and returns a scoring engine.
func NewEngine(weights Weights) (*Engine, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: weights}, nil
}

// Weights returns a copy of the engine's weight table.
func (e *Engine) Weights() Weights {
	out := make(Weights, len(e.weights))
	for k, v := range e.weights {
		out[k] = v
	}
	return out
}

// Score evaluates one company against the solicitation. Dimensions are
// evaluated in fixed order; the weighted sum is then subject to the
// hard-requirement caps for unmet set-aside and clearance requirements.
func (e *Engine) Score(sol model.Solicitation, c model.Company) model.MatchResult {
	result := model.MatchResult{
		CompanyID:   c.ID,
		CompanyName: c.Name,
		Components:  make([]model.ScoreComponent, 0, len(dimensions)),
	}

	raw := make(map[string]float64, len(dimensions))
	total := 0.0
	for _, dim := range dimensions {
		score, rationale := scorers[dim](sol, c)
		raw[dim] = score
		weight := e.weights[dim]
		total += score * weight
		result.Components = append(result.Components, model.ScoreComponent{
			Dimension: dim,
			Score:     score,
			Weight:    weight,
			Rationale: rationale,
		})

		label := dimensionLabels[dim]
		if score >= strengthThreshold {
			result.Strengths = append(result.Strengths, fmt.Sprintf("strong %s", label))
		} else if score < gapThreshold {
			result.Gaps = append(result.Gaps, fmt.Sprintf("weak %s", label))
		}
	}

	result.OverallScore = total

	// Unmet eligibility or clearance requirements are disqualifying no
	// matter how strong the rest of the fit is.
	var capReasons []string
	if len(sol.SetAsides) > 0 && raw[DimSizeStatus] == 0 {
		capReasons = append(capReasons, "required set-aside not met")
	}
	if NormalizeClearance(sol.Clearance) != ClearanceNone && raw[DimClearance] == 0 {
		capReasons = append(capReasons, "required clearance not met")
	}
	if len(capReasons) > 0 {
		if result.OverallScore > hardRequirementCap {
			result.OverallScore = hardRequirementCap
		}
		result.Capped = true
		result.CapReason = strings.Join(capReasons, "; ")
	}

	switch {
	case result.OverallScore >= recommendedThreshold:
		result.Recommendation = model.MatchRecommended
	case result.OverallScore >= borderlineThreshold:
		result.Recommendation = model.MatchBorderline
	default:
		result.Recommendation = model.MatchNotRecommended
	}

	zap.L().Debug("matcher: scored company",
		zap.String("company", c.Name),
		zap.Float64("score", result.OverallScore),
		zap.Bool("capped", result.Capped),
		zap.String("recommendation", result.Recommendation),
	)

	return result
}
