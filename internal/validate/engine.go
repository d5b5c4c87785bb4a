// Package validate computes the final weighted verdict for a company from
// its match and confirmation results.
package validate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/confirm"
	"github.com/samtetlow/nof1-sub000/internal/matcher"
	"github.com/samtetlow/nof1-sub000/internal/model"
)

// Component names and weights.
const (
	CompMatchQuality        = "match_quality"
	CompConfirmationQuality = "confirmation_quality"
	CompDataReliability     = "data_reliability"
	CompRiskAssessment      = "risk_assessment"
	CompStrategicFit        = "strategic_fit"
)

const (
	matchWeight        = 0.30
	confirmationWeight = 0.25
	reliabilityWeight  = 0.15
	riskWeight         = 0.15
	strategicWeight    = 0.15

	unconfirmedPenalty   = 0.3
	reliabilityPerSource = 0.25
	riskIncrement        = 0.2
)

// Risk checklist items. These exact strings flow into RiskFactors, the SWOT
// threats list, and the recommended-action mapping.
const (
	RiskPastPerformanceGap = "past performance gap"
	RiskCapabilityMismatch = "capability mismatch"
	RiskClearanceIssue     = "clearance issue"
	RiskSetAsideIssue      = "set-aside non-compliance"
	RiskDataQuality        = "data quality concern"
	RiskCapacityConstraint = "capacity constraint"
)

// Engine computes ValidationResults. Stateless; safe for concurrent use.
type Engine struct{}

// NewEngine returns a validation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Validate combines the match and confirmation results with data-quality
// metadata into the final verdict.
func (e *Engine) Validate(match model.MatchResult, conf model.ConfirmationResult, quality model.DataQuality) model.ValidationResult {
	result := model.ValidationResult{
		CompanyID:   match.CompanyID,
		CompanyName: match.CompanyName,
	}

	if quality.SourceCount == 0 {
		quality.SourceCount = len(conf.SourcesUsed)
	}

	risks := identifyRisks(match, conf, quality)
	result.RiskFactors = risks

	components := []model.ValidationComponent{
		matchQuality(match),
		confirmationQuality(conf),
		dataReliability(quality),
		riskAssessment(risks),
		strategicFit(match),
	}
	result.Components = components

	score := 0.0
	for _, c := range components {
		score += c.Score * c.Weight
	}
	result.Score = score
	result.Level = levelFor(score)
	result.RiskLevel = riskLevelFor(risks, score)

	result.SWOT = buildSWOT(match, conf, risks)
	result.RecommendedActions = recommendActions(result.SWOT.Weaknesses, risks)
	result.Recommendation = recommendationFor(result.Level, result.RiskLevel)
	result.DecisionRationale = rationale(result, conf)

	zap.L().Debug("validate: verdict",
		zap.String("company", match.CompanyName),
		zap.Float64("score", score),
		zap.String("level", string(result.Level)),
		zap.String("risk", string(result.RiskLevel)),
	)

	return result
}

func matchQuality(match model.MatchResult) model.ValidationComponent {
	return model.ValidationComponent{
		Name:      CompMatchQuality,
		Score:     match.OverallScore,
		Weight:    matchWeight,
		Rationale: fmt.Sprintf("match score %.2f (%s)", match.OverallScore, match.Recommendation),
	}
}

func confirmationQuality(conf model.ConfirmationResult) model.ValidationComponent {
	score := conf.OverallConfidence
	rationale := fmt.Sprintf("confirmation confidence %.2f, status %s", score, conf.OverallStatus)
	if !isConfirmed(conf) {
		score -= unconfirmedPenalty
		if score < 0 {
			score = 0
		}
		rationale += " (unconfirmed penalty applied)"
	}
	return model.ValidationComponent{
		Name:      CompConfirmationQuality,
		Score:     score,
		Weight:    confirmationWeight,
		Rationale: rationale,
	}
}

func isConfirmed(conf model.ConfirmationResult) bool {
	return conf.OverallStatus == model.StatusConfirmed ||
		conf.OverallStatus == model.StatusPartiallyConfirmed
}

func dataReliability(quality model.DataQuality) model.ValidationComponent {
	score := reliabilityPerSource * float64(quality.SourceCount)
	if score > 1.0 {
		score = 1.0
	}
	return model.ValidationComponent{
		Name:      CompDataReliability,
		Score:     score,
		Weight:    reliabilityWeight,
		Rationale: fmt.Sprintf("%d independent sources used", quality.SourceCount),
	}
}

func riskAssessment(risks []string) model.ValidationComponent {
	score := 1.0 - riskIncrement*float64(len(risks))
	if score < 0 {
		score = 0
	}
	rationale := "no risk factors identified"
	if len(risks) > 0 {
		rationale = fmt.Sprintf("%d risk factors: %s", len(risks), strings.Join(risks, ", "))
	}
	return model.ValidationComponent{
		Name:      CompRiskAssessment,
		Score:     score,
		Weight:    riskWeight,
		Rationale: rationale,
	}
}

func strategicFit(match model.MatchResult) model.ValidationComponent {
	score := 0.5 + 0.1*float64(len(match.Strengths)-len(match.Gaps))
	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return model.ValidationComponent{
		Name:      CompStrategicFit,
		Score:     score,
		Weight:    strategicWeight,
		Rationale: fmt.Sprintf("%d strengths vs %d gaps", len(match.Strengths), len(match.Gaps)),
	}
}

// identifyRisks walks the fixed six-item checklist in order.
func identifyRisks(match model.MatchResult, conf model.ConfirmationResult, quality model.DataQuality) []string {
	factorStatus := make(map[string]model.ConfirmationStatus, len(conf.Factors))
	for _, f := range conf.Factors {
		factorStatus[f.Name] = f.Status
	}
	dimScore := make(map[string]float64, len(match.Components))
	for _, c := range match.Components {
		dimScore[c.Dimension] = c.Score
	}

	var risks []string
	if dimScore[matcher.DimPastPerformance] < 0.4 || factorStatus[confirm.FactorPastPerformance] == model.StatusContradicted {
		risks = append(risks, RiskPastPerformanceGap)
	}
	if dimScore[matcher.DimCapabilities] < 0.4 || factorStatus[confirm.FactorCapabilities] == model.StatusContradicted {
		risks = append(risks, RiskCapabilityMismatch)
	}
	if strings.Contains(match.CapReason, "clearance") {
		risks = append(risks, RiskClearanceIssue)
	}
	if strings.Contains(match.CapReason, "set-aside") {
		risks = append(risks, RiskSetAsideIssue)
	}
	if quality.SourceCount < 2 || (quality.Completeness > 0 && quality.Completeness < 0.5) {
		risks = append(risks, RiskDataQuality)
	}
	if factorStatus[confirm.FactorSizeClearance] == model.StatusContradicted {
		risks = append(risks, RiskCapacityConstraint)
	}
	return risks
}

func levelFor(score float64) model.ValidationLevel {
	switch {
	case score >= 0.85:
		return model.LevelExcellent
	case score >= 0.70:
		return model.LevelGood
	case score >= 0.55:
		return model.LevelAcceptable
	case score >= 0.40:
		return model.LevelMarginal
	case score >= 0.25:
		return model.LevelPoor
	default:
		return model.LevelRejected
	}
}

// riskLevelFor evaluates in severity order. A clearance or set-aside issue
// is contractually disqualifying and overrides the count/score rule no
// matter how high the score is.
func riskLevelFor(risks []string, score float64) model.RiskLevel {
	for _, r := range risks {
		if r == RiskClearanceIssue || r == RiskSetAsideIssue {
			return model.RiskCritical
		}
	}
	switch {
	case len(risks) >= 5 || score < 0.5:
		return model.RiskHigh
	case len(risks) >= 3 || score <= 0.7:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func recommendationFor(level model.ValidationLevel, risk model.RiskLevel) string {
	if risk == model.RiskCritical {
		return "do not pursue"
	}
	switch level {
	case model.LevelExcellent, model.LevelGood:
		return "pursue"
	case model.LevelAcceptable, model.LevelMarginal:
		return "conditionally pursue"
	default:
		return "do not pursue"
	}
}

func rationale(r model.ValidationResult, conf model.ConfirmationResult) string {
	return fmt.Sprintf(
		"Validation score %.2f (%s) with %s risk. Confirmation status: %s (confidence %.2f). %d risk factors identified.",
		r.Score, r.Level, r.RiskLevel, conf.OverallStatus, conf.OverallConfidence, len(r.RiskFactors))
}
