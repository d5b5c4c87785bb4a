package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtetlow/nof1-sub000/internal/confirm"
	"github.com/samtetlow/nof1-sub000/internal/matcher"
	"github.com/samtetlow/nof1-sub000/internal/model"
)

func strongMatch() model.MatchResult {
	return model.MatchResult{
		CompanyID:    "C1",
		CompanyName:  "Nimbus Federal",
		OverallScore: 0.92,
		Components: []model.ScoreComponent{
			{Dimension: matcher.DimNAICS, Score: 1.0, Weight: 0.20},
			{Dimension: matcher.DimCapabilities, Score: 0.9, Weight: 0.25},
			{Dimension: matcher.DimPastPerformance, Score: 0.8, Weight: 0.20},
			{Dimension: matcher.DimSizeStatus, Score: 1.0, Weight: 0.10},
			{Dimension: matcher.DimClearance, Score: 1.0, Weight: 0.10},
			{Dimension: matcher.DimLocation, Score: 1.0, Weight: 0.05},
			{Dimension: matcher.DimKeywords, Score: 0.9, Weight: 0.10},
		},
		Strengths:      []string{"strong NAICS alignment", "strong capability coverage"},
		Recommendation: model.MatchRecommended,
	}
}

func confirmedResult() model.ConfirmationResult {
	return model.ConfirmationResult{
		CompanyID:         "C1",
		CompanyName:       "Nimbus Federal",
		OverallStatus:     model.StatusConfirmed,
		OverallConfidence: 0.8,
		Factors: []model.ConfirmationFactor{
			{Name: confirm.FactorPastPerformance, Status: model.StatusConfirmed, Confidence: 0.8},
			{Name: confirm.FactorCapabilities, Status: model.StatusConfirmed, Confidence: 0.8},
		},
		SourcesUsed: []string{model.SourceUSASpending, model.SourceAIAnalysis, model.SourceUSPTO, model.SourceWebSearch},
	}
}

func TestValidateScoreIsWeightedSum(t *testing.T) {
	e := NewEngine()
	r := e.Validate(strongMatch(), confirmedResult(), model.DataQuality{SourceCount: 4, Completeness: 0.9})

	want := 0.0
	weightSum := 0.0
	for _, c := range r.Components {
		want += c.Score * c.Weight
		weightSum += c.Weight
	}
	assert.InDelta(t, want, r.Score, 1e-9)
	assert.InDelta(t, 1.0, weightSum, 1e-9)
	require.Len(t, r.Components, 5)
}

func TestValidateStrongCandidate(t *testing.T) {
	e := NewEngine()
	r := e.Validate(strongMatch(), confirmedResult(), model.DataQuality{SourceCount: 4, Completeness: 0.9})

	assert.Empty(t, r.RiskFactors)
	assert.Equal(t, model.RiskLow, r.RiskLevel)
	assert.GreaterOrEqual(t, r.Score, 0.70)
	assert.Equal(t, "pursue", r.Recommendation)
	assert.NotEmpty(t, r.DecisionRationale)
}

func TestValidateCriticalOverridesHighScore(t *testing.T) {
	// A set-aside compliance issue forces Critical regardless of score.
	assert.Equal(t, model.RiskCritical, riskLevelFor([]string{RiskSetAsideIssue}, 0.95))
	assert.Equal(t, model.RiskCritical, riskLevelFor([]string{RiskClearanceIssue}, 0.95))

	match := strongMatch()
	match.Capped = true
	match.CapReason = "required set-aside not met"
	match.OverallScore = 0.49

	e := NewEngine()
	r := e.Validate(match, confirmedResult(), model.DataQuality{SourceCount: 4, Completeness: 0.9})

	assert.Equal(t, model.RiskCritical, r.RiskLevel)
	assert.Contains(t, r.RiskFactors, RiskSetAsideIssue)
	assert.Equal(t, "do not pursue", r.Recommendation)
	// The disqualifying item maps to the top-ranked action.
	require.NotEmpty(t, r.RecommendedActions)
	assert.Equal(t, riskActions[RiskSetAsideIssue], r.RecommendedActions[0])
}

func TestValidateUnconfirmedPenalty(t *testing.T) {
	conf := confirmedResult()
	conf.OverallStatus = model.StatusUnconfirmed
	conf.OverallConfidence = 0.5

	e := NewEngine()
	r := e.Validate(strongMatch(), conf, model.DataQuality{SourceCount: 4, Completeness: 0.9})

	for _, c := range r.Components {
		if c.Name == CompConfirmationQuality {
			assert.InDelta(t, 0.5-unconfirmedPenalty, c.Score, 1e-9)
		}
	}
}

func TestValidateConfirmationFloorAtZero(t *testing.T) {
	conf := confirmedResult()
	conf.OverallStatus = model.StatusContradicted
	conf.OverallConfidence = 0.1

	e := NewEngine()
	r := e.Validate(strongMatch(), conf, model.DataQuality{SourceCount: 4, Completeness: 0.9})

	for _, c := range r.Components {
		if c.Name == CompConfirmationQuality {
			assert.Zero(t, c.Score)
		}
	}
}

func TestDataReliabilityDiminishingReturns(t *testing.T) {
	e := NewEngine()
	for sources, want := range map[int]float64{0: 0.0, 1: 0.25, 2: 0.5, 4: 1.0, 6: 1.0} {
		r := e.Validate(strongMatch(), confirmedResult(), model.DataQuality{SourceCount: sources, Completeness: 0.9})
		for _, c := range r.Components {
			if c.Name == CompDataReliability {
				if sources == 0 {
					// Falls back to the confirmation result's source list.
					assert.InDelta(t, 1.0, c.Score, 1e-9)
				} else {
					assert.InDelta(t, want, c.Score, 1e-9, "sources=%d", sources)
				}
			}
		}
	}
}

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  model.ValidationLevel
	}{
		{0.90, model.LevelExcellent},
		{0.85, model.LevelExcellent},
		{0.80, model.LevelGood},
		{0.70, model.LevelGood},
		{0.60, model.LevelAcceptable},
		{0.55, model.LevelAcceptable},
		{0.45, model.LevelMarginal},
		{0.40, model.LevelMarginal},
		{0.30, model.LevelPoor},
		{0.25, model.LevelPoor},
		{0.10, model.LevelRejected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.score), "score=%v", tt.score)
	}
}

func TestRiskLevels(t *testing.T) {
	many := []string{RiskPastPerformanceGap, RiskCapabilityMismatch, RiskDataQuality, RiskCapacityConstraint, RiskPastPerformanceGap}

	assert.Equal(t, model.RiskHigh, riskLevelFor(many, 0.9))
	assert.Equal(t, model.RiskHigh, riskLevelFor(nil, 0.45))
	assert.Equal(t, model.RiskMedium, riskLevelFor([]string{RiskDataQuality, RiskCapacityConstraint, RiskPastPerformanceGap}, 0.9))
	assert.Equal(t, model.RiskMedium, riskLevelFor(nil, 0.65))
	assert.Equal(t, model.RiskLow, riskLevelFor([]string{RiskDataQuality}, 0.85))
}

func TestSWOTComposition(t *testing.T) {
	match := strongMatch()
	match.Gaps = []string{"weak location"}

	conf := confirmedResult()
	conf.Factors = append(conf.Factors, model.ConfirmationFactor{
		Name: confirm.FactorMarketPresence, Status: model.StatusUnconfirmed,
	})

	e := NewEngine()
	r := e.Validate(match, conf, model.DataQuality{SourceCount: 1, Completeness: 0.9})

	assert.Contains(t, r.SWOT.Strengths, "strong NAICS alignment")
	assert.Contains(t, r.SWOT.Strengths, "past performance confirmed by evidence")
	assert.Contains(t, r.SWOT.Weaknesses, "weak location")
	assert.Contains(t, r.SWOT.Weaknesses, "market presence unconfirmed")
	assert.Contains(t, r.SWOT.Threats, RiskDataQuality)
	assert.NotEmpty(t, r.SWOT.Opportunities)
}

func TestRecommendActionsOrderingAndCap(t *testing.T) {
	risks := []string{RiskDataQuality, RiskClearanceIssue, RiskPastPerformanceGap}
	weaknesses := []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9"}

	actions := recommendActions(weaknesses, risks)

	require.NotEmpty(t, actions)
	assert.Equal(t, riskActions[RiskClearanceIssue], actions[0])
	assert.Equal(t, riskActions[RiskPastPerformanceGap], actions[1])
	assert.Equal(t, riskActions[RiskDataQuality], actions[2])
	assert.LessOrEqual(t, len(actions), 10)

	// Deduplication: repeated risks map to one action.
	dup := recommendActions(nil, []string{RiskDataQuality, RiskDataQuality})
	assert.Len(t, dup, 1)
}
