// Package confirm evaluates six evidence factors for a matched company
// against its enrichment bundle and produces a ConfirmationResult.
package confirm

import (
	"context"

	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// Confidence coefficients. Each piece of evidence raises a factor's
// confidence ceiling by 0.3; each contradiction pulls the overall
// confidence down by 0.15.
const (
	evidenceConfidenceStep = 0.3
	contradictionPenalty   = 0.15
)

// Engine runs the confirmation stage. Safe for concurrent use across
// companies: it holds no per-call state.
type Engine struct {
	narrator Narrator
}

// NewEngine returns a confirmation engine. narrator may be nil, in which
// case the deterministic template summary is always used.
func NewEngine(narrator Narrator) *Engine {
	return &Engine{narrator: narrator}
}

// Confirm evaluates all six factors in fixed order and assembles the
// result. Absent enrichment sources contribute no evidence and never fail
// the call.
func (e *Engine) Confirm(ctx context.Context, sol model.Solicitation, match model.MatchResult, company model.Company, bundle model.EnrichmentBundle) model.ConfirmationResult {
	result := model.ConfirmationResult{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Factors:     make([]model.ConfirmationFactor, 0, len(factorSpecs)),
		SourcesUsed: bundle.Sources(),
	}

	in := factorInput{sol: sol, company: company, bundle: bundle}
	totalConfidence := 0.0
	totalContradictions := 0

	for _, spec := range factorSpecs {
		factor := evaluateFactor(spec, in)
		totalConfidence += factor.Confidence
		totalContradictions += len(factor.Contradictions)
		result.Factors = append(result.Factors, factor)
	}

	confidence := totalConfidence/float64(len(factorSpecs)) - contradictionPenalty*float64(totalContradictions)
	if confidence < 0 {
		confidence = 0
	}
	result.OverallConfidence = confidence

	// Weakest link: one contradicted factor contradicts the whole result.
	worst := model.StatusConfirmed
	for _, f := range result.Factors {
		if f.Status.Severity() > worst.Severity() {
			worst = f.Status
		}
	}
	result.OverallStatus = worst

	result.AlignmentSummary = e.alignmentSummary(ctx, sol, company, result)

	zap.L().Debug("confirm: evaluated company",
		zap.String("company", company.Name),
		zap.String("status", string(result.OverallStatus)),
		zap.Float64("confidence", result.OverallConfidence),
		zap.Int("contradictions", totalContradictions),
	)

	return result
}

func evaluateFactor(spec factorSpec, in factorInput) model.ConfirmationFactor {
	factor := model.ConfirmationFactor{Name: spec.name}

	present := make([]model.EnrichmentResult, 0, len(spec.sources))
	for _, src := range spec.sources {
		if r, ok := in.bundle.BySource(src); ok {
			present = append(present, r)
		}
	}
	if len(present) == 0 {
		factor.Status = model.StatusInsufficientData
		return factor
	}

	factor.Evidence, factor.Contradictions = spec.evaluate(in)

	switch {
	case len(factor.Contradictions) > 0:
		factor.Status = model.StatusContradicted
	case len(factor.Evidence) >= 2:
		factor.Status = model.StatusConfirmed
	case len(factor.Evidence) == 1:
		factor.Status = model.StatusPartiallyConfirmed
	default:
		factor.Status = model.StatusUnconfirmed
	}

	avgConf := 0.0
	for _, r := range present {
		avgConf += r.Confidence
	}
	avgConf /= float64(len(present))

	ceiling := evidenceConfidenceStep * float64(len(factor.Evidence))
	if ceiling > 1.0 {
		ceiling = 1.0
	}
	factor.Confidence = ceiling * avgConf

	return factor
}
