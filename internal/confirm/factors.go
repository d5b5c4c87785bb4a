package confirm

import (
	"fmt"
	"strings"

	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/internal/similarity"
)

// Factor display names, in evaluation order. Order is fixed so that
// equal-severity ties resolve identically across runs.
const (
	FactorPastPerformance = "Past Performance"
	FactorCapabilities    = "Capability Verification"
	FactorCertification   = "Certification & Size Validation"
	FactorSizeClearance   = "Size & Clearance Confirmation"
	FactorMarketPresence  = "Market Presence"
	FactorTechExpertise   = "Technical Expertise"
)

// factorSpec ties a factor to the enrichment sources it consults and the
// evidence extraction rule it applies.
type factorSpec struct {
	name     string
	sources  []string
	evaluate func(in factorInput) (evidence, contradictions []string)
}

type factorInput struct {
	sol     model.Solicitation
	company model.Company
	bundle  model.EnrichmentBundle
}

var factorSpecs = []factorSpec{
	{
		name:     FactorPastPerformance,
		sources:  []string{model.SourceUSASpending, model.SourceNIHReporter, model.SourceSBIR},
		evaluate: evalPastPerformance,
	},
	{
		name:     FactorCapabilities,
		sources:  []string{model.SourceAIAnalysis, model.SourceWebSearch},
		evaluate: evalCapabilities,
	},
	{
		name:     FactorCertification,
		sources:  []string{model.SourceSBIR, model.SourceUSASpending},
		evaluate: evalCertification,
	},
	{
		name:     FactorSizeClearance,
		sources:  []string{model.SourceAIAnalysis, model.SourceUSASpending},
		evaluate: evalSizeClearance,
	},
	{
		name:     FactorMarketPresence,
		sources:  []string{model.SourceWebSearch, model.SourceUSPTO},
		evaluate: evalMarketPresence,
	},
	{
		name:     FactorTechExpertise,
		sources:  []string{model.SourceUSPTO, model.SourceNIHReporter, model.SourceSBIR},
		evaluate: evalTechExpertise,
	},
}

// awardMatchesSolicitation reports whether an award's agency or description
// overlaps the solicitation's agency or keywords.
func awardMatchesSolicitation(a model.Award, sol model.Solicitation) bool {
	agency := similarity.Normalize(sol.Agency)
	awardAgency := similarity.Normalize(a.Agency)
	if agency != "" && awardAgency != "" &&
		(strings.Contains(awardAgency, agency) || strings.Contains(agency, awardAgency)) {
		return true
	}
	text := similarity.Normalize(a.Title + " " + a.Description)
	if text == "" {
		return false
	}
	for _, kw := range sol.Keywords {
		if k := similarity.Normalize(kw); k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func awardLabel(a model.Award) string {
	switch {
	case a.Title != "" && a.Agency != "":
		return fmt.Sprintf("%s (%s)", a.Title, a.Agency)
	case a.Title != "":
		return a.Title
	case a.Agency != "":
		return fmt.Sprintf("award from %s", a.Agency)
	default:
		return "federal award"
	}
}

func evalPastPerformance(in factorInput) ([]string, []string) {
	var evidence []string
	for _, src := range []string{model.SourceUSASpending, model.SourceNIHReporter, model.SourceSBIR} {
		r, ok := in.bundle.BySource(src)
		if !ok {
			continue
		}
		awards, ok := r.Payload.(model.AwardsPayload)
		if !ok {
			continue
		}
		for _, a := range awards.Awards {
			if awardMatchesSolicitation(a, in.sol) {
				evidence = append(evidence, fmt.Sprintf("relevant prior award: %s", awardLabel(a)))
			}
		}
	}
	return evidence, nil
}

func evalCapabilities(in factorInput) ([]string, []string) {
	var evidence, contradictions []string

	if r, ok := in.bundle.BySource(model.SourceAIAnalysis); ok {
		if analysis, ok := r.Payload.(model.AnalysisPayload); ok {
			for _, claimed := range in.company.Capabilities {
				for _, found := range analysis.Capabilities {
					if similarity.Score(claimed, found) >= 0.5 {
						evidence = append(evidence, fmt.Sprintf("analysis confirms capability %q", claimed))
						break
					}
				}
			}
			// An explicit "missing" statement against a claimed capability
			// is the one condition that contradicts the profile.
			for _, missing := range analysis.MissingCapabilities {
				for _, claimed := range in.company.Capabilities {
					if similarity.Score(claimed, missing) >= 0.5 {
						contradictions = append(contradictions,
							fmt.Sprintf("analysis states claimed capability %q is absent", claimed))
						break
					}
				}
			}
		}
	}

	if r, ok := in.bundle.BySource(model.SourceWebSearch); ok {
		if search, ok := r.Payload.(model.SearchPayload); ok {
			for _, claimed := range in.company.Capabilities {
				c := similarity.Normalize(claimed)
				if c == "" {
					continue
				}
				for _, f := range search.Findings {
					if strings.Contains(similarity.Normalize(f.Title+" "+f.Snippet), c) {
						evidence = append(evidence, fmt.Sprintf("web results reference %q", claimed))
						break
					}
				}
			}
		}
	}

	return evidence, contradictions
}

func evalCertification(in factorInput) ([]string, []string) {
	if len(in.company.Status) == 0 {
		return nil, nil
	}
	var evidence []string
	if r, ok := in.bundle.BySource(model.SourceSBIR); ok {
		if awards, ok := r.Payload.(model.AwardsPayload); ok && len(awards.Awards) > 0 {
			evidence = append(evidence, fmt.Sprintf(
				"%d SBIR/STTR awards support small-business program standing", len(awards.Awards)))
		}
	}
	if r, ok := in.bundle.BySource(model.SourceUSASpending); ok {
		if awards, ok := r.Payload.(model.AwardsPayload); ok {
			for _, a := range awards.Awards {
				text := similarity.Normalize(a.Title + " " + a.Description)
				for _, status := range in.company.Status {
					if s := similarity.Normalize(status); s != "" && strings.Contains(text, s) {
						evidence = append(evidence, fmt.Sprintf(
							"award record references %s status: %s", status, awardLabel(a)))
					}
				}
			}
		}
	}
	return evidence, nil
}

func evalSizeClearance(in factorInput) ([]string, []string) {
	var evidence, contradictions []string

	if r, ok := in.bundle.BySource(model.SourceAIAnalysis); ok {
		if analysis, ok := r.Payload.(model.AnalysisPayload); ok && analysis.EstimatedEmployees > 0 && in.company.Employees > 0 {
			est, claimed := analysis.EstimatedEmployees, in.company.Employees
			if est >= claimed/3 && est <= claimed*3 {
				evidence = append(evidence, fmt.Sprintf(
					"independent employee estimate %d consistent with claimed %d", est, claimed))
			} else {
				contradictions = append(contradictions, fmt.Sprintf(
					"independent employee estimate %d conflicts with claimed %d", est, claimed))
			}
		}
	}

	if len(in.company.Clearances) > 0 {
		if r, ok := in.bundle.BySource(model.SourceUSASpending); ok {
			if awards, ok := r.Payload.(model.AwardsPayload); ok {
				for _, a := range awards.Awards {
					text := similarity.Normalize(a.Title + " " + a.Description)
					if strings.Contains(text, "classified") || strings.Contains(text, "security clearance") {
						evidence = append(evidence, fmt.Sprintf(
							"prior classified work: %s", awardLabel(a)))
					}
				}
			}
		}
	}

	return evidence, contradictions
}

func evalMarketPresence(in factorInput) ([]string, []string) {
	var evidence []string
	if r, ok := in.bundle.BySource(model.SourceWebSearch); ok {
		if search, ok := r.Payload.(model.SearchPayload); ok {
			for _, f := range search.Findings {
				if f.Title != "" || f.Snippet != "" {
					evidence = append(evidence, fmt.Sprintf("web presence: %s", firstNonEmpty(f.Title, f.Snippet)))
				}
			}
		}
	}
	if r, ok := in.bundle.BySource(model.SourceUSPTO); ok {
		if patents, ok := r.Payload.(model.PatentsPayload); ok && len(patents.Patents) > 0 {
			evidence = append(evidence, fmt.Sprintf("%d granted patents on record", len(patents.Patents)))
		}
	}
	return evidence, nil
}

func evalTechExpertise(in factorInput) ([]string, []string) {
	var evidence []string
	domainTerms := append(append([]string{}, in.sol.Capabilities...), in.sol.Keywords...)

	if r, ok := in.bundle.BySource(model.SourceUSPTO); ok {
		if patents, ok := r.Payload.(model.PatentsPayload); ok {
			for _, p := range patents.Patents {
				title := similarity.Normalize(p.Title)
				if title == "" {
					continue
				}
				for _, term := range domainTerms {
					if similarity.Score(term, p.Title) >= 0.5 || strings.Contains(title, similarity.Normalize(term)) {
						evidence = append(evidence, fmt.Sprintf("patent in scope: %s", p.Title))
						break
					}
				}
			}
		}
	}

	for _, src := range []string{model.SourceNIHReporter, model.SourceSBIR} {
		r, ok := in.bundle.BySource(src)
		if !ok {
			continue
		}
		awards, ok := r.Payload.(model.AwardsPayload)
		if !ok {
			continue
		}
		for _, a := range awards.Awards {
			if awardMatchesSolicitation(a, in.sol) {
				evidence = append(evidence, fmt.Sprintf("research award in scope: %s", awardLabel(a)))
			}
		}
	}

	return evidence, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
