// Package pipeline orchestrates the three scoring stages end to end:
// match all candidates, enrich and confirm the top matches concurrently,
// then validate and rank.
package pipeline

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samtetlow/nof1-sub000/internal/confirm"
	"github.com/samtetlow/nof1-sub000/internal/enrich"
	"github.com/samtetlow/nof1-sub000/internal/matcher"
	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/internal/validate"
)

// Pipeline wires the engines together. Construct once and reuse; all
// stages are safe for concurrent use.
type Pipeline struct {
	matcher   *matcher.Engine
	confirmer *confirm.Engine
	validator *validate.Engine
	enricher  *enrich.Manager

	topK          int
	maxConcurrent int
}

// Options bounds pipeline orchestration.
type Options struct {
	TopK          int // candidates carried into confirmation; 0 means all
	MaxConcurrent int // concurrent confirmations; 0 means unbounded
}

// New builds a pipeline from its stage engines.
func New(m *matcher.Engine, c *confirm.Engine, v *validate.Engine, e *enrich.Manager, opts Options) (*Pipeline, error) {
	if m == nil || c == nil || v == nil || e == nil {
		return nil, eris.New("pipeline: all stage engines are required")
	}
	return &Pipeline{
		matcher:       m,
		confirmer:     c,
		validator:     v,
		enricher:      e,
		topK:          opts.TopK,
		maxConcurrent: opts.MaxConcurrent,
	}, nil
}

// Match scores every company against the solicitation and returns results
// sorted best first. Ties break on company name, then ID, so rankings are
// stable across runs.
func (p *Pipeline) Match(sol model.Solicitation, companies []model.Company) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(companies))
	for _, c := range companies {
		results = append(results, p.matcher.Score(sol, c))
	}
	sortMatches(results)
	return results
}

// Run executes the full pipeline and returns outcomes ranked by validation
// score. Enrichment and confirmation fan out across the top-K matches;
// validation runs sequentially in match-rank order.
func (p *Pipeline) Run(ctx context.Context, sol model.Solicitation, companies []model.Company) ([]model.PipelineOutcome, error) {
	if len(companies) == 0 {
		return nil, eris.New("pipeline: no candidate companies")
	}

	matches := p.Match(sol, companies)
	if p.topK > 0 && len(matches) > p.topK {
		matches = matches[:p.topK]
	}

	byID := make(map[string]model.Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}

	confirmations := make([]model.ConfirmationResult, len(matches))
	bundles := make([]model.EnrichmentBundle, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	if p.maxConcurrent > 0 {
		g.SetLimit(p.maxConcurrent)
	}
	for i, match := range matches {
		g.Go(func() error {
			company := byID[match.CompanyID]
			bundle := p.enricher.Enrich(gctx, company, sol)
			bundles[i] = bundle
			confirmations[i] = p.confirmer.Confirm(gctx, sol, match, company, bundle)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: confirmation stage")
	}

	outcomes := make([]model.PipelineOutcome, 0, len(matches))
	for i, match := range matches {
		company := byID[match.CompanyID]
		quality := model.DataQuality{
			SourceCount:  len(bundles[i].Results),
			Completeness: profileCompleteness(company),
		}
		outcomes = append(outcomes, model.PipelineOutcome{
			Match:        match,
			Confirmation: confirmations[i],
			Validation:   p.validator.Validate(match, confirmations[i], quality),
		})
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Validation.Score > outcomes[j].Validation.Score
	})

	zap.L().Info("pipeline: run complete",
		zap.String("solicitation", sol.ID),
		zap.Int("candidates", len(companies)),
		zap.Int("evaluated", len(outcomes)),
	)

	return outcomes, nil
}

func sortMatches(results []model.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		if results[i].CompanyName != results[j].CompanyName {
			return results[i].CompanyName < results[j].CompanyName
		}
		return results[i].CompanyID < results[j].CompanyID
	})
}

// profileCompleteness is the share of company profile fields populated.
func profileCompleteness(c model.Company) float64 {
	fields := []bool{
		c.Name != "",
		len(c.NAICSCodes) > 0,
		len(c.Status) > 0,
		len(c.Capabilities) > 0,
		len(c.Keywords) > 0,
		len(c.Clearances) > 0,
		len(c.Locations) > 0,
		c.Employees > 0,
		c.AnnualRevenue > 0,
		c.Description != "" || c.CapabilityStatement != "",
	}
	populated := 0
	for _, ok := range fields {
		if ok {
			populated++
		}
	}
	return float64(populated) / float64(len(fields))
}
