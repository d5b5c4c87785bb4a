// Package enrich gathers external evidence about a company from optional
// sources. Sources run concurrently; individual failures are logged and
// omitted from the bundle, never propagated.
package enrich

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// Source is one optional enrichment provider. Name must return one of the
// model.Source* constants.
type Source interface {
	Name() string
	Enrich(ctx context.Context, company model.Company, sol model.Solicitation) (model.EnrichmentResult, error)
}

// Manager fans a company out to all registered sources and assembles the
// evidence bundle.
type Manager struct {
	sources []Source
	limit   int
}

// NewManager registers the given sources. limit bounds concurrent source
// calls; zero means unbounded.
func NewManager(limit int, sources ...Source) *Manager {
	return &Manager{sources: sources, limit: limit}
}

// Sources lists registered source names in registration order.
func (m *Manager) Sources() []string {
	names := make([]string, 0, len(m.sources))
	for _, s := range m.sources {
		names = append(names, s.Name())
	}
	return names
}

// Enrich queries every source for one company. Results keep registration
// order regardless of completion order, so bundles are deterministic given
// identical source responses.
func (m *Manager) Enrich(ctx context.Context, company model.Company, sol model.Solicitation) model.EnrichmentBundle {
	results := make([]*model.EnrichmentResult, len(m.sources))

	g, gctx := errgroup.WithContext(ctx)
	if m.limit > 0 {
		g.SetLimit(m.limit)
	}
	for i, src := range m.sources {
		g.Go(func() error {
			r, err := src.Enrich(gctx, company, sol)
			if err != nil {
				zap.L().Warn("enrich: source failed",
					zap.String("source", src.Name()),
					zap.String("company", company.Name),
					zap.Error(err),
				)
				return nil // failures omit the source, never block others
			}
			r.Source = src.Name()
			results[i] = &r
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	bundle := model.EnrichmentBundle{CompanyID: company.ID}
	for _, r := range results {
		if r != nil {
			bundle.Results = append(bundle.Results, *r)
		}
	}
	return bundle
}
