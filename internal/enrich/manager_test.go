package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

type stubSource struct {
	name    string
	payload model.EnrichmentPayload
	conf    float64
	err     error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Enrich(context.Context, model.Company, model.Solicitation) (model.EnrichmentResult, error) {
	if s.err != nil {
		return model.EnrichmentResult{}, s.err
	}
	return model.EnrichmentResult{Confidence: s.conf, Payload: s.payload}, nil
}

func TestManagerEnrichKeepsRegistrationOrder(t *testing.T) {
	m := NewManager(2,
		stubSource{name: model.SourceUSASpending, conf: 0.9, payload: model.AwardsPayload{}},
		stubSource{name: model.SourceUSPTO, conf: 0.8, payload: model.PatentsPayload{}},
		stubSource{name: model.SourceWebSearch, conf: 0.6, payload: model.SearchPayload{}},
	)

	bundle := m.Enrich(context.Background(), model.Company{ID: "C1"}, model.Solicitation{})

	require.Len(t, bundle.Results, 3)
	assert.Equal(t, []string{model.SourceUSASpending, model.SourceUSPTO, model.SourceWebSearch}, bundle.Sources())
	assert.Equal(t, "C1", bundle.CompanyID)
}

func TestManagerEnrichOmitsFailedSources(t *testing.T) {
	m := NewManager(0,
		stubSource{name: model.SourceUSASpending, conf: 0.9, payload: model.AwardsPayload{}},
		stubSource{name: model.SourceUSPTO, err: errors.New("rate limited")},
	)

	bundle := m.Enrich(context.Background(), model.Company{ID: "C1"}, model.Solicitation{})

	require.Len(t, bundle.Results, 1)
	assert.Equal(t, model.SourceUSASpending, bundle.Results[0].Source)
	_, ok := bundle.BySource(model.SourceUSPTO)
	assert.False(t, ok)
}

func TestManagerSourceNames(t *testing.T) {
	m := NewManager(0, stubSource{name: model.SourceSBIR})
	assert.Equal(t, []string{model.SourceSBIR}, m.Sources())
}
