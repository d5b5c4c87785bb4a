package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/pkg/anthropic"
	"github.com/samtetlow/nof1-sub000/pkg/sbir"
	"github.com/samtetlow/nof1-sub000/pkg/usaspending"
)

type fakeAwardSearcher struct {
	resp usaspending.AwardSearchResponse
}

func (f *fakeAwardSearcher) SearchAwards(_ context.Context, _ usaspending.AwardSearchRequest) (*usaspending.AwardSearchResponse, error) {
	return &f.resp, nil
}

func TestUSASpendingSourceMapsAwards(t *testing.T) {
	src := NewUSASpendingSource(&fakeAwardSearcher{resp: usaspending.AwardSearchResponse{
		Results: []usaspending.AwardRecord{
			{AwardID: "A1", AwardingAgency: "GSA", Description: "cloud support", Amount: 100, StartDate: "2023-01-15"},
			{AwardID: "A2", AwardingAgency: "DHS", Description: "security ops", Amount: 250, StartDate: "2024-06-01"},
		},
	}})

	assert.Equal(t, model.SourceUSASpending, src.Name())

	got, err := src.Enrich(context.Background(), model.Company{Name: "Nimbus"}, model.Solicitation{})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)

	payload, ok := got.Payload.(model.AwardsPayload)
	require.True(t, ok)
	require.Len(t, payload.Awards, 2)
	assert.Equal(t, "GSA", payload.Awards[0].Agency)
	assert.Equal(t, 2023, payload.Awards[0].Year)
	assert.InDelta(t, 350, payload.TotalValue, 1e-9)
}

type fakeSBIR struct {
	awards []sbir.Award
}

func (f *fakeSBIR) SearchAwards(_ context.Context, _ sbir.AwardSearchRequest) ([]sbir.Award, error) {
	return f.awards, nil
}

func TestSBIRSourceParsesAmounts(t *testing.T) {
	src := NewSBIRSource(&fakeSBIR{awards: []sbir.Award{
		{Agency: "DOD", Title: "Phase II sensor", Abstract: "sensor fusion", Amount: "$1,000,000", Year: 2022},
	}})

	got, err := src.Enrich(context.Background(), model.Company{Name: "Helix"}, model.Solicitation{})
	require.NoError(t, err)

	payload, ok := got.Payload.(model.AwardsPayload)
	require.True(t, ok)
	require.Len(t, payload.Awards, 1)
	assert.InDelta(t, 1000000, payload.Awards[0].Amount, 0.01)
	assert.InDelta(t, 1000000, payload.TotalValue, 0.01)
}

type fakeAnthropic struct {
	text string
	req  anthropic.MessageRequest
}

func (f *fakeAnthropic) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.req = req
	return &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}}}, nil
}

func TestAIAnalysisSourceParsesReply(t *testing.T) {
	fake := &fakeAnthropic{text: "Here is my assessment:\n```json\n" +
		`{"capabilities": ["cloud computing"], "missing_capabilities": ["devsecops"], "differentiators": ["FedRAMP High"], "summary": "Solid cloud shop.", "estimated_employees": 45}` +
		"\n```"}
	src := NewAIAnalysisSource(fake, "claude-sonnet-4-5-20250929")

	assert.Equal(t, model.SourceAIAnalysis, src.Name())

	got, err := src.Enrich(context.Background(),
		model.Company{Name: "Nimbus", Capabilities: []string{"cloud computing"}, Employees: 40},
		model.Solicitation{Title: "Cloud Support", Capabilities: []string{"cloud computing", "devsecops"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5-20250929", fake.req.Model)

	payload, ok := got.Payload.(model.AnalysisPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"cloud computing"}, payload.Capabilities)
	assert.Equal(t, []string{"devsecops"}, payload.MissingCapabilities)
	assert.Equal(t, 45, payload.EstimatedEmployees)
}

func TestAIAnalysisSourceRejectsNonJSON(t *testing.T) {
	src := NewAIAnalysisSource(&fakeAnthropic{text: "I cannot assess this company."}, "m")
	_, err := src.Enrich(context.Background(), model.Company{}, model.Solicitation{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object")
}

func TestParseAnalysisMalformed(t *testing.T) {
	_, err := parseAnalysis(`{"capabilities": [truncated`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal analysis")
}
