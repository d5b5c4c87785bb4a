package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

func mustEngine(t *testing.T, w Weights) *Engine {
	t.Helper()
	e, err := NewEngine(w)
	require.NoError(t, err)
	return e
}

func componentScore(t *testing.T, r model.MatchResult, dim string) float64 {
	t.Helper()
	for _, c := range r.Components {
		if c.Dimension == dim {
			return c.Score
		}
	}
	t.Fatalf("component %q not found", dim)
	return 0
}

func TestScoreNAICSOnly(t *testing.T) {
	// A solicitation stating only a NAICS requirement scores neutral
	// everywhere else, so a company holding that code lands at 1.0.
	e := mustEngine(t, nil)
	sol := model.Solicitation{ID: "S1", NAICSCodes: []string{"541512"}}
	company := model.Company{ID: "C1", Name: "Acme Federal", NAICSCodes: []string{"541512"}}

	r := e.Score(sol, company)

	assert.Equal(t, 1.0, componentScore(t, r, DimNAICS))
	for _, c := range r.Components {
		assert.Equal(t, 1.0, c.Score, c.Dimension)
	}
	assert.InDelta(t, 1.0, r.OverallScore, 1e-9)
	assert.False(t, r.Capped)
	assert.Equal(t, model.MatchRecommended, r.Recommendation)
}

func TestScoreHierarchyAndSetAsidePass(t *testing.T) {
	e := mustEngine(t, nil)
	sol := model.Solicitation{
		ID:        "S2",
		Clearance: "Secret",
		SetAsides: []string{"Small Business"},
	}
	company := model.Company{
		ID:         "C2",
		Name:       "Vault Systems",
		Clearances: []string{"Top Secret"},
		Status:     []string{"Small Business"},
	}

	r := e.Score(sol, company)

	assert.Equal(t, 1.0, componentScore(t, r, DimClearance), "Top Secret satisfies Secret via hierarchy")
	assert.Equal(t, 1.0, componentScore(t, r, DimSizeStatus))
	assert.False(t, r.Capped)
}

func TestScoreFuzzyCapabilityCredit(t *testing.T) {
	// "cloud services" is a curated variant of "cloud computing": the
	// fuzzy tier credits 0.7 x 0.6, not full and not zero.
	e := mustEngine(t, nil)
	sol := model.Solicitation{ID: "S3", Capabilities: []string{"cloud computing"}}
	company := model.Company{ID: "C3", Name: "Nimbus LLC", Capabilities: []string{"cloud services"}}

	r := e.Score(sol, company)

	assert.InDelta(t, 0.7*0.6, componentScore(t, r, DimCapabilities), 1e-9)
}

func TestScoreIsWeightedDotProduct(t *testing.T) {
	w := Weights{
		DimNAICS:           0.50,
		DimCapabilities:    0.10,
		DimPastPerformance: 0.10,
		DimSizeStatus:      0.10,
		DimClearance:       0.10,
		DimLocation:        0.05,
		DimKeywords:        0.05,
	}
	e := mustEngine(t, w)
	sol := model.Solicitation{ID: "S4", NAICSCodes: []string{"541511"}}
	company := model.Company{ID: "C4", Name: "NoMatch Inc", NAICSCodes: []string{"236220"}}

	r := e.Score(sol, company)

	want := 0.0
	for _, c := range r.Components {
		want += c.Score * c.Weight
	}
	assert.InDelta(t, want, r.OverallScore, 1e-6)
}

func TestScoreHardRequirementCaps(t *testing.T) {
	e := mustEngine(t, nil)

	t.Run("unmet set-aside caps at 0.49", func(t *testing.T) {
		sol := model.Solicitation{ID: "S5", NAICSCodes: []string{"541512"}, SetAsides: []string{"8(a)"}}
		company := model.Company{ID: "C5", Name: "BigCo", NAICSCodes: []string{"541512"}}

		r := e.Score(sol, company)

		assert.True(t, r.Capped)
		assert.LessOrEqual(t, r.OverallScore, 0.49)
		assert.Equal(t, model.MatchNotRecommended, r.Recommendation)
	})

	t.Run("unmet clearance caps at 0.49", func(t *testing.T) {
		sol := model.Solicitation{ID: "S6", NAICSCodes: []string{"541512"}, Clearance: "Top Secret"}
		company := model.Company{ID: "C6", Name: "OpenCo", NAICSCodes: []string{"541512"}, Clearances: []string{"Secret"}}

		r := e.Score(sol, company)

		assert.True(t, r.Capped)
		assert.LessOrEqual(t, r.OverallScore, 0.49)
	})

	t.Run("both caps report both reasons", func(t *testing.T) {
		sol := model.Solicitation{ID: "S7", SetAsides: []string{"8(a)"}, Clearance: "Secret"}
		company := model.Company{ID: "C7", Name: "NeitherCo"}

		r := e.Score(sol, company)

		assert.True(t, r.Capped)
		assert.Contains(t, r.CapReason, "set-aside")
		assert.Contains(t, r.CapReason, "clearance")
	})
}

func TestScoreStrengthsAndGaps(t *testing.T) {
	e := mustEngine(t, nil)
	sol := model.Solicitation{
		ID:           "S8",
		NAICSCodes:   []string{"541512"},
		Capabilities: []string{"quantum networking"},
	}
	company := model.Company{ID: "C8", Name: "Acme", NAICSCodes: []string{"541512"}}

	r := e.Score(sol, company)

	assert.Contains(t, r.Strengths, "strong NAICS alignment")
	assert.Contains(t, r.Gaps, "weak capability coverage")
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name string
		w    Weights
	}{
		{name: "negative weight", w: Weights{
			DimNAICS: -0.1, DimCapabilities: 0.35, DimPastPerformance: 0.20,
			DimSizeStatus: 0.20, DimClearance: 0.10, DimLocation: 0.05, DimKeywords: 0.20,
		}},
		{name: "sum not one", w: Weights{
			DimNAICS: 0.20, DimCapabilities: 0.25, DimPastPerformance: 0.20,
			DimSizeStatus: 0.10, DimClearance: 0.10, DimLocation: 0.05, DimKeywords: 0.20,
		}},
		{name: "missing dimension", w: Weights{
			DimNAICS: 0.50, DimCapabilities: 0.50,
		}},
		{name: "unknown dimension", w: Weights{
			DimNAICS: 0.20, DimCapabilities: 0.25, DimPastPerformance: 0.20,
			DimSizeStatus: 0.10, DimClearance: 0.10, DimLocation: 0.05, DimKeywords: 0.05,
			"bogus": 0.05,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.w)
			assert.Error(t, err)
		})
	}
}

func TestDefaultWeightsValid(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
}

func TestClearanceNormalization(t *testing.T) {
	assert.Equal(t, ClearanceTopSecret, NormalizeClearance("TS/SCI"))
	assert.Equal(t, ClearanceTopSecret, NormalizeClearance("top secret"))
	assert.Equal(t, ClearanceSecret, NormalizeClearance(" Secret "))
	assert.Equal(t, ClearanceNone, NormalizeClearance(""))
	assert.Equal(t, ClearanceNone, NormalizeClearance("cosmic"))

	assert.True(t, MeetsClearance("Secret", []string{"TS/SCI"}))
	assert.False(t, MeetsClearance("Top Secret", []string{"Secret", "Public Trust"}))
	assert.True(t, MeetsClearance("", nil))
}

func TestLocationScoring(t *testing.T) {
	e := mustEngine(t, nil)

	t.Run("state abbreviation matches full name", func(t *testing.T) {
		sol := model.Solicitation{ID: "S9", PlaceOfPerformance: "Arlington, Virginia"}
		company := model.Company{ID: "C9", Name: "A", Locations: []string{"Richmond VA"}}
		r := e.Score(sol, company)
		assert.Equal(t, 1.0, componentScore(t, r, DimLocation))
	})

	t.Run("no overlap", func(t *testing.T) {
		sol := model.Solicitation{ID: "S10", PlaceOfPerformance: "Austin, Texas"}
		company := model.Company{ID: "C10", Name: "B", Locations: []string{"Portland, Oregon"}}
		r := e.Score(sol, company)
		assert.Equal(t, 0.0, componentScore(t, r, DimLocation))
	})
}

func TestLoadSaveWeights(t *testing.T) {
	path := t.TempDir() + "/weights.yaml"
	require.NoError(t, SaveWeights(path, DefaultWeights()))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.NoError(t, w.Validate())
	assert.InDelta(t, 0.25, w[DimCapabilities], 1e-9)
}
