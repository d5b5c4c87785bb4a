package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "exact", a: "cloud computing", b: "cloud computing", want: 1.0},
		{name: "exact after case and whitespace", a: "  Cloud   Computing ", b: "cloud computing", want: 1.0},
		{name: "substring short in long", a: "cloud", b: "cloud computing", want: 0.7 * 5.0 / 15.0},
		{name: "substring symmetric", a: "cloud computing", b: "cloud", want: 0.7 * 5.0 / 15.0},
		{name: "curated synonym pair", a: "cloud computing", b: "cloud services", want: 0.6},
		{name: "curated synonym ai", a: "ai", b: "artificial intelligence", want: 0.6},
		{name: "curated synonym spacing variant", a: "cybersecurity", b: "cyber security", want: 0.6},
		{name: "token overlap reordered", a: "network security engineering", b: "security network engineering", want: 0.5},
		{name: "token overlap partial", a: "data migration services", b: "data hosting platform", want: 0.5 * 1.0 / 5.0},
		{name: "no relation", a: "janitorial", b: "astrophysics", want: 0.0},
		{name: "empty term", a: "", b: "cloud", want: 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.a, tt.b), 1e-9)
			assert.InDelta(t, Score(tt.a, tt.b), Score(tt.b, tt.a), 1e-9, "symmetry")
		})
	}
}

func TestScoreReflexive(t *testing.T) {
	for _, term := range []string{"x", "cloud computing", "541512", "Top Secret"} {
		assert.Equal(t, 1.0, Score(term, term), term)
	}
}

func TestMatchSet(t *testing.T) {
	tests := []struct {
		name      string
		required  []string
		available []string
		threshold float64
		wantExact int
		wantFuzzy float64
	}{
		{
			name:      "all exact",
			required:  []string{"cloud computing", "devops"},
			available: []string{"DevOps", "Cloud Computing"},
			threshold: 0.5,
			wantExact: 2,
		},
		{
			name:      "fuzzy over threshold",
			required:  []string{"cloud computing"},
			available: []string{"cloud services"},
			threshold: 0.5,
			wantFuzzy: 0.6,
		},
		{
			name:      "fuzzy under threshold ignored",
			required:  []string{"data migration services"},
			available: []string{"data hosting platform"},
			threshold: 0.5,
		},
		{
			name:      "mixed",
			required:  []string{"devops", "ai"},
			available: []string{"devops", "artificial intelligence"},
			threshold: 0.5,
			wantExact: 1,
			wantFuzzy: 0.6,
		},
		{
			name:      "empty available",
			required:  []string{"devops"},
			threshold: 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exact, fuzzy := MatchSet(tt.required, tt.available, tt.threshold)
			assert.Equal(t, tt.wantExact, exact)
			assert.InDelta(t, tt.wantFuzzy, fuzzy, 1e-9)
		})
	}
}

func TestStateTable(t *testing.T) {
	codeVA, ok := StateCode("Virginia")
	assert.True(t, ok)
	codeVA2, ok2 := StateCode("VA")
	assert.True(t, ok2)
	assert.Equal(t, codeVA, codeVA2)

	// Round trip: abbreviation -> full name -> abbreviation.
	for _, abbr := range []string{"VA", "DC", "NY", "WV"} {
		name, ok := StateName(abbr)
		assert.True(t, ok, abbr)
		back, ok := StateCode(name)
		assert.True(t, ok, name)
		assert.Equal(t, abbr, back)
	}

	_, ok = StateCode("Puerto Rico")
	assert.False(t, ok)
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, []string{"arlington", "va"}, NormalizeLocation("Arlington, Virginia"))
	assert.Equal(t, []string{"arlington", "va"}, NormalizeLocation("arlington VA"))
	// Compound state names rewrite before their suffixes.
	assert.Equal(t, []string{"charleston", "wv"}, NormalizeLocation("Charleston, West Virginia"))
	assert.Nil(t, NormalizeLocation("  "))
}
