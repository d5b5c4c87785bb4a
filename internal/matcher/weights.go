package matcher

import (
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Dimension names, in evaluation order.
const (
	DimNAICS           = "naics"
	DimCapabilities    = "capabilities"
	DimPastPerformance = "past_performance"
	DimSizeStatus      = "size_status"
	DimClearance       = "clearance"
	DimLocation        = "location"
	DimKeywords        = "keywords"
)

// dimensions fixes evaluation and reporting order.
var dimensions = []string{
	DimNAICS,
	DimCapabilities,
	DimPastPerformance,
	DimSizeStatus,
	DimClearance,
	DimLocation,
	DimKeywords,
}

const weightTolerance = 1e-6

// Weights maps each dimension to its share of the overall score.
type Weights map[string]float64

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		DimNAICS:           0.20,
		DimCapabilities:    0.25,
		DimPastPerformance: 0.20,
		DimSizeStatus:      0.10,
		DimClearance:       0.10,
		DimLocation:        0.05,
		DimKeywords:        0.10,
	}
}

// Validate checks that every dimension is present and non-negative and that
// the weights sum to 1.0 within tolerance.
func (w Weights) Validate() error {
	sum := 0.0
	for _, dim := range dimensions {
		v, ok := w[dim]
		if !ok {
			return eris.Errorf("weights: missing dimension %q", dim)
		}
		if v < 0 {
			return eris.Errorf("weights: dimension %q is negative (%v)", dim, v)
		}
		sum += v
	}
	if len(w) != len(dimensions) {
		for dim := range w {
			known := false
			for _, d := range dimensions {
				if d == dim {
					known = true
					break
				}
			}
			if !known {
				return eris.Errorf("weights: unknown dimension %q", dim)
			}
		}
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return eris.Errorf("weights: sum %v, want 1.0", sum)
	}
	return nil
}

// LoadWeights reads a weight table from a YAML file.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "weights: read %s", path)
	}
	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, eris.Wrapf(err, "weights: parse %s", path)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// SaveWeights writes a weight table to a YAML file.
func SaveWeights(path string, w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(w)
	if err != nil {
		return eris.Wrap(err, "weights: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "weights: write %s", path)
	}
	return nil
}
