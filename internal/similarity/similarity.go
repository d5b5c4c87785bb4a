// Package similarity compares short phrases: capability names, keywords,
// locations, clearance levels. Pure string math, no I/O.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tier constants. Curated synonyms outscore any token-overlap result so a
// vetted pairing always counts as a fuzzy match downstream.
const (
	substringFactor = 0.7
	jaccardFactor   = 0.5
	synonymScore    = 0.6
)

// synonymGroups maps each known phrase variant to its group key. Two terms
// in the same group score synonymScore.
var synonymGroups = map[string]string{
	"ai":                      "artificial-intelligence",
	"artificial intelligence": "artificial-intelligence",
	"ml":                      "machine-learning",
	"machine learning":        "machine-learning",
	"cybersecurity":           "cybersecurity",
	"cyber security":          "cybersecurity",
	"information security":    "cybersecurity",
	"infosec":                 "cybersecurity",
	"cloud computing":         "cloud",
	"cloud services":          "cloud",
	"cloud infrastructure":    "cloud",
	"it":                      "information-technology",
	"information technology":  "information-technology",
	"software development":    "software-engineering",
	"software engineering":    "software-engineering",
	"data analytics":          "data-analysis",
	"data analysis":           "data-analysis",
	"devops":                  "devops",
	"devsecops":               "devops",
	"r&d":                     "research",
	"research and development": "research",
}

// lower does Unicode-aware lowercasing. A cases.Caser is not safe for
// concurrent use, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.English).String(s)
}

// Normalize lowercases, trims, and collapses interior whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(lower(s)), " ")
}

// Tokenize splits a normalized phrase into lowercase word tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(lower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Score compares two phrases and returns a similarity in [0,1].
//
// Rules, first match wins: normalized equality scores 1.0; a substring
// relation scores 0.7 scaled by the length ratio; a curated synonym pairing
// scores a fixed 0.6; token-level Jaccard overlap scores 0.5 scaled by the
// overlap ratio. The synonym table is checked ahead of Jaccard because a
// vetted pairing is authoritative even when the phrases share few words.
func Score(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		shorter, longer := len(na), len(nb)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return substringFactor * float64(shorter) / float64(longer)
	}

	if ga, ok := synonymGroups[na]; ok {
		if gb, ok := synonymGroups[nb]; ok && ga == gb {
			return synonymScore
		}
	}

	if j := jaccard(Tokenize(na), Tokenize(nb)); j > 0 {
		return jaccardFactor * j
	}

	return 0
}

// MatchSet compares each required term against the available set. It returns
// the count of exact matches and the sum of best fuzzy scores for terms that
// missed exactly but cleared the threshold.
func MatchSet(required, available []string, threshold float64) (exact int, fuzzySum float64) {
	avail := make([]string, 0, len(available))
	seen := make(map[string]bool, len(available))
	for _, a := range available {
		n := Normalize(a)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		avail = append(avail, n)
	}

	for _, req := range required {
		r := Normalize(req)
		if r == "" {
			continue
		}
		if seen[r] {
			exact++
			continue
		}
		best := 0.0
		for _, a := range avail {
			if s := Score(r, a); s > best {
				best = s
			}
		}
		if best >= threshold {
			fuzzySum += best
		}
	}
	return exact, fuzzySum
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}
	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	if inter == 0 {
		return 0
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}
