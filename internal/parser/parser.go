// Package parser extracts solicitation fields from raw text with
// deterministic rules. It feeds the Solicitation record; scoring never
// depends on it.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/samtetlow/nof1-sub000/internal/matcher"
	"github.com/samtetlow/nof1-sub000/internal/model"
)

var naicsRx = regexp.MustCompile(`\b(5415[1-9]\d?|54\d{3}|3364\d|334\d{2}|6114\d|6211\d|6221\d)\b`)

var setAsideTerms = []string{"8(a)", "WOSB", "EDWOSB", "SDVOSB", "HUBZone", "Small Business", "SB"}

// Clearance terms ordered most restrictive first, so a document mentioning
// "Top Secret" is not read as requiring only "Secret".
var clearanceTerms = []string{"TS/SCI", "Top Secret", "TS", "Secret", "Confidential", "Public Trust"}

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)TITLE:\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)SOLICITATION\s+TITLE:\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)PROJECT\s+TITLE:\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)^(.+?)(?:\n|SOLICITATION)`),
}

var agencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)AGENCY:\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)DEPARTMENT:\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)CONTRACTING\s+OFFICE:\s*(.+?)(?:\n|$)`),
}

var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)SOLICITATION\s+(?:NUMBER|NO|#):\s*([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)SOL(?:ICITATION)?\s+(?:NUMBER|NO|#):\s*([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)RFP\s+(?:NUMBER|NO|#):\s*([A-Z0-9\-]+)`),
}

var placePattern = regexp.MustCompile(`(?im)PLACE\s+OF\s+PERFORMANCE:\s*(.+?)(?:\n|$)`)

var techTerms = []string{
	"cloud", "cybersecurity", "software", "hardware", "network", "system",
	"data", "analytics", "ai", "machine learning", "development", "infrastructure",
	"security", "encryption", "database", "api", "integration", "migration",
	"devops", "kubernetes", "docker", "aws", "azure", "gcp",
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "shall": true, "will": true, "must": true,
	"have": true, "are": true, "was": true, "were": true, "has": true,
	"had": true, "but": true, "not": true, "any": true, "all": true,
	"may": true, "can": true, "could": true, "would": true, "should": true,
	"its": true, "their": true, "them": true, "than": true, "then": true,
	"these": true, "those": true, "only": true, "such": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "between": true, "under": true,
}

const (
	maxFieldLen     = 200
	maxCapabilities = 15
	maxKeywords     = 25
)

// Parse extracts a Solicitation from raw descriptive text. Fields the text
// does not state are left empty; downstream scoring treats them as "no
// requirement". Parse never fails: unparseable text yields a record with
// only RawText set.
func Parse(text string) model.Solicitation {
	sol := model.Solicitation{
		ID:      uuid.NewString(),
		RawText: text,
	}
	if strings.TrimSpace(text) == "" {
		return sol
	}

	sol.NAICSCodes = uniqueSorted(naicsRx.FindAllString(text, -1))
	sol.SetAsides = matchTerms(text, setAsideTerms)

	for _, term := range clearanceTerms {
		if wordMatch(text, term) {
			sol.Clearance = matcher.NormalizeClearance(term)
			break
		}
	}

	sol.Title = firstMatch(text, titlePatterns)
	sol.Agency = firstMatch(text, agencyPatterns)
	sol.Number = firstMatch(text, numberPatterns)
	if m := placePattern.FindStringSubmatch(text); m != nil {
		sol.PlaceOfPerformance = clip(strings.TrimSpace(m[1]))
	}

	for _, term := range techTerms {
		if wordMatch(text, term) {
			sol.Capabilities = append(sol.Capabilities, term)
			if len(sol.Capabilities) == maxCapabilities {
				break
			}
		}
	}

	sol.Keywords = extractKeywords(text)

	return sol
}

func firstMatch(text string, patterns []*regexp.Regexp) string {
	for _, rx := range patterns {
		if m := rx.FindStringSubmatch(text); m != nil {
			if v := clip(strings.TrimSpace(m[1])); v != "" {
				return v
			}
		}
	}
	return ""
}

func matchTerms(text string, terms []string) []string {
	var out []string
	for _, t := range terms {
		if wordMatch(text, t) {
			out = append(out, t)
		}
	}
	return out
}

// wordMatch requires the term to stand alone, not as part of a longer
// word. Terms like "8(a)" contain punctuation, so plain \b anchors would
// miss them.
func wordMatch(text, term string) bool {
	rx := regexp.MustCompile(`(?i)(^|[^a-zA-Z0-9])` + regexp.QuoteMeta(term) + `($|[^a-zA-Z0-9])`)
	return rx.MatchString(text)
}

func clip(s string) string {
	if len(s) > maxFieldLen {
		return s[:maxFieldLen]
	}
	return s
}

var wordRx = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9\-]{2,}`)

// extractKeywords ranks words by frequency, drops stop words, and keeps
// terms appearing at least twice. Ties resolve alphabetically so output is
// stable across runs.
func extractKeywords(text string) []string {
	freq := make(map[string]int)
	for _, w := range wordRx.FindAllString(strings.ToLower(text), -1) {
		freq[w]++
	}

	type wordCount struct {
		word  string
		count int
	}
	counts := make([]wordCount, 0, len(freq))
	for w, c := range freq {
		if stopWords[w] || c < 2 {
			continue
		}
		counts = append(counts, wordCount{word: w, count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})

	n := len(counts)
	if n > maxKeywords {
		n = maxKeywords
	}
	keywords := make([]string, 0, n)
	for _, wc := range counts[:n] {
		keywords = append(keywords, wc.word)
	}
	return keywords
}

func uniqueSorted(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	var out []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
