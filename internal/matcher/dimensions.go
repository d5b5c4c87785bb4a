package matcher

import (
	"fmt"
	"strings"

	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/internal/similarity"
)

// Term credit tiers for capabilities and keywords. Fuzzy and textual
// evidence contribute at a discount so noisy free-text profiles cannot
// out-credit exact vocabulary matches.
const (
	fuzzyThreshold = 0.5
	fuzzyCredit    = 0.7
	textCredit     = 0.5
)

// Past performance blend weights: frequency-weighted text overlap vs
// keyword-set overlap.
const (
	textBlendWeight    = 0.6
	keywordBlendWeight = 0.4
)

const partialLocationCredit = 0.4

func scoreNAICS(sol model.Solicitation, c model.Company) (float64, string) {
	if len(sol.NAICSCodes) == 0 {
		return 1.0, "no NAICS requirement"
	}
	held := make(map[string]bool, len(c.NAICSCodes))
	for _, code := range c.NAICSCodes {
		held[strings.TrimSpace(code)] = true
	}
	for _, req := range sol.NAICSCodes {
		if held[strings.TrimSpace(req)] {
			return 1.0, fmt.Sprintf("NAICS %s held", strings.TrimSpace(req))
		}
	}
	return 0.0, fmt.Sprintf("none of the required NAICS codes %v held", sol.NAICSCodes)
}

func scoreCapabilities(sol model.Solicitation, c model.Company) (float64, string) {
	return scoreTermSet(sol.Capabilities, c.Capabilities, c.PastPerformanceText(), "capability")
}

func scoreKeywords(sol model.Solicitation, c model.Company) (float64, string) {
	return scoreTermSet(sol.Keywords, c.Keywords, c.PastPerformanceText(), "keyword")
}

// scoreTermSet applies the three-tier credit scheme: exact membership gets
// full credit, the best fuzzy match at or above the threshold gets 70%, and
// a literal substring hit in the profile text gets 50%. Credits are averaged
// over the required terms and capped at 1.0.
func scoreTermSet(required, held []string, text, noun string) (float64, string) {
	if len(required) == 0 {
		return 1.0, fmt.Sprintf("no %s requirement", noun)
	}

	heldNorm := make(map[string]bool, len(held))
	heldList := make([]string, 0, len(held))
	for _, h := range held {
		n := similarity.Normalize(h)
		if n == "" || heldNorm[n] {
			continue
		}
		heldNorm[n] = true
		heldList = append(heldList, n)
	}
	textNorm := similarity.Normalize(text)

	var credit float64
	var exact, fuzzy, textual int
	for _, req := range required {
		r := similarity.Normalize(req)
		if r == "" {
			continue
		}
		if heldNorm[r] {
			credit += 1.0
			exact++
			continue
		}
		best := 0.0
		for _, h := range heldList {
			if s := similarity.Score(r, h); s > best {
				best = s
			}
		}
		if best >= fuzzyThreshold {
			credit += fuzzyCredit * best
			fuzzy++
			continue
		}
		if textNorm != "" && strings.Contains(textNorm, r) {
			credit += textCredit
			textual++
		}
	}

	score := credit / float64(len(required))
	if score > 1.0 {
		score = 1.0
	}
	return score, fmt.Sprintf("%d/%d %ss exact, %d fuzzy, %d in profile text",
		exact, len(required), noun, fuzzy, textual)
}

func scorePastPerformance(sol model.Solicitation, c model.Company) (float64, string) {
	text := c.PastPerformanceText()
	textScore := textOverlap(sol.RawText, text)
	kwScore := keywordOverlap(sol.Keywords, c.Keywords)

	switch {
	case sol.RawText == "" && len(sol.Keywords) == 0:
		return 1.0, "no descriptive text or keywords to compare"
	case sol.RawText == "":
		return kwScore, fmt.Sprintf("keyword overlap %.2f (no solicitation text)", kwScore)
	case len(sol.Keywords) == 0:
		return textScore, fmt.Sprintf("text overlap %.2f (no solicitation keywords)", textScore)
	}

	score := textBlendWeight*textScore + keywordBlendWeight*kwScore
	return score, fmt.Sprintf("text overlap %.2f, keyword overlap %.2f", textScore, kwScore)
}

// textOverlap is frequency-weighted word overlap: common words count at the
// lesser of their per-text frequencies, normalized by the larger total word
// count. Repeating a common word cannot inflate the score.
func textOverlap(a, b string) float64 {
	fa := wordFreq(a)
	fb := wordFreq(b)
	if len(fa) == 0 || len(fb) == 0 {
		return 0
	}
	common := 0
	for w, na := range fa {
		if nb, ok := fb[w]; ok {
			if nb < na {
				common += nb
			} else {
				common += na
			}
		}
	}
	totalA, totalB := 0, 0
	for _, n := range fa {
		totalA += n
	}
	for _, n := range fb {
		totalB += n
	}
	denom := totalA
	if totalB > denom {
		denom = totalB
	}
	return float64(common) / float64(denom)
}

func wordFreq(s string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range similarity.Tokenize(s) {
		freq[tok]++
	}
	return freq
}

// keywordOverlap is the share of required keywords present in the company's
// keyword set after normalization.
func keywordOverlap(required, held []string) float64 {
	if len(required) == 0 {
		return 0
	}
	heldNorm := make(map[string]bool, len(held))
	for _, h := range held {
		heldNorm[similarity.Normalize(h)] = true
	}
	hits := 0
	for _, r := range required {
		if heldNorm[similarity.Normalize(r)] {
			hits++
		}
	}
	return float64(hits) / float64(len(required))
}

func scoreSizeStatus(sol model.Solicitation, c model.Company) (float64, string) {
	if len(sol.SetAsides) == 0 {
		return 1.0, "no set-aside requirement"
	}
	held := make(map[string]bool, len(c.Status))
	for _, s := range c.Status {
		held[similarity.Normalize(s)] = true
	}
	for _, req := range sol.SetAsides {
		if held[similarity.Normalize(req)] {
			return 1.0, fmt.Sprintf("holds %s status", req)
		}
	}
	return 0.0, fmt.Sprintf("none of the required set-asides %v held", sol.SetAsides)
}

func scoreClearance(sol model.Solicitation, c model.Company) (float64, string) {
	required := NormalizeClearance(sol.Clearance)
	if required == ClearanceNone {
		return 1.0, "no clearance requirement"
	}
	if MeetsClearance(sol.Clearance, c.Clearances) {
		return 1.0, fmt.Sprintf("holds %s or above", required)
	}
	return 0.0, fmt.Sprintf("%s required, not held", required)
}

func scoreLocation(sol model.Solicitation, c model.Company) (float64, string) {
	reqTokens := similarity.NormalizeLocation(sol.PlaceOfPerformance)
	if len(reqTokens) == 0 {
		return 1.0, "no place of performance stated"
	}
	reqSet := make(map[string]bool, len(reqTokens))
	for _, t := range reqTokens {
		reqSet[t] = true
	}
	reqJoined := strings.Join(reqTokens, " ")

	partial := false
	for _, loc := range c.Locations {
		tokens := similarity.NormalizeLocation(loc)
		for _, t := range tokens {
			if reqSet[t] {
				return 1.0, fmt.Sprintf("location %q overlaps place of performance", loc)
			}
		}
		joined := strings.Join(tokens, " ")
		if joined != "" && (strings.Contains(reqJoined, joined) || strings.Contains(joined, reqJoined)) {
			partial = true
		}
	}
	if partial {
		return partialLocationCredit, "partial location overlap"
	}
	return 0.0, "no location overlap"
}
