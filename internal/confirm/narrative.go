package confirm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// Narrator produces the free-text alignment summary, typically backed by an
// LLM. Its output is never trusted directly: the engine verifies the
// two-paragraph/word-count contract and substitutes a template on any
// shortfall.
type Narrator interface {
	AlignmentSummary(ctx context.Context, sol model.Solicitation, company model.Company, result model.ConfirmationResult) (string, error)
}

const minSummaryWords = 80

var paragraphSep = regexp.MustCompile(`\n[ \t]*\n`)

// alignmentSummary returns a summary that always satisfies the contract:
// exactly two non-empty paragraphs, at least minSummaryWords words. Narrator
// failures and short outputs are repaired, never surfaced.
func (e *Engine) alignmentSummary(ctx context.Context, sol model.Solicitation, company model.Company, result model.ConfirmationResult) string {
	if e.narrator != nil {
		text, err := e.narrator.AlignmentSummary(ctx, sol, company, result)
		if err != nil {
			zap.L().Warn("confirm: narrator failed, using template summary",
				zap.String("company", company.Name),
				zap.Error(err),
			)
		} else if SummaryValid(text) {
			return text
		} else {
			zap.L().Warn("confirm: narrator output below contract, using template summary",
				zap.String("company", company.Name),
				zap.Int("words", wordCount(text)),
			)
		}
	}
	return templateSummary(sol, company, result)
}

// SummaryValid reports whether text is exactly two non-empty paragraphs
// separated by a blank line, with at least the minimum word count.
func SummaryValid(text string) bool {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := paragraphSep.Split(strings.TrimSpace(text), -1)
	nonEmpty := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty++
		}
	}
	return nonEmpty == 2 && len(parts) == nonEmpty && wordCount(text) >= minSummaryWords
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// templateSummary builds the deterministic fallback from the company name,
// confirmed capability evidence, and agency name. It satisfies the summary
// contract for every input, including all-empty enrichment.
func templateSummary(sol model.Solicitation, company model.Company, result model.ConfirmationResult) string {
	agency := sol.Agency
	if agency == "" {
		agency = "The issuing agency"
	}
	title := sol.Title
	if title == "" {
		title = "this solicitation"
	}
	name := company.Name
	if name == "" {
		name = "The candidate company"
	}

	focus := "the solicited scope of work"
	if len(sol.Capabilities) > 0 {
		focus = sol.Capabilities[0]
	}

	specialization := "the solicited technical domain"
	if len(company.Capabilities) > 0 {
		n := len(company.Capabilities)
		if n > 3 {
			n = 3
		}
		specialization = strings.Join(company.Capabilities[:n], ", ")
	}

	areas := capabilityAreas(sol, company)

	evidenceCount := 0
	for _, f := range result.Factors {
		evidenceCount += len(f.Evidence)
	}
	evidenceSentence := "Enrichment sources produced limited corroboration, so the claimed qualifications carry most of the weight in this assessment."
	if evidenceCount > 0 {
		evidenceSentence = fmt.Sprintf(
			"Enrichment produced %d corroborating evidence items across %d sources.",
			evidenceCount, len(result.SourcesUsed))
	}

	p1 := fmt.Sprintf(
		"%s is seeking support under %s, an effort centered on %s. "+
			"%s positions itself in this space with a profile that emphasizes %s. "+
			"The alignment review compared the company's claimed qualifications against independent "+
			"enrichment sources to establish how much of that profile stands up to outside evidence.",
		agency, title, focus, name, specialization)

	p2 := fmt.Sprintf(
		"Three capability areas anchor the alignment: %s, %s, and %s. "+
			"Each was weighed against award histories, patent records, and public web presence gathered "+
			"during enrichment. %s Taken together, the assessment supports the scored match while the "+
			"weaker factors indicate where further diligence should concentrate before a pursuit decision.",
		areas[0], areas[1], areas[2], evidenceSentence)

	return p1 + "\n\n" + p2
}

// capabilityAreas picks three concrete areas for the second paragraph,
// preferring solicitation requirements, then company claims, with generic
// fills as a last resort.
func capabilityAreas(sol model.Solicitation, company model.Company) [3]string {
	var pool []string
	pool = append(pool, sol.Capabilities...)
	pool = append(pool, company.Capabilities...)
	pool = append(pool, "technical delivery", "program experience", "domain expertise")

	var areas [3]string
	seen := make(map[string]bool)
	i := 0
	for _, p := range pool {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		areas[i] = p
		i++
		if i == 3 {
			break
		}
	}
	return areas
}
