package confirm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/pkg/anthropic"
)

// anthropicNarrator writes alignment summaries with an Anthropic model.
type anthropicNarrator struct {
	client anthropic.Client
	model  string
}

// NewAnthropicNarrator returns a Narrator backed by the Anthropic API.
func NewAnthropicNarrator(client anthropic.Client, modelName string) Narrator {
	return &anthropicNarrator{client: client, model: modelName}
}

const narratorSystemPrompt = `You write concise alignment assessments for federal contracting decisions. Write exactly two paragraphs separated by one blank line, at least 90 words total. The first paragraph describes the solicitation and the company's positioning; the second weighs the confirmation evidence and names where diligence should focus. No headings, no bullet points, no preamble.`

func (n *anthropicNarrator) AlignmentSummary(ctx context.Context, sol model.Solicitation, company model.Company, result model.ConfirmationResult) (string, error) {
	var factors strings.Builder
	for _, f := range result.Factors {
		fmt.Fprintf(&factors, "- %s: %s (%d evidence, %d contradictions)\n",
			f.Name, f.Status, len(f.Evidence), len(f.Contradictions))
	}

	prompt := fmt.Sprintf(
		"Solicitation: %s (%s)\nCompany: %s\nOverall confirmation: %s (confidence %.2f)\nFactors:\n%s",
		sol.Title, sol.Agency, company.Name,
		result.OverallStatus, result.OverallConfidence, factors.String(),
	)

	resp, err := n.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     n.model,
		MaxTokens: 512,
		System:    narratorSystemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "confirm: narrator request")
	}
	return strings.TrimSpace(resp.FirstText()), nil
}
