package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/pkg/anthropic"
	"github.com/samtetlow/nof1-sub000/pkg/nihreporter"
	"github.com/samtetlow/nof1-sub000/pkg/sbir"
	"github.com/samtetlow/nof1-sub000/pkg/usaspending"
	"github.com/samtetlow/nof1-sub000/pkg/uspto"
	"github.com/samtetlow/nof1-sub000/pkg/websearch"
)

// Source confidence levels. Federal award databases are authoritative;
// web search and model inference are advisory.
const (
	confFederalAwards = 0.9
	confResearchAward = 0.85
	confPatents       = 0.8
	confAIAnalysis    = 0.6
	confWebSearch     = 0.5
)

const sourceResultLimit = 25

// --- usaspending ---

type usaspendingSource struct {
	client usaspending.Client
}

// NewUSASpendingSource queries USAspending.gov for federal contract awards.
func NewUSASpendingSource(client usaspending.Client) Source {
	return &usaspendingSource{client: client}
}

func (s *usaspendingSource) Name() string { return model.SourceUSASpending }

func (s *usaspendingSource) Enrich(ctx context.Context, company model.Company, _ model.Solicitation) (model.EnrichmentResult, error) {
	resp, err := s.client.SearchAwards(ctx, usaspending.AwardSearchRequest{
		RecipientName: company.Name,
		Limit:         sourceResultLimit,
	})
	if err != nil {
		return model.EnrichmentResult{}, eris.Wrap(err, "enrich: usaspending search")
	}

	payload := model.AwardsPayload{}
	for _, r := range resp.Results {
		payload.Awards = append(payload.Awards, model.Award{
			ID:          r.AwardID,
			Agency:      r.AwardingAgency,
			Description: r.Description,
			Amount:      r.Amount,
			Year:        r.Year(),
		})
		payload.TotalValue += r.Amount
	}
	return model.EnrichmentResult{Confidence: confFederalAwards, Payload: payload}, nil
}

// --- nih_reporter ---

type nihReporterSource struct {
	client nihreporter.Client
}

// NewNIHReporterSource queries NIH RePORTER for research project funding.
func NewNIHReporterSource(client nihreporter.Client) Source {
	return &nihReporterSource{client: client}
}

func (s *nihReporterSource) Name() string { return model.SourceNIHReporter }

func (s *nihReporterSource) Enrich(ctx context.Context, company model.Company, _ model.Solicitation) (model.EnrichmentResult, error) {
	resp, err := s.client.SearchProjects(ctx, nihreporter.ProjectSearchRequest{
		OrgName: company.Name,
		Limit:   sourceResultLimit,
	})
	if err != nil {
		return model.EnrichmentResult{}, eris.Wrap(err, "enrich: nih reporter search")
	}

	payload := model.AwardsPayload{}
	for _, p := range resp.Results {
		payload.Awards = append(payload.Awards, model.Award{
			ID:          p.ProjectNum,
			Agency:      p.AgencyIC.Name,
			Title:       p.Title,
			Description: p.AbstractText,
			Amount:      p.AwardAmount,
			Year:        p.FiscalYear,
		})
		payload.TotalValue += p.AwardAmount
	}
	return model.EnrichmentResult{Confidence: confResearchAward, Payload: payload}, nil
}

// --- sbir ---

type sbirSource struct {
	client sbir.Client
}

// NewSBIRSource queries SBIR.gov for SBIR/STTR awards.
func NewSBIRSource(client sbir.Client) Source {
	return &sbirSource{client: client}
}

func (s *sbirSource) Name() string { return model.SourceSBIR }

func (s *sbirSource) Enrich(ctx context.Context, company model.Company, _ model.Solicitation) (model.EnrichmentResult, error) {
	awards, err := s.client.SearchAwards(ctx, sbir.AwardSearchRequest{
		Firm:  company.Name,
		Limit: sourceResultLimit,
	})
	if err != nil {
		return model.EnrichmentResult{}, eris.Wrap(err, "enrich: sbir search")
	}

	payload := model.AwardsPayload{}
	for _, a := range awards {
		payload.Awards = append(payload.Awards, model.Award{
			Agency:      a.Agency,
			Title:       a.Title,
			Description: a.Abstract,
			Amount:      a.AmountValue(),
			Year:        a.Year,
		})
		payload.TotalValue += a.AmountValue()
	}
	return model.EnrichmentResult{Confidence: confResearchAward, Payload: payload}, nil
}

// --- uspto ---

type usptoSource struct {
	client uspto.Client
}

// NewUSPTOSource queries PatentsView for granted patents.
func NewUSPTOSource(client uspto.Client) Source {
	return &usptoSource{client: client}
}

func (s *usptoSource) Name() string { return model.SourceUSPTO }

func (s *usptoSource) Enrich(ctx context.Context, company model.Company, _ model.Solicitation) (model.EnrichmentResult, error) {
	resp, err := s.client.SearchPatents(ctx, uspto.PatentSearchRequest{
		Assignee: company.Name,
		Limit:    sourceResultLimit,
	})
	if err != nil {
		return model.EnrichmentResult{}, eris.Wrap(err, "enrich: uspto search")
	}

	payload := model.PatentsPayload{}
	for _, p := range resp.Patents {
		payload.Patents = append(payload.Patents, model.Patent{
			Number: p.ID,
			Title:  p.Title,
			Year:   p.Year(),
		})
	}
	return model.EnrichmentResult{Confidence: confPatents, Payload: payload}, nil
}

// --- websearch ---

type websearchSource struct {
	client websearch.Client
}

// NewWebSearchSource gathers public web presence findings.
func NewWebSearchSource(client websearch.Client) Source {
	return &websearchSource{client: client}
}

func (s *websearchSource) Name() string { return model.SourceWebSearch }

func (s *websearchSource) Enrich(ctx context.Context, company model.Company, sol model.Solicitation) (model.EnrichmentResult, error) {
	query := company.Name
	if sol.Agency != "" {
		query += " " + sol.Agency
	}
	resp, err := s.client.Search(ctx, websearch.SearchRequest{Query: query, Count: 10})
	if err != nil {
		return model.EnrichmentResult{}, eris.Wrap(err, "enrich: web search")
	}

	payload := model.SearchPayload{}
	for _, r := range resp.Results {
		payload.Findings = append(payload.Findings, model.SearchFinding{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
		})
	}
	return model.EnrichmentResult{Confidence: confWebSearch, Payload: payload}, nil
}

// --- ai_analysis ---

type aiAnalysisSource struct {
	client anthropic.Client
	model  string
}

// NewAIAnalysisSource assesses capability fit with an Anthropic model. The
// model is asked for structured JSON; unparseable output is an error so the
// source is omitted rather than polluting the bundle.
func NewAIAnalysisSource(client anthropic.Client, modelName string) Source {
	return &aiAnalysisSource{client: client, model: modelName}
}

func (s *aiAnalysisSource) Name() string { return model.SourceAIAnalysis }

const analysisSystemPrompt = `You are a federal contracting analyst. Given a solicitation and a company profile, assess the company's fit. Respond with JSON only, no prose, matching this schema:
{"capabilities": [string], "missing_capabilities": [string], "differentiators": [string], "summary": string, "estimated_employees": int}
capabilities lists required capabilities the company credibly has; missing_capabilities lists required capabilities it lacks; estimated_employees is your best estimate of headcount, 0 if unknown.`

func (s *aiAnalysisSource) Enrich(ctx context.Context, company model.Company, sol model.Solicitation) (model.EnrichmentResult, error) {
	prompt := fmt.Sprintf(
		"Solicitation: %s (%s)\nRequired capabilities: %s\nKeywords: %s\n\nCompany: %s\nStated capabilities: %s\nEmployees (claimed): %d\nDescription: %s\nCapability statement: %s",
		sol.Title, sol.Agency,
		strings.Join(sol.Capabilities, "; "),
		strings.Join(sol.Keywords, "; "),
		company.Name,
		strings.Join(company.Capabilities, "; "),
		company.Employees,
		company.Description,
		company.CapabilityStatement,
	)

	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: 1024,
		System:    analysisSystemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return model.EnrichmentResult{}, eris.Wrap(err, "enrich: ai analysis")
	}

	payload, err := parseAnalysis(resp.FirstText())
	if err != nil {
		return model.EnrichmentResult{}, err
	}
	return model.EnrichmentResult{Confidence: confAIAnalysis, Payload: payload}, nil
}

// parseAnalysis extracts the JSON object from the model's reply, tolerating
// surrounding prose or code fences.
func parseAnalysis(text string) (model.AnalysisPayload, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return model.AnalysisPayload{}, eris.New("enrich: analysis reply contains no JSON object")
	}
	var payload model.AnalysisPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return model.AnalysisPayload{}, eris.Wrap(err, "enrich: unmarshal analysis")
	}
	return payload, nil
}
