package enrich

import (
	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/config"
	"github.com/samtetlow/nof1-sub000/pkg/anthropic"
	"github.com/samtetlow/nof1-sub000/pkg/nihreporter"
	"github.com/samtetlow/nof1-sub000/pkg/sbir"
	"github.com/samtetlow/nof1-sub000/pkg/usaspending"
	"github.com/samtetlow/nof1-sub000/pkg/uspto"
	"github.com/samtetlow/nof1-sub000/pkg/websearch"
)

// BuildSources constructs the enabled enrichment sources from config.
// Sources missing required credentials are skipped with a warning so a
// partially configured install still produces a (thinner) bundle.
func BuildSources(cfg *config.Config) []Source {
	var sources []Source

	if cfg.USASpending.Enabled {
		sources = append(sources, NewUSASpendingSource(usaspending.NewClient(
			usaspending.WithBaseURL(cfg.USASpending.BaseURL),
			usaspending.WithRateLimit(cfg.USASpending.RPS),
		)))
	}
	if cfg.NIHReporter.Enabled {
		sources = append(sources, NewNIHReporterSource(nihreporter.NewClient(
			nihreporter.WithBaseURL(cfg.NIHReporter.BaseURL),
			nihreporter.WithRateLimit(cfg.NIHReporter.RPS),
		)))
	}
	if cfg.SBIR.Enabled {
		sources = append(sources, NewSBIRSource(sbir.NewClient(
			sbir.WithBaseURL(cfg.SBIR.BaseURL),
			sbir.WithRateLimit(cfg.SBIR.RPS),
		)))
	}
	if cfg.USPTO.Enabled {
		if cfg.USPTO.Key == "" {
			zap.L().Warn("enrich: uspto enabled but no api key, skipping")
		} else {
			sources = append(sources, NewUSPTOSource(uspto.NewClient(
				cfg.USPTO.Key,
				uspto.WithBaseURL(cfg.USPTO.BaseURL),
				uspto.WithRateLimit(cfg.USPTO.RPS),
			)))
		}
	}
	if cfg.WebSearch.Enabled {
		if cfg.WebSearch.BaseURL == "" || cfg.WebSearch.Key == "" {
			zap.L().Warn("enrich: websearch enabled but not configured, skipping")
		} else {
			sources = append(sources, NewWebSearchSource(websearch.NewClient(
				cfg.WebSearch.Key, cfg.WebSearch.BaseURL,
			)))
		}
	}
	if cfg.Anthropic.Key != "" {
		sources = append(sources, NewAIAnalysisSource(
			anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model,
		))
	}

	return sources
}
