package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/samtetlow/nof1-sub000/internal/confirm"
	"github.com/samtetlow/nof1-sub000/internal/enrich"
	"github.com/samtetlow/nof1-sub000/internal/matcher"
	"github.com/samtetlow/nof1-sub000/internal/pipeline"
	"github.com/samtetlow/nof1-sub000/internal/store"
	"github.com/samtetlow/nof1-sub000/internal/validate"
	"github.com/samtetlow/nof1-sub000/pkg/anthropic"
)

// openStore opens the configured backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	dsn := cfg.Store.Path
	if cfg.Store.Driver == "postgres" {
		dsn = cfg.Store.DatabaseURL
	}
	st, err := store.Open(ctx, cfg.Store.Driver, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadWeights reads the configured weights file, or nil for defaults.
func loadWeights() (matcher.Weights, error) {
	if cfg.Pipeline.WeightsPath == "" {
		return nil, nil
	}
	return matcher.LoadWeights(cfg.Pipeline.WeightsPath)
}

// buildPipeline assembles the four stage engines from config.
func buildPipeline() (*pipeline.Pipeline, error) {
	w, err := loadWeights()
	if err != nil {
		return nil, err
	}
	return buildPipelineWith(w)
}

// buildPipelineWith assembles the pipeline around an explicit weight set,
// nil meaning defaults.
func buildPipelineWith(w matcher.Weights) (*pipeline.Pipeline, error) {
	m, err := matcher.NewEngine(w)
	if err != nil {
		return nil, err
	}

	var narrator confirm.Narrator
	if cfg.Anthropic.Key != "" {
		narrator = confirm.NewAnthropicNarrator(
			anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
	}

	enricher := enrich.NewManager(0, enrich.BuildSources(cfg)...)

	return pipeline.New(m, confirm.NewEngine(narrator), validate.NewEngine(), enricher, pipeline.Options{
		TopK:          cfg.Pipeline.TopK,
		MaxConcurrent: cfg.Pipeline.MaxConcurrentCompanies,
	})
}
