// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/config"
	"github.com/tomtom215/affinitas/internal/recommend"
	"github.com/tomtom215/affinitas/internal/recommend/ranking"
	"github.com/tomtom215/affinitas/internal/recommend/reranking"
	"github.com/tomtom215/affinitas/internal/recommend/similarity"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// buildEngineConfig maps the application config onto the engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()
	ec.Metric = cfg.Engine.Metric
	ec.Limits.DefaultK = cfg.Engine.DefaultK
	ec.Limits.MaxK = cfg.Engine.MaxK
	ec.Limits.MaxCandidates = cfg.Engine.MaxCandidates
	ec.Cache.Enabled = cfg.Engine.CacheEnabled
	ec.Cache.TTL = cfg.Engine.CacheTTL
	ec.Cache.MaxEntries = cfg.Engine.CacheMaxEntries
	ec.Rerank.Enabled = cfg.Engine.RerankEnabled
	ec.Rerank.Lambda = cfg.Engine.RerankLambda
	ec.Seed = cfg.Engine.Seed
	return ec
}

// initEngine assembles the recommendation engine: metric, ranker, data
// provider, and the optional MMR reranker.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, store *vectorstore.Store, logger zerolog.Logger) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(buildEngineConfig(cfg), logger)
	if err != nil {
		return nil, err
	}

	metric, err := similarity.Provider(cfg.Engine.Metric)
	if err != nil {
		return nil, err
	}
	engine.SetMetric(cfg.Engine.Metric, metric)

	engine.SetRanker(ranking.New(ranking.Config{
		MinParallel: cfg.Engine.MinParallel,
		Workers:     cfg.Engine.Workers,
	}))
	engine.SetDataProvider(store)

	if cfg.Engine.RerankEnabled {
		engine.RegisterReranker(reranking.NewMMR(cfg.Engine.RerankLambda, metric))
		logger.Info().Float64("lambda", cfg.Engine.RerankLambda).Msg("MMR reranker registered")
	}

	logger.Info().
		Str("metric", cfg.Engine.Metric).
		Int("default_k", cfg.Engine.DefaultK).
		Int("max_k", cfg.Engine.MaxK).
		Bool("cache_enabled", cfg.Engine.CacheEnabled).
		Msg("Recommendation engine initialized")
	return engine, nil
}
