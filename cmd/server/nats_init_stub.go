// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

//go:build !nats

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/affinitas/internal/events"
	"github.com/tomtom215/affinitas/internal/vectorstore"
)

// initNATSPipeline is a stub for non-NATS builds. Returning nil makes
// the caller fall back to the in-process bus.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initNATSPipeline(_ *events.Config, _ *vectorstore.Store, logger zerolog.Logger) (*catalogPipeline, error) {
	logger.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	return nil, nil
}
