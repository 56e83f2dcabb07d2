// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

// Package logging provides centralized zerolog-based structured logging
// for Affinitas.
//
// Every component logs through this package so that output is uniform:
// zero-allocation structured JSON for production, human-readable console
// output for development. The global logger is configured once at startup
// and shared by the vector store, the recommendation engine, the HTTP API
// and the event pipeline.
//
// # Quick Start
//
//	import "github.com/tomtom215/affinitas/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("namespace", "items").Int("count", n).Msg("Catalog loaded")
//	logging.Error().Err(err).Msg("Recommendation failed")
//
//	// Context-aware logging (request_id / correlation_id propagation)
//	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("Recommendations served")
//
// # Configuration
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal
//	    Format:    "console",  // json or console
//	    Caller:    true,       // include caller file:line
//	    Timestamp: true,       // include timestamps
//	    Output:    os.Stderr,  // output writer
//	})
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Prefer structured fields over string formatting:
//
//	logging.Info().Str("user_id", uid).Int("k", k).Msg("ranked")   // Correct
//	logging.Info().Msgf("ranked %d items for %s", k, uid)          // Avoid
//
// Untrusted input (item titles, IDs from HTTP requests) must pass through
// SanitizeForLog before being logged as a field value.
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	engineLogger := logging.WithComponent("engine")
//	engineLogger.Info().Msg("Engine ready")
//
// # slog Adapter
//
// Libraries that require *slog.Logger (the suture supervision tree via
// sutureslog) are bridged with the adapter:
//
//	slogLogger := logging.NewSlogLogger()
//
// # Testing
//
// Capture output with a test logger:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
package logging
