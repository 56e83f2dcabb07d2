// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestBusLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBusLogger(zerolog.New(&buf))

	logger.Error("bus failure", errors.New("boom"), watermill.LogFields{"topic": "catalog.items.upsert"})

	out := buf.String()
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("Expected error level, got %s", out)
	}
	if !strings.Contains(out, "bus failure") {
		t.Errorf("Expected message in output, got %s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("Expected error in output, got %s", out)
	}
	if !strings.Contains(out, "catalog.items.upsert") {
		t.Errorf("Expected field in output, got %s", out)
	}
}

func TestBusLogger_InfoAndDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBusLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.Info("subscribed", watermill.LogFields{"handlers": 6})
	logger.Debug("message received", nil)

	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("Expected info entry, got %s", out)
	}
	if !strings.Contains(out, `"level":"debug"`) {
		t.Errorf("Expected debug entry, got %s", out)
	}
	if !strings.Contains(out, `"handlers":6`) {
		t.Errorf("Expected handlers field, got %s", out)
	}
}

func TestBusLogger_TraceSilencedByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBusLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Trace("per-message hop", nil)

	if buf.Len() != 0 {
		t.Errorf("Expected trace suppressed at info level, got %s", buf.String())
	}
}

func TestBusLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBusLogger(zerolog.New(&buf))

	scoped := logger.With(watermill.LogFields{"component": "router"})
	scoped.Info("started", nil)

	out := buf.String()
	if !strings.Contains(out, `"component":"router"`) {
		t.Errorf("Expected persistent field on scoped logger, got %s", out)
	}
}
