// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// BusLogger adapts zerolog to watermill's LoggerAdapter interface so bus,
// router, and transport internals log through the application logger instead
// of watermill's default stdlib logger.
type BusLogger struct {
	logger zerolog.Logger
}

var _ watermill.LoggerAdapter = (*BusLogger)(nil)

// NewBusLogger wraps a zerolog logger for use by watermill components.
func NewBusLogger(logger zerolog.Logger) *BusLogger {
	return &BusLogger{logger: logger}
}

// Error logs an error-level message with the given fields.
func (l *BusLogger) Error(msg string, err error, fields watermill.LogFields) {
	withFields(l.logger.Error().Err(err), fields).Msg(msg)
}

// Info logs an info-level message with the given fields.
func (l *BusLogger) Info(msg string, fields watermill.LogFields) {
	withFields(l.logger.Info(), fields).Msg(msg)
}

// Debug logs a debug-level message with the given fields.
func (l *BusLogger) Debug(msg string, fields watermill.LogFields) {
	withFields(l.logger.Debug(), fields).Msg(msg)
}

// Trace logs watermill trace output at zerolog's trace level.
// Watermill traces every message hop, so this is silent unless the
// application log level is lowered to trace.
func (l *BusLogger) Trace(msg string, fields watermill.LogFields) {
	withFields(l.logger.Trace(), fields).Msg(msg)
}

// With returns a logger that includes the given fields on every entry.
func (l *BusLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &BusLogger{logger: ctx.Logger()}
}

func withFields(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
