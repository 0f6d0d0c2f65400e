// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"log/slog"
	"time"
)

// Audit event types emitted by the movie API.
const (
	EventUserRegister = "user.register"
	EventUserLogin    = "user.login"
	EventRatingUpsert = "rating.upsert"
	EventRatingDelete = "rating.delete"
)

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEvent records a security-relevant action.
//
// # Fields
//
//   - EventType: One of the Event* constants
//   - Timestamp: When the action happened (UTC)
//   - UserID: Acting user, empty for anonymous actions such as a failed login
//   - ResourceType: "user" or "movie"
//   - ResourceID: Identifier of the affected resource
//   - Outcome: OutcomeSuccess or OutcomeFailure
//   - Metadata: Additional attributes. Never put passwords or API keys here.
type AuditEvent struct {
	EventType    string
	Timestamp    time.Time
	UserID       string
	ResourceType string
	ResourceID   string
	Outcome      string
	Metadata     map[string]any
}

// AuditLogger records audit events.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type AuditLogger interface {
	// Log records a single event. Errors must not fail the originating request.
	Log(ctx context.Context, event AuditEvent) error

	// Flush writes any buffered events.
	Flush(ctx context.Context) error
}

// NopAuditLogger discards all events.
type NopAuditLogger struct{}

func (l *NopAuditLogger) Log(_ context.Context, _ AuditEvent) error { return nil }

func (l *NopAuditLogger) Flush(_ context.Context) error { return nil }

// SlogAuditLogger writes audit events as structured log records.
//
// # Description
//
// Each event becomes one Info record with message "audit" and the event
// fields as attributes. A nil Logger falls back to slog.Default().
type SlogAuditLogger struct {
	Logger *slog.Logger
}

// NewSlogAuditLogger creates an audit logger backed by the given slog.Logger.
func NewSlogAuditLogger(logger *slog.Logger) *SlogAuditLogger {
	return &SlogAuditLogger{Logger: logger}
}

// Log writes the event. Zero timestamps are replaced with the current time.
func (l *SlogAuditLogger) Log(ctx context.Context, event AuditEvent) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	attrs := []any{
		"event_type", event.EventType,
		"timestamp", event.Timestamp,
		"user_id", event.UserID,
		"resource_type", event.ResourceType,
		"resource_id", event.ResourceID,
		"outcome", event.Outcome,
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, "metadata", event.Metadata)
	}
	logger.InfoContext(ctx, "audit", attrs...)
	return nil
}

// Flush is a no-op; slog handlers write synchronously.
func (l *SlogAuditLogger) Flush(_ context.Context) error { return nil }

var (
	_ AuditLogger = (*NopAuditLogger)(nil)
	_ AuditLogger = (*SlogAuditLogger)(nil)
)
