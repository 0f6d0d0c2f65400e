// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the pluggable seams of the movie API.
//
// The service constructs a graph-backed AuthProvider and a slog-backed
// AuditLogger by default. Callers embedding the API (tests, alternative
// deployments) can substitute their own implementations through
// ServiceOptions.
//
// # Usage
//
//	opts := extensions.DefaultOptions().
//	    WithAuth(myProvider).
//	    WithAudit(myAuditLogger)
//	svc, err := moviegraph.New(cfg, &opts)
package extensions

// ServiceOptions bundles the replaceable components.
//
// # Fields
//
//   - AuthProvider: Resolves API keys to users. nil means "use the graph store".
//   - AuditLogger: Receives audit events for registrations, logins and ratings.
type ServiceOptions struct {
	AuthProvider AuthProvider
	AuditLogger  AuditLogger
}

// DefaultOptions returns options that deny every key and discard audit events.
//
// # Description
//
// The service replaces the AuthProvider with a graph-backed one when it owns
// a user store, so DefaultOptions is mainly useful for routing tests.
func DefaultOptions() ServiceOptions {
	return ServiceOptions{
		AuthProvider: &DenyAuthProvider{},
		AuditLogger:  &NopAuditLogger{},
	}
}

// WithAuth returns a copy of opts using the given AuthProvider.
func (opts ServiceOptions) WithAuth(provider AuthProvider) ServiceOptions {
	opts.AuthProvider = provider
	return opts
}

// WithAudit returns a copy of opts using the given AuditLogger.
func (opts ServiceOptions) WithAudit(logger AuditLogger) ServiceOptions {
	opts.AuditLogger = logger
	return opts
}
