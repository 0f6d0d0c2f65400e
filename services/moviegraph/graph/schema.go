// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SchemaStatement is one idempotent schema command.
type SchemaStatement struct {
	Name   string
	Cypher string
}

// Schema lists the constraints and indexes the API relies on.
// User uniqueness backs registration and API key lookup; the tmdbId
// indexes back every by-id route.
var Schema = []SchemaStatement{
	{
		Name:   "user_id_unique",
		Cypher: "CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	},
	{
		Name:   "user_username_unique",
		Cypher: "CREATE CONSTRAINT user_username_unique IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE",
	},
	{
		Name:   "user_api_key_unique",
		Cypher: "CREATE CONSTRAINT user_api_key_unique IF NOT EXISTS FOR (u:User) REQUIRE u.api_key IS UNIQUE",
	},
	{
		Name:   "movie_tmdb_id",
		Cypher: "CREATE INDEX movie_tmdb_id IF NOT EXISTS FOR (m:Movie) ON (m.tmdbId)",
	},
	{
		Name:   "person_tmdb_id",
		Cypher: "CREATE INDEX person_tmdb_id IF NOT EXISTS FOR (p:Person) ON (p.tmdbId)",
	},
}

// EnsureSchema applies every statement in Schema.
//
// # Description
//
// All statements are attempted even if one fails, so a single unsupported
// index does not block the constraints. Failures are joined into the
// returned error.
//
// # Outputs
//
//   - error: nil if every statement succeeded
func EnsureSchema(ctx context.Context, runner Runner) error {
	var errs []error
	for _, stmt := range Schema {
		if _, err := runner.Write(ctx, "schema."+stmt.Name, stmt.Cypher, nil); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", stmt.Name, err))
			continue
		}
		slog.Debug("schema statement applied", "name", stmt.Name)
	}
	return errors.Join(errs...)
}
