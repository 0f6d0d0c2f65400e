// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph/graphtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema_AppliesEveryStatement(t *testing.T) {
	runner := graphtest.NewFakeRunner()

	require.NoError(t, graph.EnsureSchema(context.Background(), runner))

	writes := runner.Writes()
	require.Len(t, writes, len(graph.Schema))
	for i, stmt := range graph.Schema {
		assert.Equal(t, "schema."+stmt.Name, writes[i].Op)
		assert.Contains(t, writes[i].Query, "IF NOT EXISTS")
	}
}

func TestEnsureSchema_ContinuesAfterFailure(t *testing.T) {
	boom := errors.New("unsupported")
	runner := graphtest.NewFakeRunner().Fail("schema.user_id_unique", boom)

	err := graph.EnsureSchema(context.Background(), runner)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "user_id_unique")
	assert.Len(t, runner.Writes(), len(graph.Schema), "remaining statements still run")
}

func TestSchema_CoversUserUniqueness(t *testing.T) {
	var names []string
	for _, stmt := range graph.Schema {
		names = append(names, stmt.Name)
	}
	assert.Subset(t, names, []string{"user_id_unique", "user_username_unique", "user_api_key_unique"})
}
