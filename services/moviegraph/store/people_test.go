// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"testing"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph/graphtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonStore_All(t *testing.T) {
	runner := graphtest.NewFakeRunner().On("people.all",
		graphtest.Record("person", graphtest.Node(1, "Person", map[string]any{"tmdbId": "6384", "name": "Keanu Reeves", "poster": "k.jpg"})),
	)

	people, err := NewPersonStore(runner).All(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "6384", people[0].ID)
	assert.Equal(t, "k.jpg", people[0].PosterImage)
}

func TestPersonStore_ByID(t *testing.T) {
	movie := graphtest.Node(3, "Movie", map[string]any{"tmdbId": "603", "title": "The Matrix"})
	runner := graphtest.NewFakeRunner().On("people.by_id", graphtest.Record(
		"person", graphtest.Node(1, "Person", map[string]any{"tmdbId": "6384", "name": "Keanu Reeves"}),
		"directed", []any{},
		"produced", []any{},
		"wrote", []any{},
		"acted_in", []any{movie},
		"related", []any{graphtest.Node(2, "Person", map[string]any{"tmdbId": "530", "name": "Carrie-Anne Moss"})},
	))

	details, err := NewPersonStore(runner).ByID(context.Background(), "6384")
	require.NoError(t, err)

	assert.Equal(t, "Keanu Reeves", details.Name)
	assert.Empty(t, details.Directed)
	require.Len(t, details.ActedIn, 1)
	assert.Equal(t, "603", details.ActedIn[0].ID)
	assert.Equal(t, "Carrie-Anne Moss", details.Related[0].Name)
	assert.Equal(t, "6384", runner.CallsFor("people.by_id")[0].Params["personId"])
}

func TestPersonStore_ByID_NotFound(t *testing.T) {
	_, err := NewPersonStore(graphtest.NewFakeRunner()).ByID(context.Background(), "0")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestPersonStore_BaconPath(t *testing.T) {
	runner := graphtest.NewFakeRunner().On("people.bacon",
		graphtest.Record("person", graphtest.Node(1, "Person", map[string]any{"name": "Kevin Bacon"})),
		graphtest.Record("person", graphtest.Node(2, "Person", map[string]any{"name": "Tom Hanks"})),
	)

	path, err := NewPersonStore(runner).BaconPath(context.Background(), "Kevin Bacon", "Tom Hanks")
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, "Kevin Bacon", path[0].Name)
	assert.Equal(t, "Tom Hanks", path[1].Name)

	params := runner.CallsFor("people.bacon")[0].Params
	assert.Equal(t, "Kevin Bacon", params["name1"])
	assert.Equal(t, "Tom Hanks", params["name2"])
}

func TestGenreStore_All_UsesNodeIDs(t *testing.T) {
	runner := graphtest.NewFakeRunner().On("genres.all",
		graphtest.Record("genre", graphtest.Node(17, "Genre", map[string]any{"name": "Action"})),
		graphtest.Record("genre", graphtest.Node(18, "Genre", map[string]any{"name": "Drama"})),
	)

	genres, err := NewGenreStore(runner).All(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, int64(17), genres[0].ID)
	assert.Equal(t, "Drama", genres[1].Name)
}
