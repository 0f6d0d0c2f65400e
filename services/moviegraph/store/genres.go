// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
)

const queryAllGenres = `
MATCH (genre:Genre)
RETURN genre
ORDER BY genre.name`

// GenreStore lists (:Genre) nodes.
type GenreStore struct {
	runner graph.Runner
}

// NewGenreStore creates a GenreStore over runner.
func NewGenreStore(runner graph.Runner) *GenreStore {
	return &GenreStore{runner: runner}
}

// All returns every genre ordered by name.
func (s *GenreStore) All(ctx context.Context) ([]datatypes.Genre, error) {
	records, err := s.runner.Read(ctx, "genres.all", queryAllGenres, nil)
	if err != nil {
		return nil, err
	}
	genres := make([]datatypes.Genre, 0, len(records))
	for _, rec := range records {
		if node, ok := graph.NodeValue(rec, "genre"); ok {
			genres = append(genres, decodeGenre(node))
		}
	}
	return genres, nil
}
