// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// =============================================================================
// Node Decoders
// =============================================================================

// Movie nodes come from two dataset generations: the older one stores
// duration/poster_image/summary, the recommendations dataset stores
// runtime/poster/plot. Both are accepted.
func decodeMovie(node neo4j.Node) datatypes.Movie {
	props := node.Props
	movie := datatypes.Movie{
		ID:          graph.StringProp(props, "tmdbId", "id"),
		Title:       graph.StringProp(props, "title"),
		Summary:     graph.StringProp(props, "summary", "plot"),
		Released:    graph.StringProp(props, "released", "year"),
		Rated:       graph.StringProp(props, "rated"),
		Tagline:     graph.StringProp(props, "tagline"),
		PosterImage: graph.StringProp(props, "poster_image", "poster"),
	}
	if duration, ok := graph.IntProp(props, "duration", "runtime"); ok {
		movie.Duration = duration
	}
	return movie
}

func decodePerson(node neo4j.Node) datatypes.Person {
	return datatypes.Person{
		ID:          graph.StringProp(node.Props, "tmdbId", "id"),
		Name:        graph.StringProp(node.Props, "name"),
		PosterImage: graph.StringProp(node.Props, "poster_image", "poster"),
	}
}

func decodeGenre(node neo4j.Node) datatypes.Genre {
	return datatypes.Genre{
		ID:   node.Id, //nolint:staticcheck // the frontends address genres by legacy node id
		Name: graph.StringProp(node.Props, "name"),
	}
}

func decodeUser(node neo4j.Node) datatypes.User {
	return datatypes.User{
		ID:       graph.StringProp(node.Props, "id"),
		Username: graph.StringProp(node.Props, "username"),
		Password: graph.StringProp(node.Props, "password"),
		APIKey:   graph.StringProp(node.Props, "api_key"),
	}
}

// decodeActor reads a {id, name, poster_image, role} map projection.
func decodeActor(m map[string]any) datatypes.Actor {
	return datatypes.Actor{
		Person: datatypes.Person{
			ID:          graph.StringProp(m, "id"),
			Name:        graph.StringProp(m, "name"),
			PosterImage: graph.StringProp(m, "poster_image"),
		},
		Role: graph.StringProp(m, "role"),
	}
}

// =============================================================================
// Record Decoders
// =============================================================================

// moviesFrom decodes the "movie" column of every record, attaching
// "my_rating" when the column is present and non-null.
func moviesFrom(records []*neo4j.Record) []datatypes.Movie {
	movies := make([]datatypes.Movie, 0, len(records))
	for _, rec := range records {
		node, ok := graph.NodeValue(rec, "movie")
		if !ok {
			continue
		}
		movie := decodeMovie(node)
		movie.MyRating = ratingFrom(rec)
		movies = append(movies, movie)
	}
	return movies
}

// ratingFrom keeps fractional ratings from imported datasets.
func ratingFrom(rec *neo4j.Record) *float64 {
	if rating, ok := graph.FloatProp(rec.AsMap(), "my_rating"); ok {
		return &rating
	}
	return nil
}

func moviesOf(nodes []neo4j.Node) []datatypes.Movie {
	out := make([]datatypes.Movie, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, decodeMovie(n))
	}
	return out
}

func peopleOf(nodes []neo4j.Node) []datatypes.Person {
	out := make([]datatypes.Person, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, decodePerson(n))
	}
	return out
}

func genresOf(nodes []neo4j.Node) []datatypes.Genre {
	out := make([]datatypes.Genre, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, decodeGenre(n))
	}
	return out
}
