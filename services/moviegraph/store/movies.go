// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"fmt"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
)

const (
	// MinRating and MaxRating bound a RATED edge, inclusive.
	MinRating = 0
	MaxRating = 5

	// RecommendationLimit caps the recommendation list.
	RecommendationLimit = 25

	// relatedLimit caps the related movies attached to MovieDetails.
	relatedLimit = 12
)

// optionalRating attaches the caller's rating to each returned movie.
// With an empty $userId it matches nothing and my_rating is null.
const optionalRating = `
OPTIONAL MATCH (movie)<-[my_rated:RATED]-(:User {id: $userId})
RETURN DISTINCT movie, my_rated.rating AS my_rating`

const (
	queryAllMovies = `
MATCH (movie:Movie)` + optionalRating

	queryMovieByID = `
MATCH (movie:Movie {tmdbId: $movieId})
OPTIONAL MATCH (movie)<-[my_rated:RATED]-(:User {id: $userId})
CALL {
  WITH movie
  OPTIONAL MATCH (movie)<-[:ACTED_IN]-(:Person)-[:ACTED_IN]->(related:Movie)
  WHERE related <> movie
  WITH related, count(*) AS shared
  ORDER BY shared DESC
  RETURN collect(related)[..$relatedLimit] AS related
}
RETURN movie,
  my_rated.rating AS my_rating,
  [(movie)<-[:DIRECTED]-(d:Person) | d] AS directors,
  [(movie)<-[:PRODUCED]-(p:Person) | p] AS producers,
  [(movie)<-[:WRITER_OF]-(w:Person) | w] AS writers,
  [(movie)<-[r:ACTED_IN]-(a:Person) | {id: a.tmdbId, name: a.name, poster_image: a.poster, role: r.role}] AS actors,
  [(movie)-[:IN_GENRE]->(g:Genre) | g] AS genres,
  related`

	queryMoviesByGenre = `
MATCH (movie:Movie)-[:IN_GENRE]->(genre:Genre)
WHERE toLower(genre.name) = toLower($genre) OR id(genre) = toInteger($genre)` + optionalRating

	// released is an integer year in older datasets and an ISO date string
	// (or date) in newer ones; the year prefix handles both.
	queryMoviesByDateRange = `
MATCH (movie:Movie)
WITH movie, toInteger(left(toString(movie.released), 4)) AS year
WHERE year > $start AND year < $end` + optionalRating

	queryMoviesByActor = `
MATCH (:Person {tmdbId: $personId})-[:ACTED_IN]->(movie:Movie)` + optionalRating

	queryMoviesByDirector = `
MATCH (:Person {tmdbId: $personId})-[:DIRECTED]->(movie:Movie)` + optionalRating

	queryMoviesByWriter = `
MATCH (:Person {tmdbId: $personId})-[:WRITER_OF]->(movie:Movie)` + optionalRating

	queryRate = `
MATCH (u:User {id: $userId}), (m:Movie {tmdbId: $movieId})
MERGE (u)-[r:RATED]->(m)
SET r.rating = $rating
RETURN m`

	queryDeleteRating = `
MATCH (:User {id: $userId})-[r:RATED]->(:Movie {tmdbId: $movieId})
DELETE r`

	queryRatedByUser = `
MATCH (:User {id: $userId})-[rated:RATED]->(movie:Movie)
RETURN DISTINCT movie, rated.rating AS my_rating`

	// Neighbours are users whose rating on a shared movie differs by less
	// than 2. Their other ratings are averaged per movie; anything the
	// caller already rated is excluded.
	queryRecommended = `
MATCH (me:User {id: $userId})-[my:RATED]->(m:Movie)
MATCH (other:User)-[their:RATED]->(m)
WHERE me <> other AND abs(my.rating - their.rating) < 2
WITH DISTINCT me, other
MATCH (other)-[otherRating:RATED]->(movie:Movie)
WHERE NOT EXISTS { (me)-[:RATED]->(movie) }
WITH movie, avg(otherRating.rating) AS avgRating
RETURN movie
ORDER BY avgRating DESC
LIMIT $limit`
)

// MovieStore runs movie, rating and recommendation queries.
//
// Every read accepts the caller's user id; pass "" for anonymous requests.
//
// # Thread Safety
//
// Safe for concurrent use if the Runner is.
type MovieStore struct {
	runner graph.Runner
}

// NewMovieStore creates a MovieStore over runner.
func NewMovieStore(runner graph.Runner) *MovieStore {
	return &MovieStore{runner: runner}
}

// All returns every movie.
func (s *MovieStore) All(ctx context.Context, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.all", queryAllMovies, map[string]any{"userId": userID})
}

// ByID returns a movie with its people, genres and related movies.
//
// # Outputs
//
//   - *datatypes.MovieDetails: Aggregated movie
//   - error: ErrMovieNotFound if no movie has the tmdbId
func (s *MovieStore) ByID(ctx context.Context, movieID, userID string) (*datatypes.MovieDetails, error) {
	records, err := s.runner.Read(ctx, "movies.by_id", queryMovieByID, map[string]any{
		"movieId":      movieID,
		"userId":       userID,
		"relatedLimit": relatedLimit,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("movie %q: %w", movieID, ErrMovieNotFound)
	}

	rec := records[0]
	node, ok := graph.NodeValue(rec, "movie")
	if !ok {
		return nil, fmt.Errorf("movie %q: %w", movieID, ErrMovieNotFound)
	}

	details := &datatypes.MovieDetails{
		Movie:     decodeMovie(node),
		Directors: peopleOf(graph.NodeList(rec, "directors")),
		Producers: peopleOf(graph.NodeList(rec, "producers")),
		Writers:   peopleOf(graph.NodeList(rec, "writers")),
		Related:   moviesOf(graph.NodeList(rec, "related")),
		Genres:    genresOf(graph.NodeList(rec, "genres")),
	}
	details.MyRating = ratingFrom(rec)

	actors := graph.MapList(rec, "actors")
	details.Actors = make([]datatypes.Actor, 0, len(actors))
	for _, m := range actors {
		details.Actors = append(details.Actors, decodeActor(m))
	}
	return details, nil
}

// ByGenre returns movies in a genre, matched by case-insensitive name or
// by genre node id.
func (s *MovieStore) ByGenre(ctx context.Context, genre, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.by_genre", queryMoviesByGenre, map[string]any{"genre": genre, "userId": userID})
}

// ByDateRange returns movies released strictly between start and end (years).
func (s *MovieStore) ByDateRange(ctx context.Context, start, end int64, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.by_date_range", queryMoviesByDateRange, map[string]any{
		"start":  start,
		"end":    end,
		"userId": userID,
	})
}

// ByActor returns movies the person acted in.
func (s *MovieStore) ByActor(ctx context.Context, personID, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.by_actor", queryMoviesByActor, map[string]any{"personId": personID, "userId": userID})
}

// ByDirector returns movies the person directed.
func (s *MovieStore) ByDirector(ctx context.Context, personID, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.by_director", queryMoviesByDirector, map[string]any{"personId": personID, "userId": userID})
}

// ByWriter returns movies the person wrote.
func (s *MovieStore) ByWriter(ctx context.Context, personID, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.by_writer", queryMoviesByWriter, map[string]any{"personId": personID, "userId": userID})
}

// Rate upserts the user's rating of a movie.
//
// # Description
//
// The rating is range-checked before any query runs. Re-rating the same
// movie updates the existing RATED edge.
//
// # Outputs
//
//   - error: ErrInvalidRating for values outside [MinRating, MaxRating],
//     ErrMovieNotFound if the movie (or user) does not exist
func (s *MovieStore) Rate(ctx context.Context, userID, movieID string, rating int64) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating %d: %w", rating, ErrInvalidRating)
	}
	records, err := s.runner.Write(ctx, "movies.rate", queryRate, map[string]any{
		"userId":  userID,
		"movieId": movieID,
		"rating":  rating,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("movie %q: %w", movieID, ErrMovieNotFound)
	}
	return nil
}

// DeleteRating removes the user's rating of a movie. Deleting a rating that
// does not exist is not an error.
func (s *MovieStore) DeleteRating(ctx context.Context, userID, movieID string) error {
	_, err := s.runner.Write(ctx, "movies.delete_rating", queryDeleteRating, map[string]any{
		"userId":  userID,
		"movieId": movieID,
	})
	return err
}

// RatedByUser returns the movies the user rated, each with my_rating set.
func (s *MovieStore) RatedByUser(ctx context.Context, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.rated", queryRatedByUser, map[string]any{"userId": userID})
}

// Recommended returns up to RecommendationLimit movies liked by users with
// similar taste. Movies the user already rated are never included.
func (s *MovieStore) Recommended(ctx context.Context, userID string) ([]datatypes.Movie, error) {
	return s.list(ctx, "movies.recommended", queryRecommended, map[string]any{
		"userId": userID,
		"limit":  RecommendationLimit,
	})
}

func (s *MovieStore) list(ctx context.Context, op, query string, params map[string]any) ([]datatypes.Movie, error) {
	records, err := s.runner.Read(ctx, op, query, params)
	if err != nil {
		return nil, err
	}
	return moviesFrom(records), nil
}
