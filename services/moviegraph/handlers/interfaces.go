// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP handlers of the MovieGraph API.
//
// Handlers depend on the small store interfaces declared here rather than
// on the concrete store types, so tests substitute hand-written fakes.
package handlers

import (
	"context"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
)

// =============================================================================
// Store Interfaces
// =============================================================================

// MovieStore is the movie, rating and recommendation backend.
type MovieStore interface {
	All(ctx context.Context, userID string) ([]datatypes.Movie, error)
	ByID(ctx context.Context, movieID, userID string) (*datatypes.MovieDetails, error)
	ByGenre(ctx context.Context, genre, userID string) ([]datatypes.Movie, error)
	ByDateRange(ctx context.Context, start, end int64, userID string) ([]datatypes.Movie, error)
	ByActor(ctx context.Context, personID, userID string) ([]datatypes.Movie, error)
	ByDirector(ctx context.Context, personID, userID string) ([]datatypes.Movie, error)
	ByWriter(ctx context.Context, personID, userID string) ([]datatypes.Movie, error)
	Rate(ctx context.Context, userID, movieID string, rating int64) error
	DeleteRating(ctx context.Context, userID, movieID string) error
	RatedByUser(ctx context.Context, userID string) ([]datatypes.Movie, error)
	Recommended(ctx context.Context, userID string) ([]datatypes.Movie, error)
}

// UserStore registers users and checks credentials.
type UserStore interface {
	Register(ctx context.Context, username, password string) (*datatypes.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	FindByID(ctx context.Context, id string) (*datatypes.User, error)
}

// PersonStore is the people backend.
type PersonStore interface {
	All(ctx context.Context) ([]datatypes.Person, error)
	ByID(ctx context.Context, personID string) (*datatypes.PersonDetails, error)
	BaconPath(ctx context.Context, name1, name2 string) ([]datatypes.Person, error)
}

// GenreStore lists genres.
type GenreStore interface {
	All(ctx context.Context) ([]datatypes.Genre, error)
}

// ReadinessChecker reports whether the graph database is reachable.
type ReadinessChecker interface {
	VerifyConnectivity(ctx context.Context) error
}
