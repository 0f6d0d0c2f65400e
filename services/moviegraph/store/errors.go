// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store maps MovieGraph operations onto parameterized Cypher.
//
// # Description
//
// Each store wraps a graph.Runner and returns datatypes values. Stores never
// build Cypher by string concatenation of user input; every value travels as
// a query parameter.
//
// # Errors
//
// Lookups that match nothing return the sentinel errors below, wrapped with
// context. Callers test them with errors.Is. Driver errors are passed
// through as returned by the graph package.
package store

import "errors"

var (
	// ErrMovieNotFound is returned when no (:Movie) has the requested tmdbId.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrPersonNotFound is returned when no (:Person) has the requested tmdbId.
	ErrPersonNotFound = errors.New("person not found")

	// ErrUserNotFound is returned when no (:User) matches an id or API key.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned by registration for an existing username.
	ErrUsernameTaken = errors.New("username already in use")

	// ErrUsernameNotFound is returned by login for an unknown username.
	ErrUsernameNotFound = errors.New("username does not exist")

	// ErrWrongPassword is returned by login when the password does not match.
	ErrWrongPassword = errors.New("wrong password")

	// ErrInvalidRating is returned for ratings outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New("rating value is invalid")
)
