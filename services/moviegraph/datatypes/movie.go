// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// Movie is the list and summary representation of a (:Movie) node.
//
// MyRating is set only when the request is authenticated and the user has
// rated the movie.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Released    string   `json:"released,omitempty"`
	Duration    int64    `json:"duration,omitempty"`
	Rated       string   `json:"rated,omitempty"`
	Tagline     string   `json:"tagline,omitempty"`
	PosterImage string   `json:"poster_image,omitempty"`
	MyRating    *float64 `json:"my_rating,omitempty"`
}

// MovieDetails is a Movie with its people, genres and related movies.
type MovieDetails struct {
	Movie
	Directors []Person `json:"directors"`
	Producers []Person `json:"producers"`
	Writers   []Person `json:"writers"`
	Actors    []Actor  `json:"actors"`
	Related   []Movie  `json:"related"`
	Genres    []Genre  `json:"genres"`
}

// Person is a (:Person) node: director, producer, writer or actor.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PosterImage string `json:"poster_image,omitempty"`
}

// Actor is a cast entry: a Person plus the ACTED_IN role.
type Actor struct {
	Person
	Role string `json:"role,omitempty"`
}

// PersonDetails is a Person with the movies they worked on and co-actors.
type PersonDetails struct {
	Person
	Directed []Movie  `json:"directed"`
	Produced []Movie  `json:"produced"`
	Wrote    []Movie  `json:"wrote"`
	ActedIn  []Movie  `json:"acted_in"`
	Related  []Person `json:"related"`
}

// Genre is a (:Genre) node. ID is the graph node id.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
