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
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	queryAllPeople = `
MATCH (person:Person)
RETURN DISTINCT person
ORDER BY person.name`

	queryPersonByID = `
MATCH (person:Person {tmdbId: $personId})
CALL {
  WITH person
  OPTIONAL MATCH (person)-[:ACTED_IN]->(:Movie)<-[:ACTED_IN]-(co:Person)
  WHERE co <> person
  RETURN collect(DISTINCT co) AS related
}
RETURN person,
  [(person)-[:DIRECTED]->(m:Movie) | m] AS directed,
  [(person)-[:PRODUCED]->(m:Movie) | m] AS produced,
  [(person)-[:WRITER_OF]->(m:Movie) | m] AS wrote,
  [(person)-[:ACTED_IN]->(m:Movie) | m] AS acted_in,
  related`

	queryBaconPath = `
MATCH path = shortestPath((:Person {name: $name1})-[:ACTED_IN*]-(:Person {name: $name2}))
UNWIND [n IN nodes(path) WHERE n:Person] AS person
RETURN DISTINCT person`
)

// PersonStore runs (:Person) queries.
type PersonStore struct {
	runner graph.Runner
}

// NewPersonStore creates a PersonStore over runner.
func NewPersonStore(runner graph.Runner) *PersonStore {
	return &PersonStore{runner: runner}
}

// All returns every person ordered by name.
func (s *PersonStore) All(ctx context.Context) ([]datatypes.Person, error) {
	records, err := s.runner.Read(ctx, "people.all", queryAllPeople, nil)
	if err != nil {
		return nil, err
	}
	return peopleFrom(records), nil
}

// ByID returns a person with their filmography and co-actors.
//
// # Outputs
//
//   - error: ErrPersonNotFound if no person has the tmdbId
func (s *PersonStore) ByID(ctx context.Context, personID string) (*datatypes.PersonDetails, error) {
	records, err := s.runner.Read(ctx, "people.by_id", queryPersonByID, map[string]any{"personId": personID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("person %q: %w", personID, ErrPersonNotFound)
	}
	rec := records[0]
	node, ok := graph.NodeValue(rec, "person")
	if !ok {
		return nil, fmt.Errorf("person %q: %w", personID, ErrPersonNotFound)
	}
	return &datatypes.PersonDetails{
		Person:   decodePerson(node),
		Directed: moviesOf(graph.NodeList(rec, "directed")),
		Produced: moviesOf(graph.NodeList(rec, "produced")),
		Wrote:    moviesOf(graph.NodeList(rec, "wrote")),
		ActedIn:  moviesOf(graph.NodeList(rec, "acted_in")),
		Related:  peopleOf(graph.NodeList(rec, "related")),
	}, nil
}

// BaconPath returns the people on the shortest ACTED_IN chain between two
// named people, in path order. An empty result means no chain exists.
func (s *PersonStore) BaconPath(ctx context.Context, name1, name2 string) ([]datatypes.Person, error) {
	records, err := s.runner.Read(ctx, "people.bacon", queryBaconPath, map[string]any{
		"name1": name1,
		"name2": name2,
	})
	if err != nil {
		return nil, err
	}
	return peopleFrom(records), nil
}

func peopleFrom(records []*neo4j.Record) []datatypes.Person {
	people := make([]datatypes.Person, 0, len(records))
	for _, rec := range records {
		if node, ok := graph.NodeValue(rec, "person"); ok {
			people = append(people, decodePerson(node))
		}
	}
	return people
}
