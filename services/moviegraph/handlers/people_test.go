// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersonStore struct {
	people  []datatypes.Person
	details map[string]*datatypes.PersonDetails
	path    []datatypes.Person
	calls   int
}

func (f *fakePersonStore) All(_ context.Context) ([]datatypes.Person, error) {
	return f.people, nil
}

func (f *fakePersonStore) ByID(_ context.Context, personID string) (*datatypes.PersonDetails, error) {
	if d, ok := f.details[personID]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("person %q: %w", personID, store.ErrPersonNotFound)
}

func (f *fakePersonStore) BaconPath(_ context.Context, _, _ string) ([]datatypes.Person, error) {
	f.calls++
	return f.path, nil
}

type fakeGenreStore struct {
	genres []datatypes.Genre
	err    error
}

func (f *fakeGenreStore) All(_ context.Context) ([]datatypes.Genre, error) {
	return f.genres, f.err
}

func newPeopleRouter(people *fakePersonStore, genres *fakeGenreStore) *gin.Engine {
	router := gin.New()
	router.GET("/genres", HandleListGenres(genres))
	router.GET("/people", HandleListPeople(people))
	router.GET("/people/bacon", HandleBaconPath(people))
	router.GET("/people/:id", HandleGetPerson(people))
	return router
}

func TestHandleListGenres(t *testing.T) {
	router := newPeopleRouter(&fakePersonStore{}, &fakeGenreStore{genres: []datatypes.Genre{{ID: 17, Name: "Action"}}})

	w := serve(router, http.MethodGet, "/genres", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":17,"name":"Action"}]`, w.Body.String())
}

func TestHandleListGenres_Failure(t *testing.T) {
	router := newPeopleRouter(&fakePersonStore{}, &fakeGenreStore{err: errors.New("timeout")})

	w := serve(router, http.MethodGet, "/genres", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleListPeople_EmptyIsArray(t *testing.T) {
	w := serve(newPeopleRouter(&fakePersonStore{}, &fakeGenreStore{}), http.MethodGet, "/people", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandleGetPerson(t *testing.T) {
	people := &fakePersonStore{details: map[string]*datatypes.PersonDetails{
		"6384": {
			Person:  datatypes.Person{ID: "6384", Name: "Keanu Reeves"},
			ActedIn: []datatypes.Movie{{ID: "603", Title: "The Matrix"}},
		},
	}}
	router := newPeopleRouter(people, &fakeGenreStore{})

	w := serve(router, http.MethodGet, "/people/6384", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Keanu Reeves", body["name"])
	assert.Len(t, body["acted_in"], 1)

	missing := serve(router, http.MethodGet, "/people/0", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "person not found", decodeFields(t, missing)["message"])
}

func TestHandleBaconPath(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantField  string
	}{
		{"both names", "?name1=Kevin%20Bacon&name2=Tom%20Hanks", http.StatusOK, ""},
		{"missing name1", "?name2=Tom%20Hanks", http.StatusBadRequest, "name1"},
		{"missing name2", "?name1=Kevin%20Bacon", http.StatusBadRequest, "name2"},
		{"same name", "?name1=Kevin%20Bacon&name2=Kevin%20Bacon", http.StatusBadRequest, "name2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			people := &fakePersonStore{path: []datatypes.Person{{Name: "Kevin Bacon"}, {Name: "Tom Hanks"}}}
			w := serve(newPeopleRouter(people, &fakeGenreStore{}), http.MethodGet, "/people/bacon"+tt.query, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				assert.Contains(t, decodeFields(t, w), tt.wantField)
				assert.Zero(t, people.calls)
				return
			}
			assert.Equal(t, 1, people.calls)
			assert.Contains(t, w.Body.String(), "Tom Hanks")
		})
	}
}
