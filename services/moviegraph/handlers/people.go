// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"strings"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/gin-gonic/gin"
)

// HandleListGenres handles GET /genres.
func HandleListGenres(genres GenreStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := genres.All(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []datatypes.Genre{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// HandleListPeople handles GET /people.
func HandleListPeople(people PersonStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := people.All(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNilPeople(list))
	}
}

// HandleGetPerson handles GET /people/:id.
func HandleGetPerson(people PersonStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := people.ByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

// HandleBaconPath handles GET /people/bacon?name1=...&name2=...
//
// Both names are required and must differ. The response lists the people on
// the shortest ACTED_IN chain; it is empty when no chain exists.
func HandleBaconPath(people PersonStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name1 := strings.TrimSpace(c.Query("name1"))
		name2 := strings.TrimSpace(c.Query("name2"))

		fields := map[string]string{}
		if name1 == "" {
			fields["name1"] = "This field is required."
		}
		if name2 == "" {
			fields["name2"] = "This field is required."
		}
		if len(fields) == 0 && name1 == name2 {
			fields["name2"] = "must differ from name1"
		}
		if len(fields) > 0 {
			respondError(c, &datatypes.APIError{Status: http.StatusBadRequest, Fields: fields})
			return
		}

		path, err := people.BaconPath(c.Request.Context(), name1, name2)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNilPeople(path))
	}
}

func nonNilPeople(list []datatypes.Person) []datatypes.Person {
	if list == nil {
		return []datatypes.Person{}
	}
	return list
}
