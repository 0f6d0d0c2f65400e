// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is an HTTP status with a flat JSON body such as
// {"username": "username already in use"}.
//
// The body shape mirrors what the frontends already parse: the keys are
// field names (or "message"/"detail") and the values are human-readable.
type APIError struct {
	Status int
	Fields map[string]string
}

// NewAPIError creates an APIError with a single field.
func NewAPIError(status int, field, message string) *APIError {
	return &APIError{Status: status, Fields: map[string]string{field: message}}
}

// Error implements error. Fields are sorted for stable output.
func (e *APIError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%d %s", e.Status, strings.Join(parts, ", "))
}

// MarshalJSON writes the field map without a wrapper object.
func (e *APIError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields)
}

// Canonical response errors.
var (
	ErrInvalidAuthFormat = NewAPIError(http.StatusUnauthorized, "message", "invalid authorization format. Follow Token <token>")
	ErrInvalidAuthKey    = NewAPIError(http.StatusUnauthorized, "message", "invalid authorization key")
	ErrAuthRequired      = NewAPIError(http.StatusUnauthorized, "detail", "invalid authorization key")
	ErrUsernameInUse     = NewAPIError(http.StatusBadRequest, "username", "username already in use")
	ErrUsernameMissing   = NewAPIError(http.StatusBadRequest, "username", "username does not exist")
	ErrWrongPassword     = NewAPIError(http.StatusBadRequest, "password", "wrong password")
	ErrInvalidRating     = NewAPIError(http.StatusBadRequest, "rating", "Rating value is invalid")
	ErrMovieNotFound     = NewAPIError(http.StatusNotFound, "message", "movie not found")
	ErrPersonNotFound    = NewAPIError(http.StatusNotFound, "message", "person not found")
	ErrTooManyLogins     = NewAPIError(http.StatusTooManyRequests, "message", "too many login attempts")
	ErrInternal          = NewAPIError(http.StatusInternalServerError, "message", "internal server error")
)
