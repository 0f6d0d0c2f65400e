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
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/middleware"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeMovieStore records calls and returns canned values.
type fakeMovieStore struct {
	mu        sync.Mutex
	movies    []datatypes.Movie
	details   *datatypes.MovieDetails
	err       error
	ratings   []int64
	deletes   int
	lastUser  string
	lastArg   string
	lastRange [2]int64
}

func (f *fakeMovieStore) record(userID, arg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser = userID
	f.lastArg = arg
}

func (f *fakeMovieStore) list(userID, arg string) ([]datatypes.Movie, error) {
	f.record(userID, arg)
	return f.movies, f.err
}

func (f *fakeMovieStore) All(_ context.Context, userID string) ([]datatypes.Movie, error) {
	return f.list(userID, "")
}

func (f *fakeMovieStore) ByID(_ context.Context, movieID, userID string) (*datatypes.MovieDetails, error) {
	f.record(userID, movieID)
	if f.err != nil {
		return nil, f.err
	}
	if f.details == nil {
		return nil, fmt.Errorf("movie %q: %w", movieID, store.ErrMovieNotFound)
	}
	return f.details, nil
}

func (f *fakeMovieStore) ByGenre(_ context.Context, genre, userID string) ([]datatypes.Movie, error) {
	return f.list(userID, genre)
}

func (f *fakeMovieStore) ByDateRange(_ context.Context, start, end int64, userID string) ([]datatypes.Movie, error) {
	f.mu.Lock()
	f.lastRange = [2]int64{start, end}
	f.mu.Unlock()
	return f.list(userID, "")
}

func (f *fakeMovieStore) ByActor(_ context.Context, personID, userID string) ([]datatypes.Movie, error) {
	return f.list(userID, "actor:"+personID)
}

func (f *fakeMovieStore) ByDirector(_ context.Context, personID, userID string) ([]datatypes.Movie, error) {
	return f.list(userID, "director:"+personID)
}

func (f *fakeMovieStore) ByWriter(_ context.Context, personID, userID string) ([]datatypes.Movie, error) {
	return f.list(userID, "writer:"+personID)
}

func (f *fakeMovieStore) Rate(_ context.Context, userID, movieID string, rating int64) error {
	f.record(userID, movieID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeMovieStore) DeleteRating(_ context.Context, userID, movieID string) error {
	f.record(userID, movieID)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	return f.err
}

func (f *fakeMovieStore) RatedByUser(_ context.Context, userID string) ([]datatypes.Movie, error) {
	return f.list(userID, "rated")
}

func (f *fakeMovieStore) Recommended(_ context.Context, userID string) ([]datatypes.Movie, error) {
	return f.list(userID, "recommended")
}

// recordingAudit captures audit events.
type recordingAudit struct {
	mu     sync.Mutex
	events []extensions.AuditEvent
}

func (r *recordingAudit) Log(_ context.Context, event extensions.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingAudit) Flush(_ context.Context) error { return nil }

// asUser marks the request as authenticated.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetAuthInfo(c, &extensions.AuthInfo{UserID: userID, Username: "alice"})
		c.Next()
	}
}

func serve(router *gin.Engine, method, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeFields(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func errNotFoundMovie() error {
	return fmt.Errorf("movie %q: %w", "0", store.ErrMovieNotFound)
}
