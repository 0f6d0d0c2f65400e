// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/auth"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph/graphtest"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/middleware"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Setup
// ============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

type readyChecker struct{}

func (readyChecker) VerifyConnectivity(context.Context) error { return nil }

const aliceKey = "0123456789abcdef0123"

func aliceUser() any {
	return graphtest.Node(1, "User", map[string]any{
		"id":       "u-alice",
		"username": "alice",
		"password": auth.HashPassword("alice", "secret"),
		"api_key":  aliceKey,
	})
}

// newTestRouter wires the real stores over a fake runner in which alice's
// API key resolves.
func newTestRouter(t *testing.T, runner *graphtest.FakeRunner, limiter *middleware.IPRateLimiter) *gin.Engine {
	t.Helper()
	users := store.NewUserStore(runner)
	router := gin.New()
	SetupRoutes(router, Dependencies{
		Movies:       store.NewMovieStore(runner),
		Users:        users,
		People:       store.NewPersonStore(runner),
		Genres:       store.NewGenreStore(runner),
		Readiness:    readyChecker{},
		Metrics:      http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
		LoginLimiter: limiter,
		Options:      extensions.DefaultOptions().WithAuth(users),
	})
	return router
}

func do(router *gin.Engine, method, target, body string, withKey bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withKey {
		req.Header.Set("Authorization", "Token "+aliceKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ============================================================================
// Registration Tests
// ============================================================================

func TestSetupRoutes_RegistersEveryRoute(t *testing.T) {
	router := newTestRouter(t, graphtest.NewFakeRunner(), nil)

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /health/ready",
		"GET /metrics",
		"GET /api/v0/movies",
		"GET /api/v0/movies/recommended",
		"GET /api/v0/movies/rated",
		"GET /api/v0/movies/:id",
		"GET /api/v0/movies/genre/:id",
		"GET /api/v0/movies/daterange/:start/:end",
		"GET /api/v0/movies/directed_by/:id",
		"GET /api/v0/movies/acted_in_by/:id",
		"GET /api/v0/movies/written_by/:id",
		"POST /api/v0/movies/:id/rate",
		"DELETE /api/v0/movies/:id/rate",
		"POST /api/v0/users",
		"POST /api/v0/login",
		"GET /api/v0/user/me",
		"GET /api/v0/users/me",
		"GET /api/v0/genres",
		"GET /api/v0/people",
		"GET /api/v0/people/bacon",
		"GET /api/v0/people/:id",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestSetupRoutes_CustomBasePath(t *testing.T) {
	router := gin.New()
	runner := graphtest.NewFakeRunner()
	SetupRoutes(router, Dependencies{
		BasePath:  "/v1",
		Movies:    store.NewMovieStore(runner),
		Users:     store.NewUserStore(runner),
		People:    store.NewPersonStore(runner),
		Genres:    store.NewGenreStore(runner),
		Readiness: readyChecker{},
	})

	w := do(router, http.MethodGet, "/v1/movies", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are optional")
}

// ============================================================================
// Auth Wiring Tests
// ============================================================================

func TestProtectedRoutes_RequireUser(t *testing.T) {
	router := newTestRouter(t, graphtest.NewFakeRunner(), nil)

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/v0/movies/recommended"},
		{http.MethodGet, "/api/v0/movies/rated"},
		{http.MethodPost, "/api/v0/movies/603/rate"},
		{http.MethodDelete, "/api/v0/movies/603/rate"},
		{http.MethodGet, "/api/v0/user/me"},
	}
	for _, p := range protected {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := do(router, p.method, p.path, "", false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"detail":"invalid authorization key"}`, w.Body.String())
		})
	}
}

func TestUnknownKeyIsRejectedEverywhere(t *testing.T) {
	router := newTestRouter(t, graphtest.NewFakeRunner(), nil)

	w := do(router, http.MethodGet, "/api/v0/movies", "", true)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"invalid authorization key"}`, w.Body.String())
}

func TestAuthenticatedRatingFlow(t *testing.T) {
	runner := graphtest.NewFakeRunner().
		On("users.find_by_api_key", graphtest.Record("u", aliceUser())).
		On("movies.rate", graphtest.Record("m", graphtest.Node(3, "Movie", map[string]any{"tmdbId": "603"})))
	router := newTestRouter(t, runner, nil)

	w := do(router, http.MethodPost, "/api/v0/movies/603/rate", `{"rating":4}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	rate := runner.CallsFor("movies.rate")
	require.Len(t, rate, 1)
	assert.Equal(t, "u-alice", rate[0].Params["userId"])
	assert.Equal(t, "603", rate[0].Params["movieId"])
	assert.Equal(t, int64(4), rate[0].Params["rating"])

	w = do(router, http.MethodPost, "/api/v0/movies/603/rate", `{"rating":6}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, runner.CallsFor("movies.rate"), 1, "invalid rating never reaches the graph")

	w = do(router, http.MethodDelete, "/api/v0/movies/603/rate", "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, runner.CallsFor("movies.delete_rating"), 1)
}

func TestMovieNotFoundOverHTTP(t *testing.T) {
	router := newTestRouter(t, graphtest.NewFakeRunner(), nil)

	w := do(router, http.MethodGet, "/api/v0/movies/0", "", false)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"movie not found"}`, w.Body.String())
}

func TestLoginIsRateLimited(t *testing.T) {
	runner := graphtest.NewFakeRunner().On("users.find_by_username", graphtest.Record("u", aliceUser()))
	router := newTestRouter(t, runner, middleware.NewIPRateLimiter(0.001, 2))

	body := `{"username":"alice","password":"secret"}`
	for i := 0; i < 2; i++ {
		w := do(router, http.MethodPost, "/api/v0/login", body, false)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"`+aliceKey+`"}`, w.Body.String())
	}

	w := do(router, http.MethodPost, "/api/v0/login", body, false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, graphtest.NewFakeRunner(), nil)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health", "", false).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health/ready", "", false).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/metrics", "", false).Code)
}
