// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeChecker struct{ err error }

func (f fakeChecker) VerifyConnectivity(context.Context) error { return f.err }

// =============================================================================
// Health Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := serve(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeFields(t, w)["status"])
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestHandleReadiness(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"reachable", nil, http.StatusOK, "ready"},
		{"unreachable", errors.New("connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health/ready", HandleReadiness(fakeChecker{err: tt.err}))

			w := serve(router, http.MethodGet, "/health/ready", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, decodeFields(t, w)["status"])
		})
	}
}

// =============================================================================
// Error Mapping Tests
// =============================================================================

func TestToAPIError(t *testing.T) {
	tests := []struct {
		err  error
		want *datatypes.APIError
	}{
		{fmt.Errorf("movie %q: %w", "1", store.ErrMovieNotFound), datatypes.ErrMovieNotFound},
		{store.ErrPersonNotFound, datatypes.ErrPersonNotFound},
		{store.ErrUsernameTaken, datatypes.ErrUsernameInUse},
		{store.ErrUsernameNotFound, datatypes.ErrUsernameMissing},
		{store.ErrWrongPassword, datatypes.ErrWrongPassword},
		{fmt.Errorf("rating 9: %w", store.ErrInvalidRating), datatypes.ErrInvalidRating},
		{store.ErrUserNotFound, datatypes.ErrInvalidAuthKey},
		{datatypes.ErrTooManyLogins, datatypes.ErrTooManyLogins},
		{errors.New("anything else"), datatypes.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Same(t, tt.want, toAPIError(tt.err))
		})
	}
}
