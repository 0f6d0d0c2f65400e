// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// mockAuthProvider accepts exactly one key.
type mockAuthProvider struct {
	validKey string
	err      error
	calls    int
}

func (m *mockAuthProvider) Validate(_ context.Context, key string) (*extensions.AuthInfo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if key != m.validKey {
		return nil, extensions.ErrUnauthorized
	}
	return &extensions.AuthInfo{UserID: "u1", Username: "alice"}, nil
}

func newAuthRouter(provider extensions.AuthProvider) *gin.Engine {
	router := gin.New()
	router.Use(ResolveUser(provider))
	router.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c)})
	})
	router.GET("/private", RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetAuthInfo(c).Username})
	})
	return router
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// =============================================================================
// extractAPIKey Tests
// =============================================================================

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		apiKeyHdr string
		query     string
		wantKey   string
		wantOK    bool
	}{
		{"token scheme", "Token abc123", "", "", "abc123", true},
		{"bearer scheme", "Bearer abc123", "", "", "abc123", true},
		{"case insensitive", "token abc123", "", "", "abc123", true},
		{"basic scheme rejected", "Basic abc123", "", "", "", false},
		{"missing key", "Token", "", "", "", false},
		{"extra parts", "Token a b", "", "", "", false},
		{"api_key header", "", "hdrkey", "", "hdrkey", true},
		{"api_key query", "", "", "qkey", "qkey", true},
		{"header beats query", "", "hdrkey", "qkey", "hdrkey", true},
		{"none", "", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			target := "/"
			if tt.query != "" {
				target = "/?api_key=" + tt.query
			}
			c.Request = httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			if tt.apiKeyHdr != "" {
				c.Request.Header.Set(APIKeyName, tt.apiKeyHdr)
			}

			key, ok := extractAPIKey(c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

// =============================================================================
// ResolveUser / RequireUser Tests
// =============================================================================

func TestResolveUser_AnonymousPassesThrough(t *testing.T) {
	provider := &mockAuthProvider{validKey: "good"}
	router := newAuthRouter(provider)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", body(t, w)["user"])
	assert.Zero(t, provider.calls)
}

func TestResolveUser_ValidKey(t *testing.T) {
	router := newAuthRouter(&mockAuthProvider{validKey: "good"})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", body(t, w)["user"])
}

func TestResolveUser_UnknownKeyIs401(t *testing.T) {
	router := newAuthRouter(&mockAuthProvider{validKey: "good"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public?api_key=stale", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid authorization key", body(t, w)["message"])
}

func TestResolveUser_MalformedHeaderIs401(t *testing.T) {
	router := newAuthRouter(&mockAuthProvider{validKey: "good"})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid authorization format. Follow Token <token>", body(t, w)["message"])
}

func TestResolveUser_ProviderFailureIs500(t *testing.T) {
	router := newAuthRouter(&mockAuthProvider{err: errors.New("graph down")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public?api_key=any", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "graph down")
}

func TestRequireUser_AnonymousIs401(t *testing.T) {
	router := newAuthRouter(&mockAuthProvider{validKey: "good"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid authorization key", body(t, w)["detail"])
}

func TestGetAuthInfo_WrongTypeIsNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(authInfoKey, "not auth info")

	assert.Nil(t, GetAuthInfo(c))
	assert.Equal(t, "", UserID(c))
}
