// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides the gin middleware of the MovieGraph API.
//
// # Authentication Flow
//
// ResolveUser runs on every API route. It looks for an API key, validates it
// with the configured AuthProvider and stores the resulting AuthInfo in the
// Gin context. Requests without a key pass through anonymously. Routes that
// need a user add RequireUser after it.
//
//	Request
//	   │
//	   ▼
//	ResolveUser
//	   │
//	   ├─► "Authorization: Token <key>" | "Bearer <key>"
//	   ├─► "api_key: <key>" header
//	   ├─► ?api_key=<key>
//	   │
//	   ├─► provider.Validate(ctx, key)
//	   │
//	   └─► SetAuthInfo
//	           │
//	           ▼
//	       RequireUser (protected routes only)
//	           │
//	           ▼
//	       Handler (retrieves via GetAuthInfo)
package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/gin-gonic/gin"
)

// =============================================================================
// Context Keys
// =============================================================================

// authInfoKey is the context key for storing AuthInfo.
const authInfoKey = "moviegraph_auth_info"

// APIKeyName is the header and query parameter carrying an API key.
const APIKeyName = "api_key"

// =============================================================================
// Context Helpers
// =============================================================================

// SetAuthInfo stores the authenticated user info in the Gin context.
func SetAuthInfo(c *gin.Context, info *extensions.AuthInfo) {
	c.Set(authInfoKey, info)
}

// GetAuthInfo retrieves the authenticated user info from the Gin context.
//
// # Outputs
//
//   - *extensions.AuthInfo: User info, or nil for anonymous requests
func GetAuthInfo(c *gin.Context) *extensions.AuthInfo {
	if info, exists := c.Get(authInfoKey); exists {
		if authInfo, ok := info.(*extensions.AuthInfo); ok {
			return authInfo
		}
	}
	return nil
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	if info := GetAuthInfo(c); info != nil {
		return info.UserID
	}
	return ""
}

// =============================================================================
// Auth Middleware
// =============================================================================

// ResolveUser creates a middleware that authenticates requests carrying an
// API key.
//
// # Description
//
// A request with no key continues anonymously. A request with a key that
// does not resolve to a user is rejected, even on public routes, so a
// client with a stale key finds out immediately.
//
// # Inputs
//
//   - provider: Resolves API keys. Must not be nil.
//
// # Outputs
//
//   - gin.HandlerFunc: Aborts with 401 for malformed or unknown keys,
//     500 if the provider fails for another reason
//
// # Thread Safety
//
// Thread-safe. The returned middleware can be used concurrently.
func ResolveUser(provider extensions.AuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := extractAPIKey(c)
		if !ok {
			abortWith(c, datatypes.ErrInvalidAuthFormat)
			return
		}
		if key == "" {
			c.Next()
			return
		}

		authInfo, err := provider.Validate(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, extensions.ErrUnauthorized) {
				abortWith(c, datatypes.ErrInvalidAuthKey)
				return
			}
			slog.Error("api key validation failed", "error", err, "path", c.Request.URL.Path)
			abortWith(c, datatypes.ErrInternal)
			return
		}

		SetAuthInfo(c, authInfo)
		c.Next()
	}
}

// RequireUser rejects requests that ResolveUser left anonymous.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAuthInfo(c) == nil {
			abortWith(c, datatypes.ErrAuthRequired)
			return
		}
		c.Next()
	}
}

// =============================================================================
// Helper Functions
// =============================================================================

// extractAPIKey finds the API key in the request.
//
// The Authorization header wins over the api_key header, which wins over
// the query parameter. The scheme is case-insensitive.
//
//	Authorization: Token abc123   -> "abc123", true
//	Authorization: Bearer abc123  -> "abc123", true
//	Authorization: Basic abc123   -> "", false
//	(no credentials)              -> "", true
func extractAPIKey(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 {
			return "", false
		}
		if !strings.EqualFold(parts[0], "Token") && !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}
	if key := strings.TrimSpace(c.GetHeader(APIKeyName)); key != "" {
		return key, true
	}
	return strings.TrimSpace(c.Query(APIKeyName)), true
}

func abortWith(c *gin.Context, apiErr *datatypes.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
