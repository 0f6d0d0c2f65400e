// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when an API key cannot be resolved to a user.
// Implementations should wrap this error with additional context.
//
// Example:
//
//	if len(records) == 0 {
//	    return nil, fmt.Errorf("no user for key: %w", extensions.ErrUnauthorized)
//	}
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo contains identity information returned after successful authentication.
//
// Required fields (always populated):
//   - UserID: Unique identifier of the User node
//
// Optional fields:
//   - Username: The login name stored on the User node
//
// Example:
//
//	info := &AuthInfo{
//	    UserID:   "2a0f2c8e-8d5b-4a4b-9c77-6f1c0c1fd3a1",
//	    Username: "alice",
//	}
type AuthInfo struct {
	// UserID is the unique identifier for the authenticated user.
	// This is the only required field and must never be empty.
	UserID string

	// Username is the user's login name.
	Username string
}

// AuthProvider resolves an API key into an authenticated identity.
//
// # Description
//
// The movie API authenticates every request with a single per-user API key.
// The provider owns the lookup and returns ErrUnauthorized (or a wrapped
// variant) when the key does not belong to any user.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type AuthProvider interface {
	// Validate checks if the API key is valid and returns the user's identity.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - apiKey: The API key supplied by the client
	//
	// Returns:
	//   - *AuthInfo: User identity information if valid
	//   - error: ErrUnauthorized (or wrapped) if invalid, other errors for failures
	Validate(ctx context.Context, apiKey string) (*AuthInfo, error)
}

// DenyAuthProvider rejects every key. It is the default when no user store
// is wired, so protected routes stay closed.
type DenyAuthProvider struct{}

// Validate always returns ErrUnauthorized.
func (p *DenyAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return nil, ErrUnauthorized
}

var _ AuthProvider = (*DenyAuthProvider)(nil)
