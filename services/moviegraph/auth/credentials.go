// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package auth holds the credential primitives of the MovieGraph API.
//
// # Password Scheme
//
// Passwords are stored as hex(sha256(username + ":" + password)). The
// username is the salt. Stored user nodes already carry hashes in this form.
//
// # API Keys
//
// An API key is 20 lowercase hex characters drawn from crypto/rand. Keys
// are issued once at registration and returned by login.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// APIKeyLength is the number of hex characters in an API key.
const APIKeyLength = 20

// HashPassword returns the stored form of password for username.
func HashPassword(username, password string) string {
	sum := sha256.Sum256([]byte(username + ":" + password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether password matches the stored hash.
// The comparison is constant time.
func CheckPassword(username, password, stored string) bool {
	computed := HashPassword(username, password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

// NewAPIKey returns a fresh random API key.
func NewAPIKey() (string, error) {
	buf := make([]byte, APIKeyLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: failed to generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
