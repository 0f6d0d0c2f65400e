// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// User is the public view of a (:User) node.
//
// The password hash and API key are never serialized.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	APIKey   string `json:"-"`
}

// Credentials is the body of both POST /users and POST /login.
type Credentials struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse carries the API key returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// RateRequest is the body of POST /movies/{id}/rate.
//
// Rating is a pointer so a missing value fails "required" instead of
// silently becoming zero, which is itself a valid rating.
type RateRequest struct {
	Rating *int64 `json:"rating" validate:"required,min=0,max=5"`
}
