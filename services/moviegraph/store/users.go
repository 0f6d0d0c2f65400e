// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/auth"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
	"github.com/google/uuid"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

const queryCreateUser = `
CREATE (user:User {id: $id, username: $username, password: $password, api_key: $apiKey})
RETURN user`

// UserStore registers users, checks credentials and resolves API keys.
//
// It also implements extensions.AuthProvider, so it can be passed directly
// to the auth middleware.
type UserStore struct {
	runner graph.Runner
	newKey func() (string, error)
	newID  func() string
}

// NewUserStore creates a UserStore over runner.
func NewUserStore(runner graph.Runner) *UserStore {
	return &UserStore{
		runner: runner,
		newKey: auth.NewAPIKey,
		newID:  func() string { return uuid.NewString() },
	}
}

// Register creates a user with a fresh id and API key.
//
// # Description
//
// The username is looked up first so the common duplicate case is reported
// without a failed write. A concurrent registration that slips past the
// lookup is caught by the username uniqueness constraint and reported the
// same way.
//
// # Outputs
//
//   - *datatypes.User: The created user, including its API key
//   - error: ErrUsernameTaken if the username exists
func (s *UserStore) Register(ctx context.Context, username, password string) (*datatypes.User, error) {
	existing, err := s.findOne(ctx, "users.find_by_username", "username", username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("register %q: %w", username, ErrUsernameTaken)
	}

	apiKey, err := s.newKey()
	if err != nil {
		return nil, err
	}
	user := datatypes.User{
		ID:       s.newID(),
		Username: username,
		Password: auth.HashPassword(username, password),
		APIKey:   apiKey,
	}

	_, err = s.runner.Write(ctx, "users.create", queryCreateUser, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"password": user.Password,
		"apiKey":   user.APIKey,
	})
	if err != nil {
		if graph.IsConstraintViolation(err) {
			return nil, fmt.Errorf("register %q: %w", username, ErrUsernameTaken)
		}
		return nil, err
	}
	return &user, nil
}

// Login checks the password and returns the user's API key.
//
// # Outputs
//
//   - string: The stored API key
//   - error: ErrUsernameNotFound or ErrWrongPassword on bad credentials
func (s *UserStore) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.findOne(ctx, "users.find_by_username", "username", username)
	if errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("login %q: %w", username, ErrUsernameNotFound)
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(username, password, user.Password) {
		return "", fmt.Errorf("login %q: %w", username, ErrWrongPassword)
	}
	return user.APIKey, nil
}

// FindByAPIKey resolves an API key to its user.
func (s *UserStore) FindByAPIKey(ctx context.Context, apiKey string) (*datatypes.User, error) {
	return s.findOne(ctx, "users.find_by_api_key", "api_key", apiKey)
}

// FindByID returns the user with the given id.
func (s *UserStore) FindByID(ctx context.Context, id string) (*datatypes.User, error) {
	return s.findOne(ctx, "users.find_by_id", "id", id)
}

// Validate implements extensions.AuthProvider.
func (s *UserStore) Validate(ctx context.Context, apiKey string) (*extensions.AuthInfo, error) {
	if apiKey == "" {
		return nil, extensions.ErrUnauthorized
	}
	user, err := s.FindByAPIKey(ctx, apiKey)
	if errors.Is(err, ErrUserNotFound) {
		return nil, extensions.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &extensions.AuthInfo{UserID: user.ID, Username: user.Username}, nil
}

// findOne matches a single (:User) by one property.
func (s *UserStore) findOne(ctx context.Context, op, prop string, value any) (*datatypes.User, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("u", "User").WithProperties(map[string]interface{}{prop: value})).
		Return("u").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	records, err := s.runner.Read(ctx, op, query, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrUserNotFound
	}
	if len(records) > 1 {
		slog.Warn("user lookup matched several nodes", "op", op, "count", len(records))
	}

	node, ok := graph.NodeValue(records[0], "u")
	if !ok {
		return nil, fmt.Errorf("%s: return value 'u' is not a node", op)
	}
	user := decodeUser(node)
	return &user, nil
}

var _ extensions.AuthProvider = (*UserStore)(nil)
