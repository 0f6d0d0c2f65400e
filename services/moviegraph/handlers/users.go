// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler serves registration, login and the current-user route.
type UserHandler struct {
	store UserStore
	audit extensions.AuditLogger
}

// NewUserHandler creates a UserHandler. A nil audit logger disables auditing.
func NewUserHandler(store UserStore, audit extensions.AuditLogger) *UserHandler {
	if audit == nil {
		audit = &extensions.NopAuditLogger{}
	}
	return &UserHandler{store: store, audit: audit}
}

// Register handles POST /users.
//
// # Outputs
//
//   - 201: The created user ({id, username})
//   - 400: Missing fields, or {"username": "username already in use"}
func (h *UserHandler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	user, err := h.store.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.auditUser(c.Request.Context(), extensions.EventUserRegister, "", req.Username, err)
		respondError(c, err)
		return
	}
	h.auditUser(c.Request.Context(), extensions.EventUserRegister, user.ID, req.Username, nil)
	slog.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /login.
//
// # Outputs
//
//   - 200 {"token": "<api key>"}
//   - 400 {"username": "username does not exist"} or {"password": "wrong password"}
func (h *UserHandler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.store.Login(c.Request.Context(), req.Username, req.Password)
	h.auditUser(c.Request.Context(), extensions.EventUserLogin, "", req.Username, err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, datatypes.LoginResponse{Token: token})
}

// Me handles GET /user/me. Requires an authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.store.FindByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func bindCredentials(c *gin.Context) (datatypes.Credentials, bool) {
	var req datatypes.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, datatypes.ValidationError(err))
		return req, false
	}
	if err := datatypes.Validator().Struct(req); err != nil {
		respondError(c, datatypes.ValidationError(err))
		return req, false
	}
	return req, true
}

func (h *UserHandler) auditUser(ctx context.Context, eventType, userID, username string, err error) {
	outcome := extensions.OutcomeSuccess
	if err != nil {
		outcome = extensions.OutcomeFailure
	}
	event := extensions.AuditEvent{
		EventType:    eventType,
		Timestamp:    time.Now().UTC(),
		UserID:       userID,
		ResourceType: "user",
		ResourceID:   username,
		Outcome:      outcome,
	}
	if auditErr := h.audit.Log(ctx, event); auditErr != nil {
		slog.Warn("audit log failed", "event", eventType, "error", auditErr)
	}
}
