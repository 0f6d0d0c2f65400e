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
	"strconv"
	"time"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/middleware"
	"github.com/gin-gonic/gin"
)

// MovieHandler serves /movies and its sub-routes.
//
// # Fields
//
//   - store: Movie backend
//   - audit: Receives rating.upsert and rating.delete events
//
// # Thread Safety
//
// Safe for concurrent use if the store and audit logger are.
type MovieHandler struct {
	store MovieStore
	audit extensions.AuditLogger
}

// NewMovieHandler creates a MovieHandler. A nil audit logger disables auditing.
func NewMovieHandler(store MovieStore, audit extensions.AuditLogger) *MovieHandler {
	if audit == nil {
		audit = &extensions.NopAuditLogger{}
	}
	return &MovieHandler{store: store, audit: audit}
}

// =============================================================================
// Read Handlers
// =============================================================================

// List handles GET /movies.
func (h *MovieHandler) List(c *gin.Context) {
	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.All(ctx, userID)
	})
}

// Get handles GET /movies/:id.
//
// Returns 404 {"message": "movie not found"} for an unknown id.
func (h *MovieHandler) Get(c *gin.Context) {
	details, err := h.store.ByID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// ByGenre handles GET /movies/genre/:id. The id is a genre name or a genre
// node id.
func (h *MovieHandler) ByGenre(c *gin.Context) {
	genre := c.Param("id")
	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.ByGenre(ctx, genre, userID)
	})
}

// ByDateRange handles GET /movies/daterange/:start/:end.
//
// Both bounds are years and are exclusive. Non-integer bounds are rejected
// with 400 {"start": "invalid"} and/or {"end": "invalid"}.
func (h *MovieHandler) ByDateRange(c *gin.Context) {
	fields := map[string]string{}
	start, err := strconv.ParseInt(c.Param("start"), 10, 64)
	if err != nil {
		fields["start"] = "invalid"
	}
	end, err := strconv.ParseInt(c.Param("end"), 10, 64)
	if err != nil {
		fields["end"] = "invalid"
	}
	if len(fields) > 0 {
		respondError(c, &datatypes.APIError{Status: http.StatusBadRequest, Fields: fields})
		return
	}

	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.ByDateRange(ctx, start, end, userID)
	})
}

// ByActor handles GET /movies/acted_in_by/:id.
func (h *MovieHandler) ByActor(c *gin.Context) {
	personID := c.Param("id")
	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.ByActor(ctx, personID, userID)
	})
}

// ByDirector handles GET /movies/directed_by/:id.
func (h *MovieHandler) ByDirector(c *gin.Context) {
	personID := c.Param("id")
	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.ByDirector(ctx, personID, userID)
	})
}

// ByWriter handles GET /movies/written_by/:id.
func (h *MovieHandler) ByWriter(c *gin.Context) {
	personID := c.Param("id")
	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.ByWriter(ctx, personID, userID)
	})
}

// Rated handles GET /movies/rated. Requires an authenticated user.
func (h *MovieHandler) Rated(c *gin.Context) {
	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.RatedByUser(ctx, userID)
	})
}

// Recommended handles GET /movies/recommended. Requires an authenticated user.
func (h *MovieHandler) Recommended(c *gin.Context) {
	h.respondList(c, func(ctx context.Context, userID string) ([]datatypes.Movie, error) {
		return h.store.Recommended(ctx, userID)
	})
}

func (h *MovieHandler) respondList(c *gin.Context, fetch func(ctx context.Context, userID string) ([]datatypes.Movie, error)) {
	movies, err := fetch(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if movies == nil {
		movies = []datatypes.Movie{}
	}
	c.JSON(http.StatusOK, movies)
}

// =============================================================================
// Rating Handlers
// =============================================================================

// Rate handles POST /movies/:id/rate. Requires an authenticated user.
//
// # Description
//
// The body must be {"rating": n} with n an integer in [0, 5]. Anything else,
// including a missing rating, a string or a fraction, is rejected with
// 400 {"rating": "Rating value is invalid"} before the store is called.
//
// # Outputs
//
//   - 200 {}: Rating stored (created or updated)
//   - 404: Movie does not exist
func (h *MovieHandler) Rate(c *gin.Context) {
	movieID := c.Param("id")
	userID := middleware.UserID(c)

	var req datatypes.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, datatypes.ErrInvalidRating)
		return
	}
	if err := datatypes.Validator().Struct(req); err != nil {
		respondError(c, datatypes.ErrInvalidRating)
		return
	}

	err := h.store.Rate(c.Request.Context(), userID, movieID, *req.Rating)
	h.auditRating(c.Request.Context(), extensions.EventRatingUpsert, userID, movieID, err, map[string]any{"rating": *req.Rating})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// DeleteRating handles DELETE /movies/:id/rate. Requires an authenticated
// user. Returns 204 whether or not a rating existed.
func (h *MovieHandler) DeleteRating(c *gin.Context) {
	movieID := c.Param("id")
	userID := middleware.UserID(c)

	err := h.store.DeleteRating(c.Request.Context(), userID, movieID)
	h.auditRating(c.Request.Context(), extensions.EventRatingDelete, userID, movieID, err, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

func (h *MovieHandler) auditRating(ctx context.Context, eventType, userID, movieID string, err error, metadata map[string]any) {
	outcome := extensions.OutcomeSuccess
	if err != nil {
		outcome = extensions.OutcomeFailure
	}
	event := extensions.AuditEvent{
		EventType:    eventType,
		Timestamp:    time.Now().UTC(),
		UserID:       userID,
		ResourceType: "movie",
		ResourceID:   movieID,
		Outcome:      outcome,
		Metadata:     metadata,
	}
	if auditErr := h.audit.Log(ctx, event); auditErr != nil {
		slog.Warn("audit log failed", "event", eventType, "error", auditErr)
	}
}
