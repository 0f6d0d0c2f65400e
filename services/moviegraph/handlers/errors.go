// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/datatypes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/middleware"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/store"
	"github.com/gin-gonic/gin"
)

// errorMappings translates store sentinels into response errors.
var errorMappings = []struct {
	target error
	apiErr *datatypes.APIError
}{
	{store.ErrMovieNotFound, datatypes.ErrMovieNotFound},
	{store.ErrPersonNotFound, datatypes.ErrPersonNotFound},
	{store.ErrUsernameTaken, datatypes.ErrUsernameInUse},
	{store.ErrUsernameNotFound, datatypes.ErrUsernameMissing},
	{store.ErrWrongPassword, datatypes.ErrWrongPassword},
	{store.ErrInvalidRating, datatypes.ErrInvalidRating},
	{store.ErrUserNotFound, datatypes.ErrInvalidAuthKey},
}

// toAPIError maps err onto a response. Unknown errors become a 500 whose
// body never includes err's text.
func toAPIError(err error) *datatypes.APIError {
	var apiErr *datatypes.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.apiErr
		}
	}
	return datatypes.ErrInternal
}

// respondError aborts the request with the response for err.
func respondError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	if apiErr == datatypes.ErrInternal {
		slog.Error("request failed",
			"error", err,
			"route", c.FullPath(),
			"request_id", middleware.RequestID(c),
		)
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
