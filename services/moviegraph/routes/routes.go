// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/handlers"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/middleware"
	"github.com/gin-gonic/gin"
)

// DefaultBasePath is where the API is mounted when Dependencies.BasePath is empty.
const DefaultBasePath = "/api/v0"

// Dependencies are the backends the routes are wired to.
//
// # Fields
//
//   - BasePath: Mount point of the API routes. Default: DefaultBasePath
//   - Movies, Users, People, Genres: Store backends. Required.
//   - Readiness: Backs /health/ready. Required.
//   - Metrics: Served at /metrics when non-nil
//   - LoginLimiter: Applied to POST /login when non-nil
//   - Options: AuthProvider resolves API keys; AuditLogger receives events
type Dependencies struct {
	BasePath     string
	Movies       handlers.MovieStore
	Users        handlers.UserStore
	People       handlers.PersonStore
	Genres       handlers.GenreStore
	Readiness    handlers.ReadinessChecker
	Metrics      http.Handler
	LoginLimiter *middleware.IPRateLimiter
	Options      extensions.ServiceOptions
}

// SetupRoutes registers every route on router.
//
// Health and metrics live at the root. API routes are mounted under
// BasePath and all pass through ResolveUser; protected routes add
// RequireUser.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	basePath := deps.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}
	opts := deps.Options
	if opts.AuthProvider == nil || opts.AuditLogger == nil {
		defaults := extensions.DefaultOptions()
		if opts.AuthProvider == nil {
			opts.AuthProvider = defaults.AuthProvider
		}
		if opts.AuditLogger == nil {
			opts.AuditLogger = defaults.AuditLogger
		}
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/health/ready", handlers.HandleReadiness(deps.Readiness))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	movieHandler := handlers.NewMovieHandler(deps.Movies, opts.AuditLogger)
	userHandler := handlers.NewUserHandler(deps.Users, opts.AuditLogger)
	requireUser := middleware.RequireUser()

	api := router.Group(basePath)
	api.Use(middleware.ResolveUser(opts.AuthProvider))
	{
		movies := api.Group("/movies")
		{
			movies.GET("", movieHandler.List)
			movies.GET("/recommended", requireUser, movieHandler.Recommended)
			movies.GET("/rated", requireUser, movieHandler.Rated)
			movies.GET("/genre/:id", movieHandler.ByGenre)
			movies.GET("/daterange/:start/:end", movieHandler.ByDateRange)
			movies.GET("/directed_by/:id", movieHandler.ByDirector)
			movies.GET("/acted_in_by/:id", movieHandler.ByActor)
			movies.GET("/written_by/:id", movieHandler.ByWriter)
			movies.GET("/:id", movieHandler.Get)
			movies.POST("/:id/rate", requireUser, movieHandler.Rate)
			movies.DELETE("/:id/rate", requireUser, movieHandler.DeleteRating)
		}

		login := []gin.HandlerFunc{}
		if deps.LoginLimiter != nil {
			login = append(login, middleware.RateLimit(deps.LoginLimiter))
		}
		api.POST("/login", append(login, userHandler.Login)...)
		api.POST("/users", userHandler.Register)
		api.GET("/users/me", requireUser, userHandler.Me)
		api.GET("/user/me", requireUser, userHandler.Me)

		api.GET("/genres", handlers.HandleListGenres(deps.Genres))

		people := api.Group("/people")
		{
			people.GET("", handlers.HandleListPeople(deps.People))
			people.GET("/bacon", handlers.HandleBaconPath(deps.People))
			people.GET("/:id", handlers.HandleGetPerson(deps.People))
		}
	}
}
