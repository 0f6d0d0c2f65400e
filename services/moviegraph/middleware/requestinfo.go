// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id. An incoming value is reused.
	RequestIDHeader = "X-Request-ID"

	// DurationHeader carries the handler time in whole milliseconds.
	DurationHeader = "Duration-ms"

	requestIDKey = "moviegraph_request_id"
)

// RequestID returns the request id assigned by RequestInfo.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestInfo sets the X-Request-ID and Duration-ms response headers and
// logs one line per request.
//
// # Description
//
// Duration-ms must be set before the status line is written, so the
// response writer is wrapped and the header is stamped on the first
// WriteHeader or Write. Requests that never write a body are stamped
// after the handler chain returns.
func RequestInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		writer := &durationWriter{ResponseWriter: c.Writer, start: start}
		c.Writer = writer

		c.Next()

		if !writer.Written() {
			writer.stamp()
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		slog.Info("request handled",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
			"authenticated", GetAuthInfo(c) != nil,
		)
	}
}

// durationWriter stamps Duration-ms just before the response is committed.
type durationWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *durationWriter) stamp() {
	if w.stamped {
		return
	}
	w.stamped = true
	w.Header().Set(DurationHeader, strconv.FormatInt(time.Since(w.start).Milliseconds(), 10))
}

func (w *durationWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *durationWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *durationWriter) Write(data []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(data)
}

func (w *durationWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}
