// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the MovieGraph API.
//
// # Description
//
// Two families are recorded:
//   - HTTP requests by method, route template and status
//   - Graph queries by operation name, access mode and outcome
//
// Route labels use the gin route template ("/api/v0/movies/:id"), never the
// raw path, so label cardinality stays bounded.
//
// # Integration
//
// Metrics are registered on a caller-supplied registry and exposed via
// /metrics with Handler.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// Metric Definitions
// =============================================================================

const metricsNamespace = "moviegraph"

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus collectors of the service.
//
// # Fields
//
//   - HTTPRequestsTotal: Requests by method, route, status code
//   - HTTPRequestDuration: Handler latency by method, route
//   - GraphQueriesTotal: Queries by op, mode, status (success, error)
//   - GraphQueryDuration: Query latency by op, mode
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GraphQueriesTotal   *prometheus.CounterVec
	GraphQueryDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors on reg.
//
// # Limitations
//
//   - Panics if called twice with the same registry (duplicate registration).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP handler latency by method and route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		GraphQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "graph",
				Name:      "queries_total",
				Help:      "Total number of graph queries by operation, mode and status",
			},
			[]string{"op", "mode", "status"},
		),
		GraphQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "graph",
				Name:      "query_duration_seconds",
				Help:      "Graph query latency by operation and mode",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"op", "mode"},
		),
	}
}

// =============================================================================
// Recording
// =============================================================================

// ObserveQuery implements graph.QueryObserver.
func (m *Metrics) ObserveQuery(op string, mode graph.Mode, duration time.Duration, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.GraphQueriesTotal.WithLabelValues(op, string(mode), status).Inc()
	m.GraphQueryDuration.WithLabelValues(op, string(mode)).Observe(duration.Seconds())
}

// Middleware records one request sample per handled request.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RegisterLoginVisitors exposes the number of client IPs the login rate
// limiter is tracking. count is called on every scrape.
func RegisterLoginVisitors(reg prometheus.Registerer, count func() int) prometheus.GaugeFunc {
	return promauto.With(reg).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "login",
			Name:      "rate_limit_visitors",
			Help:      "Client IPs currently tracked by the login rate limiter",
		},
		func() float64 { return float64(count()) },
	)
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var _ graph.QueryObserver = (*Metrics)(nil)
