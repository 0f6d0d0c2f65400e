// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph executes parameterized Cypher against Neo4j.
//
// # Description
//
// The package is the only place that talks to the neo4j driver. Stores
// depend on the Runner interface, which the Executor implements for
// production and hand-written fakes implement in tests.
//
//	store.MovieStore ──► Runner.Read/Write ──► neo4j.ExecuteQuery ──► Neo4j
//	                          │
//	                          ├─► otel span  "graph.<op>"
//	                          └─► QueryObserver (prometheus)
//
// # Transactions
//
// Every call is one managed transaction: reads are routed to readers and
// writes to the leader. The driver retries transient failures inside the
// managed transaction; this package adds no retries of its own.
package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("moviegraph.graph")

// DefaultQueryTimeout bounds a single query when Config.QueryTimeout is zero.
const DefaultQueryTimeout = 10 * time.Second

// Mode distinguishes read and write transactions.
type Mode string

const (
	ModeRead  Mode = "read"
	ModeWrite Mode = "write"
)

// ErrNoDriver is returned by an Executor created without a driver.
var ErrNoDriver = errors.New("graph: driver not initialized")

// =============================================================================
// Interfaces
// =============================================================================

// Runner executes a Cypher query and returns the fully buffered records.
//
// # Inputs
//
//   - op: Short stable operation name ("movies.by_id"). Used for spans and
//     metric labels, never interpolated into the query.
//   - query: Cypher text with $parameters.
//   - params: Parameter values.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Runner interface {
	Read(ctx context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error)
	Write(ctx context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error)
}

// QueryObserver receives one callback per executed query.
type QueryObserver interface {
	ObserveQuery(op string, mode Mode, duration time.Duration, err error)
}

// =============================================================================
// Executor
// =============================================================================

// Config holds connection settings for the Executor.
type Config struct {
	URI          string
	Username     string
	Password     string
	Database     string
	QueryTimeout time.Duration
}

// Executor implements Runner on top of neo4j.DriverWithContext.
//
// # Fields
//
//   - driver: Pooled driver, owned by the Executor (closed by Close)
//   - database: Target database; empty means the server default
//   - timeout: Per-query deadline
//   - observer: Optional metrics sink
type Executor struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
	observer QueryObserver
}

// NewExecutor creates a driver for cfg.URI. It does not connect; call
// VerifyConnectivity to check the server is reachable.
//
// # Outputs
//
//   - *Executor: Ready-to-use executor
//   - error: Non-nil if the URI or auth settings are invalid
func NewExecutor(cfg Config) (*Executor, error) {
	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("graph: failed to create driver: %w", err)
	}

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	return &Executor{
		driver:   driver,
		database: cfg.Database,
		timeout:  timeout,
	}, nil
}

// SetObserver installs the metrics sink. Must be called before serving traffic.
func (e *Executor) SetObserver(observer QueryObserver) {
	e.observer = observer
}

// VerifyConnectivity checks that the server is reachable with the configured credentials.
func (e *Executor) VerifyConnectivity(ctx context.Context) error {
	if e.driver == nil {
		return ErrNoDriver
	}
	if err := e.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("graph: connectivity check failed: %w", err)
	}
	return nil
}

// Close releases all pooled connections.
func (e *Executor) Close(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}
	return e.driver.Close(ctx)
}

// Read runs query in a read transaction routed to a reader.
func (e *Executor) Read(ctx context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	return e.run(ctx, ModeRead, op, query, params)
}

// Write runs query in a write transaction routed to the leader.
func (e *Executor) Write(ctx context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	return e.run(ctx, ModeWrite, op, query, params)
}

func (e *Executor) run(ctx context.Context, mode Mode, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	if e.driver == nil {
		return nil, ErrNoDriver
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "graph."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "neo4j"),
			attribute.String("db.operation", op),
			attribute.String("db.access_mode", string(mode)),
		))
	defer span.End()

	opts := []neo4j.ExecuteQueryConfigurationOption{routing(mode)}
	if e.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.database))
	}

	start := time.Now()
	result, err := neo4j.ExecuteQuery(ctx, e.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if e.observer != nil {
		e.observer.ObserveQuery(op, mode, time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("graph: %s failed: %w", op, err)
	}

	span.SetAttributes(attribute.Int("db.records", len(result.Records)))
	return result.Records, nil
}

func routing(mode Mode) neo4j.ExecuteQueryConfigurationOption {
	if mode == ModeWrite {
		return neo4j.ExecuteQueryWithWritersRouting()
	}
	return neo4j.ExecuteQueryWithReadersRouting()
}

// IsConstraintViolation reports whether err is a Neo4j schema constraint failure.
func IsConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return neoErr.Code == "Neo.ClientError.Schema.ConstraintValidationFailed"
	}
	return false
}

var _ Runner = (*Executor)(nil)
