// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graphtest provides an in-memory graph.Runner for store tests.
package graphtest

import (
	"context"
	"sync"

	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Call records one query issued against the FakeRunner.
type Call struct {
	Mode   graph.Mode
	Op     string
	Query  string
	Params map[string]any
}

// FakeRunner returns canned records keyed by operation name.
//
// Ops without a canned result return no records. Errors take precedence
// over results.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []Call
	results map[string][]*neo4j.Record
	errs    map[string]error
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		results: make(map[string][]*neo4j.Record),
		errs:    make(map[string]error),
	}
}

// On sets the records returned for op.
func (f *FakeRunner) On(op string, records ...*neo4j.Record) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[op] = records
	return f
}

// Fail makes op return err.
func (f *FakeRunner) Fail(op string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
	return f
}

func (f *FakeRunner) Read(_ context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	return f.record(graph.ModeRead, op, query, params)
}

func (f *FakeRunner) Write(_ context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	return f.record(graph.ModeWrite, op, query, params)
}

func (f *FakeRunner) record(mode graph.Mode, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Mode: mode, Op: op, Query: query, Params: params})
	if err, ok := f.errs[op]; ok {
		return nil, err
	}
	return f.results[op], nil
}

// Calls returns every recorded call in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsFor returns the recorded calls for op.
func (f *FakeRunner) CallsFor(op string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Writes returns the recorded write calls.
func (f *FakeRunner) Writes() []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Mode == graph.ModeWrite {
			out = append(out, c)
		}
	}
	return out
}

// Node builds a neo4j.Node with the given legacy id, label and properties.
func Node(id int64, label string, props map[string]any) neo4j.Node {
	return neo4j.Node{Id: id, Labels: []string{label}, Props: props} //nolint:staticcheck // legacy ids are part of the genre contract
}

// Record builds a record from alternating key/value pairs.
func Record(pairs ...any) *neo4j.Record {
	rec := &neo4j.Record{}
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Keys = append(rec.Keys, pairs[i].(string))
		rec.Values = append(rec.Values, pairs[i+1])
	}
	return rec
}

var _ graph.Runner = (*FakeRunner)(nil)
