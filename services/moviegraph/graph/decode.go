// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// =============================================================================
// Record Accessors
// =============================================================================

// NodeValue returns the node stored under key, or false if the key is
// missing, null, or not a node.
func NodeValue(record *neo4j.Record, key string) (neo4j.Node, bool) {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return neo4j.Node{}, false
	}
	node, ok := raw.(neo4j.Node)
	return node, ok
}

// NodeList returns the nodes of a collected list (collect(n) or a pattern
// comprehension). Nulls and non-node entries are skipped.
func NodeList(record *neo4j.Record, key string) []neo4j.Node {
	raw, ok := record.Get(key)
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	nodes := make([]neo4j.Node, 0, len(items))
	for _, item := range items {
		if node, ok := item.(neo4j.Node); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// MapList returns the maps of a collected list of map projections.
func MapList(record *neo4j.Record, key string) []map[string]any {
	raw, ok := record.Get(key)
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	maps := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			maps = append(maps, m)
		}
	}
	return maps
}

// =============================================================================
// Property Accessors
// =============================================================================

// StringProp returns the first present property among keys as a string.
// Integer and float values are formatted, so numeric tmdb ids decode as "603".
func StringProp(props map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := props[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			return v
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case neo4j.Date:
			return v.Time().Format("2006-01-02")
		}
	}
	return ""
}

// IntProp returns the first present integer property among keys.
// Numeric strings are parsed.
func IntProp(props map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		raw, ok := props[key]
		if !ok || raw == nil {
			continue
		}
		if n, ok := toInt(raw); ok {
			return n, true
		}
	}
	return 0, false
}

// FloatProp returns the first present numeric property among keys.
func FloatProp(props map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := props[key].(type) {
		case float64:
			return v, true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}
