// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command moviegraph runs the MovieGraph REST API.
//
// # Usage
//
//	# Serve on the default port with a local Neo4j
//	moviegraph serve
//
//	# Use a config file and override the port
//	moviegraph serve --config moviegraph.yaml --port 8080
//
//	# Apply constraints and indexes, then exit
//	moviegraph schema
//
// # Environment Variables
//
//   - MOVIEGRAPH_PORT, MOVIEGRAPH_API_PATH, MOVIEGRAPH_LOG_LEVEL
//   - MOVIEGRAPH_TRUSTED_PROXIES (comma-separated IPs/CIDRs allowed to set X-Forwarded-For)
//   - NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD, NEO4J_DATABASE
//   - OTEL_EXPORTER_OTLP_ENDPOINT ("stdout" prints spans)
//   - GIN_MODE
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
