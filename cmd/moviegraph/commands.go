// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleutianAI/MovieGraph/pkg/logging"
	"github.com/AleutianAI/MovieGraph/services/moviegraph"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/config"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// --- Global Command Variables ---
var (
	configPath string
	portFlag   int
	uriFlag    string
	logLevel   string
	logDir     string

	rootCmd = &cobra.Command{
		Use:          "moviegraph",
		Short:        "Movie catalog and recommendation API over Neo4j",
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		RunE:  runServe,
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Apply graph constraints and indexes, then exit",
		RunE:  runSchema,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "moviegraph %s\n", Version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&uriFlag, "neo4j-uri", "",
		"Neo4j connection URI (overrides NEO4J_URI)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"also write JSON logs to this directory")
	serveCmd.Flags().IntVar(&portFlag, "port", 0,
		"HTTP port (overrides MOVIEGRAPH_PORT)")

	rootCmd.AddCommand(serveCmd, schemaCmd, versionCmd)
}

// loadConfig merges file, environment and flags, then validates.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if portFlag != 0 {
		cfg.Server.Port = portFlag
	}
	if uriFlag != "" {
		cfg.Graph.URI = uriFlag
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logDir != "" {
		cfg.Logging.Dir = logDir
	}
}

// setupLogging installs the process-wide slog logger.
func setupLogging(cfg config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{
		Level:   level,
		Format:  logging.Format(cfg.Logging.Format),
		LogDir:  cfg.Logging.Dir,
		Service: config.DefaultServiceName,
	})
	slog.SetDefault(logger.Slog())
	return logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	slog.Info("starting moviegraph",
		"version", Version,
		"port", cfg.Server.Port,
		"neo4j_uri", cfg.Graph.URI,
		"tracing", cfg.Tracing.Endpoint != "",
	)

	svc, err := moviegraph.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return svc.Run(ctx)
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	executor, err := graph.NewExecutor(graph.Config{
		URI:          cfg.Graph.URI,
		Username:     cfg.Graph.Username,
		Password:     cfg.Graph.Password,
		Database:     cfg.Graph.Database,
		QueryTimeout: cfg.Graph.QueryTimeout,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	defer executor.Close(context.Background())

	if err := executor.VerifyConnectivity(ctx); err != nil {
		return err
	}
	if err := graph.EnsureSchema(ctx, executor); err != nil {
		return fmt.Errorf("schema incomplete: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d schema statements\n", len(graph.Schema))
	return nil
}
