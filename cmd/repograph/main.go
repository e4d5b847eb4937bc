// repograph indexes a source repository and loads its structure into Neo4j
// as File/Function/Class nodes with IMPORTS, DEFINES, and CALLS edges.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/DeusData/repo-graph-ingest/internal/config"
	"github.com/DeusData/repo-graph-ingest/internal/ingest"
	"github.com/DeusData/repo-graph-ingest/internal/pipeline"
)

func main() {
	var (
		uri         = flag.String("uri", "", "Neo4j connection URI (overrides environment)")
		username    = flag.String("username", "", "Neo4j username (overrides environment)")
		password    = flag.String("password", "", "Neo4j password (overrides environment)")
		configFile  = flag.String("config", "", "optional YAML config file")
		configCheck = flag.Bool("config-check", false, "validate configuration and exit")
		keep        = flag.Bool("keep", false, "keep existing graph data (skip the initial clear)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <repo-path>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	if *configFile != "" {
		if err := cfg.ApplyFile(*configFile); err != nil {
			slog.Error("config.file", "err", err)
			os.Exit(1)
		}
	}
	if *uri != "" {
		cfg.Neo4jURI = *uri
	}
	if *username != "" {
		cfg.Neo4jUsername = *username
	}
	if *password != "" {
		cfg.Neo4jPassword = *password
	}

	if *configCheck {
		cfg.LogConfig()
		if err := cfg.Validate(); err != nil {
			slog.Warn("config.invalid", "err", err)
		} else {
			slog.Info("config.valid")
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	repoPath := flag.Arg(0)

	if _, err := os.Stat(repoPath); err != nil {
		slog.Error("repo path does not exist", "path", repoPath)
		return
	}

	cfg.LogConfig()
	if err := cfg.Validate(); err != nil {
		slog.Error("config.invalid", "err", err)
		return
	}

	ctx := context.Background()

	p := pipeline.New(ctx, repoPath, cfg.DiscoverOptions())
	data, _, err := p.Run()
	if err != nil {
		slog.Error("pipeline", "err", err)
		os.Exit(1)
	}

	ing, err := ingest.New(cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword)
	if err != nil {
		slog.Error("ingest.connect", "err", err)
		os.Exit(1)
	}
	defer ing.Close(ctx)

	if err := ing.IngestRepository(ctx, data, !*keep); err != nil {
		slog.Error("ingest", "err", err)
		os.Exit(1)
	}
}
