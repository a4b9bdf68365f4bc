// SPDX-License-Identifier: MIT

// Command pgasgraph generates a random connected graph spread over a set of
// in-process ranks, computes its minimum spanning tree with distributed
// Borůvka and reports timing, cost and memory.
//
// Usage:
//
//	pgasgraph [--config run.yaml] [--vertex-count 256] [--ranks 4]
//	          [--percentage 5] [--seed 1] [--export serialized.txt]
//	          [--snapshot-dir DIR [--load-snapshot]] [--verify] [--print-local]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/config"
	"github.com/katalvlaran/pgasgraph/logging"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "pgasgraph:", err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pgasgraph:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	entry := log.WithField("run_id", runID.String())
	if err := run(ctx, cfg, runID, entry); err != nil {
		entry.WithError(err).Error("run failed")
		os.Exit(1)
	}
}

// parseFlags loads the optional config file and lays explicitly set flags
// over it.
func parseFlags(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("pgasgraph", flag.ContinueOnError)

	def := config.Default()
	var (
		configPath   = fs.String("config", "", "YAML config file; flags override its values")
		vertexCount  = fs.Int64("vertex-count", def.VertexCount, "number of vertices")
		ranks        = fs.Int("ranks", def.Ranks, "number of ranks")
		degree       = fs.Int("degree", def.Degree, "vertex degree (accepted for compatibility, unused)")
		percentage   = fs.Float64("percentage", def.Percentage, "extra edges as a percentage of n*n/2")
		seed         = fs.Int64("seed", def.Seed, "generator seed")
		generator    = fs.String("generator", def.Generator, "global (rank 0 builds everything) or partitioned")
		crossLinks   = fs.Int("cross-links", def.CrossLinks, "random cross-rank edges per rank (partitioned generator)")
		printLocal   = fs.Bool("print-local", def.PrintLocal, "print every rank's vertices to stderr")
		export       = fs.String("export", def.Export, "export file; empty disables, .zst compresses")
		snapshotDir  = fs.String("snapshot-dir", def.SnapshotDir, "badger directory for partition snapshots")
		loadSnapshot = fs.Bool("load-snapshot", def.LoadSnapshot, "load the graph from --snapshot-dir instead of generating it")
		verify       = fs.Bool("verify", def.Verify, "check the MST weight against sequential Kruskal")
		logLevel     = fs.String("log-level", def.LogLevel, "trace, debug, info, warn or error")
		logFormat    = fs.String("log-format", def.LogFormat, "text or json")
		maxRetries   = fs.Int("max-retries", def.MaxRetries, "re-sends of replay-safe messages after transient failures")
		callTimeout  = fs.Duration("call-timeout", def.CallTimeout, "bound on every remote call; 0 disables")
		faultRate    = fs.Float64("fault-rate", def.FaultRate, "injected transient failure rate for replay-safe messages")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vertex-count":
			cfg.VertexCount = *vertexCount
		case "ranks":
			cfg.Ranks = *ranks
		case "degree":
			cfg.Degree = *degree
		case "percentage":
			cfg.Percentage = *percentage
		case "seed":
			cfg.Seed = *seed
		case "generator":
			cfg.Generator = *generator
		case "cross-links":
			cfg.CrossLinks = *crossLinks
		case "print-local":
			cfg.PrintLocal = *printLocal
		case "export":
			cfg.Export = *export
		case "snapshot-dir":
			cfg.SnapshotDir = *snapshotDir
		case "load-snapshot":
			cfg.LoadSnapshot = *loadSnapshot
		case "verify":
			cfg.Verify = *verify
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "max-retries":
			cfg.MaxRetries = *maxRetries
		case "call-timeout":
			cfg.CallTimeout = *callTimeout
		case "fault-rate":
			cfg.FaultRate = *faultRate
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// rankLogger narrows the root entry to one rank.
func rankLogger(log logrus.FieldLogger, rank int) logrus.FieldLogger {
	return log.WithField("rank", rank)
}
