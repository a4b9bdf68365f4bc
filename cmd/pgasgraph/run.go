// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/boruvka"
	"github.com/katalvlaran/pgasgraph/builder"
	"github.com/katalvlaran/pgasgraph/config"
	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/graph"
	"github.com/katalvlaran/pgasgraph/kruskal"
	"github.com/katalvlaran/pgasgraph/serialize"
	"github.com/katalvlaran/pgasgraph/snapshot"
	"github.com/katalvlaran/pgasgraph/telemetry"
)

// errVerify reports a distributed result that differs from the sequential one.
var errVerify = errors.New("verification failed")

// kindHostname carries a rank's hostname to rank 0.
const kindHostname = graph.KindUser

// partitionSeedStride keeps per-rank weight ranges apart in partitioned mode.
const partitionSeedStride = int64(1) << 32

func run(ctx context.Context, cfg config.Config, runID uuid.UUID, log logrus.FieldLogger) error {
	sampler, err := telemetry.NewSampler(0)
	if err != nil {
		return err
	}
	sampler.Start(ctx)

	if total, avail, err := telemetry.SystemMemory(); err == nil {
		log.WithFields(logrus.Fields{
			"total_mb":     telemetry.MiB(total),
			"available_mb": telemetry.MiB(avail),
		}).Debug("system memory")
	}

	var store *snapshot.Store
	if cfg.SnapshotDir != "" {
		store, err = snapshot.Open(snapshot.Config{Path: cfg.SnapshotDir, Logger: log})
		if err != nil {
			return err
		}
		defer store.Close()
	}

	fopts := []fabric.Option{fabric.WithLogger(log), fabric.WithCallTimeout(cfg.CallTimeout)}
	if cfg.FaultRate > 0 {
		fopts = append(fopts, fabric.WithTransientFaults(cfg.FaultRate, cfg.Seed, graph.ReplaySafeKinds()...))
	}
	fab, err := fabric.New(cfg.Ranks, fopts...)
	if err != nil {
		return err
	}

	err = fab.Run(ctx, func(ctx context.Context, ep *fabric.Endpoint) error {
		return runRank(ctx, cfg, runID, store, ep, log)
	})

	peak := sampler.Stop()
	log.Infof("Peak RSS: %.2f MB", telemetry.MiB(peak))

	return err
}

// runRank is the program every rank executes.
func runRank(ctx context.Context, cfg config.Config, runID uuid.UUID, store *snapshot.Store,
	ep *fabric.Endpoint, log logrus.FieldLogger) error {
	rlog := rankLogger(log, int(ep.Rank()))
	root := ep.Rank() == 0

	g, err := graph.New(ctx, ep, cfg.VertexCount, 0,
		graph.WithLogger(log), graph.WithMaxRetries(cfg.MaxRetries))
	if err != nil {
		return err
	}
	ep.Handle(kindHostname, func(c *fabric.Call) {
		log.Infof("Hostname: %s (rank %d)", c.Payload(), c.From())
		c.Reply(nil)
	})
	if err := ep.Barrier(ctx); err != nil {
		return err
	}

	sw := telemetry.NewStopwatch()
	if cfg.LoadSnapshot {
		meta, err := store.Load(ctx, g)
		if err != nil {
			return err
		}
		if root {
			rlog.WithField("snapshot_run_id", meta.RunID).Info("graph loaded from snapshot")
		}
	} else if err := generate(ctx, cfg, g, rlog); err != nil {
		return err
	}
	if err := ep.Barrier(ctx); err != nil {
		return err
	}
	genElapsed := sw.Lap("generate")

	edges, err := g.GlobalEdgeCount(ctx)
	if err != nil {
		return err
	}
	if root {
		log.Info("*********")
		log.Infof("Graph generation elapsed time: %f", genElapsed.Seconds())
		log.Infof("Vertex count: %d", cfg.VertexCount)
		log.Infof("Vertex count per rank: %d", g.Layout().PerRank())
		log.Infof("Edge count: %d", edges)
		log.Infof("Connectivity percentage: %f", cfg.Percentage)
		log.Infof("Number of ranks: %d", ep.Size())
		log.Debugf("Degree (unused): %d", cfg.Degree)
	}

	host, err := telemetry.Hostname()
	if err != nil {
		host = "unknown"
	}
	if _, err := ep.Call(ctx, 0, kindHostname, []byte(host)); err != nil {
		return fmt.Errorf("report hostname: %w", err)
	}
	if err := ep.Barrier(ctx); err != nil {
		return err
	}

	if store != nil && !cfg.LoadSnapshot {
		if err := store.Save(ctx, g, runID); err != nil {
			return err
		}
	}
	if cfg.PrintLocal {
		if err := g.PrintLocal(ctx, os.Stderr); err != nil {
			return err
		}
	}

	sw.Reset()
	res, err := boruvka.MST(ctx, g,
		boruvka.WithLogger(log),
		boruvka.WithRoundHook(func(rs boruvka.RoundStats) {
			if root {
				rlog.WithFields(logrus.Fields{
					"round":      rs.Round,
					"merged":     rs.Merged,
					"components": rs.Components,
				}).Debug("MST round")
			}
		}))
	if err != nil {
		return err
	}
	mstElapsed := sw.Lap("mst")
	if root {
		log.Infof("MST elapsed time: %f", mstElapsed.Seconds())
		log.Infof("MST cost: %d", res.TotalWeight)
		log.Infof("MST edges: %d in %d rounds", res.EdgeCount, res.Rounds)
	}

	if cfg.Verify {
		if err := verify(ctx, g, res, rlog); err != nil {
			return err
		}
	}

	if cfg.Export != "" {
		if err := g.ExportIntoFile(ctx, cfg.Export); err != nil {
			return err
		}
		if root {
			rlog.WithField("path", cfg.Export).Info("graph exported")
		}
	}

	return nil
}

func generate(ctx context.Context, cfg config.Config, g *graph.Graph, log logrus.FieldLogger) error {
	rank := g.Rank()
	bopts := []builder.BuilderOption{builder.WithLogger(log)}

	switch cfg.Generator {
	case config.GeneratorGlobal:
		if rank != 0 {
			return nil
		}
		bopts = append(bopts, builder.WithSeed(cfg.Seed), builder.WithWholeGraph())
		_, err := builder.Generate(ctx, g, g.Layout(), rank, bopts, builder.RandomConnected(cfg.Percentage))

		return err
	default:
		bopts = append(bopts,
			builder.WithSeed(cfg.Seed+int64(rank)),
			builder.WithSequentialWeight(1+int64(rank)*partitionSeedStride))
		_, err := builder.Generate(ctx, g, g.Layout(), rank, bopts,
			builder.RandomConnected(cfg.Percentage),
			builder.CrossLinks(cfg.CrossLinks),
			builder.Bridge())

		return err
	}
}

// verify gathers every edge at rank 0 and compares the distributed tree with
// sequential Kruskal. It is collective.
func verify(ctx context.Context, g *graph.Graph, res *boruvka.Result, log logrus.FieldLogger) error {
	adjs, err := g.LocalEdges(ctx)
	if err != nil {
		return err
	}
	all, err := g.Endpoint().Gather(ctx, 0, serialize.EncodeEdges(serialize.Edges(adjs)))
	if err != nil {
		return err
	}
	if g.Rank() != 0 {
		return nil
	}

	var edges []core.Edge
	for r, b := range all {
		part, err := serialize.DecodeEdges(b)
		if err != nil {
			return fmt.Errorf("verify: rank %d: %w", r, err)
		}
		edges = append(edges, part...)
	}

	want, total, err := kruskal.Kruskal(g.Layout().Total(), edges)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if total != res.TotalWeight || len(want) != res.EdgeCount {
		return fmt.Errorf("verify: Borůvka %d/%d edges, Kruskal %d/%d: %w",
			res.TotalWeight, res.EdgeCount, total, len(want), errVerify)
	}
	log.WithField("cost", total).Info("MST verified against Kruskal")

	return nil
}
