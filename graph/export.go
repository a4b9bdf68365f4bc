// SPDX-License-Identifier: MIT
//
// File: export.go
// Role: Whole-graph export in rank order, unsynchronised local printing and
// bulk restore of local adjacency.
// Policy:
//   - Export is collective. Rank 0 truncates the file, every later rank
//     appends after the previous rank finished, so the file lists vertices
//     in ascending id order.
//   - A local write failure is returned at once; the other ranks observe it
//     as an aborted barrier.

package graph

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/serialize"
)

// ExportIntoFile writes the whole graph to path, one line per vertex. Paths
// ending in ".zst" get one zstd frame per rank.
func (g *Graph) ExportIntoFile(ctx context.Context, path string) error {
	adjs, err := g.LocalEdges(ctx)
	if err != nil {
		return err
	}

	for r := 0; r < g.ep.Size(); r++ {
		if core.Rank(r) == g.ep.Rank() {
			if err := serialize.WriteFile(path, r == 0, adjs); err != nil {
				return fmt.Errorf("ExportIntoFile: %w", err)
			}
			g.log.WithFields(logrus.Fields{
				"path":     path,
				"vertices": len(adjs),
			}).Debug("partition exported")
		}
		if err := g.ep.Barrier(ctx); err != nil {
			return fmt.Errorf("ExportIntoFile: %w", err)
		}
	}

	return nil
}

// PrintLocal writes this rank's vertices to w in the export line format,
// without coordinating with other ranks.
func (g *Graph) PrintLocal(ctx context.Context, w io.Writer) error {
	adjs, err := g.LocalEdges(ctx)
	if err != nil {
		return err
	}

	return serialize.WriteLines(w, adjs)
}

// Restore replaces the local adjacency with adjs, resets every restored
// vertex to a singleton component and moves each rank's edge sequence past
// every id already in the graph. It is collective.
//
// Errors:
//   - core.ErrNotOwned if adjs names a vertex owned by another rank.
//   - ErrFrozen once the MST phase has begun.
func (g *Graph) Restore(ctx context.Context, adjs []core.Adjacency) error {
	if g.phase != PhaseBuilding {
		return fmt.Errorf("Restore: %w", ErrFrozen)
	}

	// highest sequence seen per origin rank
	high := make([]uint64, g.ep.Size())
	var lerr error
	err := g.ep.Exec(ctx, func() {
		for _, adj := range adjs {
			if err := g.part.Load(adj.ID, adj.Neighbors); err != nil {
				lerr = err

				return
			}
			for _, nb := range adj.Neighbors {
				if o := int(nb.Edge.Origin()); o < len(high) {
					high[o] = max(high[o], nb.Edge.Seq())
				}
			}
		}
	})
	if err != nil {
		return err
	}
	if lerr != nil {
		return fmt.Errorf("Restore: %w", lerr)
	}

	var payload []byte
	for _, h := range high {
		payload = protowire.AppendVarint(payload, h)
	}
	all, err := g.ep.Exchange(ctx, payload)
	if err != nil {
		return fmt.Errorf("Restore: %w", err)
	}

	me := int(g.ep.Rank())
	for r, b := range all {
		for o := 0; len(b) > 0; o++ {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("Restore: rank %d: %w", r, protowire.ParseError(n))
			}
			b = b[n:]
			if o == me {
				g.seq = max(g.seq, v)
			}
		}
	}
	g.log.WithField("vertices", len(adjs)).Debug("partition restored")

	return nil
}
