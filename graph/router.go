// SPDX-License-Identifier: MIT
//
// File: router.go
// Role: Remote Edge Router. Places both directed halves of an undirected edge
// on the owners of its endpoints.
// Policy:
//   - Every insertion carries a fresh EdgeID; the receiver de-duplicates on
//     (vertex, EdgeID), so a re-sent append is applied at most once.
//   - Self-loops are rejected without touching any rank.

package graph

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
)

// AddEdge records the undirected edge (u, v, weight): v is appended to u's
// adjacency on u's owner and u to v's adjacency on v's owner. Either side may
// be local or remote. Concurrent AddEdge calls from different ranks are safe.
//
// Ids outside [0, total) are a contract violation and panic.
//
// Errors:
//   - core.ErrSelfLoop if u == v; nothing is stored.
//   - ErrFrozen once the MST phase has begun.
//   - the fabric error of a remote append that kept failing.
func (g *Graph) AddEdge(ctx context.Context, u, v core.VertexID, weight int64) error {
	ou, ov := g.layout.Owner(u), g.layout.Owner(v)
	if g.phase != PhaseBuilding {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrFrozen)
	}
	if u == v {
		g.log.WithField("vertex", int64(u)).Warn("self-loop ignored")

		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, core.ErrSelfLoop)
	}

	g.seq++
	id := core.MakeEdgeID(g.ep.Rank(), g.seq)

	if err := g.appendTo(ctx, ou, appendEdgeMsg{Target: u, Peer: v, Weight: weight, Edge: id}); err != nil {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, err)
	}
	if err := g.appendTo(ctx, ov, appendEdgeMsg{Target: v, Peer: u, Weight: weight, Edge: id}); err != nil {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, err)
	}

	return nil
}

func (g *Graph) appendTo(ctx context.Context, owner core.Rank, m appendEdgeMsg) error {
	if owner == g.ep.Rank() {
		var aerr error
		if err := g.ep.Exec(ctx, func() { aerr = g.applyAppend(m) }); err != nil {
			return err
		}

		return aerr
	}

	_, err := g.withRetry(ctx, owner, kindAppendEdge, m.marshal())

	return err
}

// applyAppend runs on the executor.
func (g *Graph) applyAppend(m appendEdgeMsg) error {
	added, err := g.part.AppendNeighbor(m.Target, core.Neighbor{Peer: m.Peer, Weight: m.Weight, Edge: m.Edge})
	if err != nil {
		return err
	}
	if !added {
		g.log.WithFields(logrus.Fields{
			"vertex": int64(m.Target),
			"edge":   uint64(m.Edge),
		}).Debug("duplicate append dropped")
	}

	return nil
}
