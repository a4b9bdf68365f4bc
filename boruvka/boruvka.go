// SPDX-License-Identifier: MIT
//
// File: boruvka.go
// Role: Distributed Borůvka MST over a graph.Graph.
// Policy:
//   - Collective: every rank calls MST with the same options.
//   - Selection is parallel; each rank proposes, per component root, the
//     lightest edge leaving that component among its local adjacency.
//   - Merge is centralised at the coordinator: proposals are reduced per
//     component, de-duplicated, sorted by core.Less and applied through
//     graph.Union, so the accepted set does not depend on timing.
//   - Barriers separate rounds; topology is frozen for the whole run.

package boruvka

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/graph"
)

// MST computes a minimum spanning tree of g. Ties between equal weights are
// broken by (min endpoint, max endpoint), so the tree is unique and the same
// for every partitioning and insertion order.
//
// On a disconnected graph MST returns ErrNotConnected together with a Result
// whose Complete is false and whose edges form a minimum spanning forest.
// MST runs once per graph; a second call returns ErrAlreadySpanned.
//
// Complexity: O(log V) rounds; each round scans every local adjacency entry
// once and resolves each distinct endpoint root once.
func MST(ctx context.Context, g *graph.Graph, opts ...Option) (*Result, error) {
	o := newOptions(opts...)
	ep := g.Endpoint()
	if o.coordinator < 0 || int(o.coordinator) >= ep.Size() {
		return nil, fmt.Errorf("boruvka.MST: coordinator %d: %w", o.coordinator, fabric.ErrRankOutOfRange)
	}
	log := o.log.WithField("rank", int(ep.Rank()))

	if !g.BeginSpanning() {
		return nil, fmt.Errorf("boruvka.MST: %w", ErrAlreadySpanned)
	}
	// every rank stopped adding edges before anybody takes a snapshot
	if err := ep.Barrier(ctx); err != nil {
		return nil, fmt.Errorf("boruvka.MST: %w", err)
	}
	adjs, err := g.LocalEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("boruvka.MST: %w", err)
	}
	// unions made before the run count as merged components
	comps, err := g.Components(ctx)
	if err != nil {
		return nil, fmt.Errorf("boruvka.MST: %w", err)
	}

	total := g.Layout().Total()
	limit := bits.Len64(uint64(total-1)) + 2
	coordinator := ep.Rank() == o.coordinator

	res := &Result{Components: comps, Coordinator: coordinator}
	for res.Components > 1 {
		if res.Rounds >= limit {
			return res, fmt.Errorf("boruvka.MST: %d rounds exhausted with %d components: %w",
				limit, res.Components, ErrNoProgress)
		}
		res.Rounds++
		start := time.Now()

		if err := ep.Barrier(ctx); err != nil {
			return res, fmt.Errorf("boruvka.MST: round %d: %w", res.Rounds, err)
		}

		props, err := selectLocal(ctx, g, adjs)
		if err != nil {
			return res, fmt.Errorf("boruvka.MST: round %d selection: %w", res.Rounds, err)
		}
		gathered, err := ep.Gather(ctx, o.coordinator, encodeProposals(props))
		if err != nil {
			return res, fmt.Errorf("boruvka.MST: round %d: %w", res.Rounds, err)
		}

		var st status
		if coordinator {
			st, err = merge(ctx, g, gathered, res)
			if err != nil {
				// the other ranks are parked in Broadcast; the fabric
				// breaks the barrier when this rank returns
				return res, fmt.Errorf("boruvka.MST: round %d merge: %w", res.Rounds, err)
			}
		}
		b, err := ep.Broadcast(ctx, o.coordinator, st.marshal())
		if err != nil {
			return res, fmt.Errorf("boruvka.MST: round %d: %w", res.Rounds, err)
		}
		if err := st.unmarshal(b); err != nil {
			return res, fmt.Errorf("boruvka.MST: round %d: %w", res.Rounds, err)
		}

		res.Components = st.Components
		res.TotalWeight = st.TotalWeight
		res.EdgeCount = st.EdgeCount

		rs := RoundStats{
			Round:      res.Rounds,
			Proposals:  st.Proposals,
			Merged:     st.Merged,
			Components: st.Components,
			State:      StateUnconnected,
			Elapsed:    time.Since(start),
		}
		switch {
		case st.Components == 1:
			rs.State = StateConnected
		case st.Proposals == 0:
			rs.State = StateDisconnected
		}
		log.WithFields(logrus.Fields{
			"round":      rs.Round,
			"proposals":  rs.Proposals,
			"merged":     rs.Merged,
			"components": rs.Components,
			"state":      rs.State.String(),
		}).Debug("round finished")
		if o.hook != nil {
			o.hook(rs)
		}

		if err := ep.Barrier(ctx); err != nil {
			return res, fmt.Errorf("boruvka.MST: round %d: %w", res.Rounds, err)
		}

		if rs.State == StateDisconnected {
			return res, fmt.Errorf("boruvka.MST: %d components remain: %w", res.Components, ErrNotConnected)
		}
		if st.Merged == 0 {
			return res, fmt.Errorf("boruvka.MST: round %d merged nothing: %w", res.Rounds, ErrNoProgress)
		}
	}
	res.Complete = true

	return res, nil
}

// selectLocal proposes, for every component present on this rank, the
// lightest local edge leaving it.
func selectLocal(ctx context.Context, g *graph.Graph, adjs []core.Adjacency) ([]proposal, error) {
	roots := make(map[core.VertexID]core.VertexID)
	rootOf := func(id core.VertexID) (core.VertexID, error) {
		if r, ok := roots[id]; ok {
			return r, nil
		}
		r, err := g.FindRoot(ctx, id)
		if err != nil {
			return 0, err
		}
		roots[id] = r

		return r, nil
	}

	best := make(map[core.VertexID]core.Edge)
	for _, adj := range adjs {
		if len(adj.Neighbors) == 0 {
			continue
		}
		rv, err := rootOf(adj.ID)
		if err != nil {
			return nil, err
		}
		for _, nb := range adj.Neighbors {
			rp, err := rootOf(nb.Peer)
			if err != nil {
				return nil, err
			}
			if rp == rv {
				continue
			}
			cand := core.NewEdge(adj.ID, nb.Peer, nb.Weight)
			if cur, ok := best[rv]; !ok || core.Less(cand, cur) {
				best[rv] = cand
			}
		}
	}

	out := make([]proposal, 0, len(best))
	for root, e := range best {
		out = append(out, proposal{Root: root, Edge: e})
	}

	return out, nil
}

// merge runs on the coordinator. It reduces the gathered proposals to one
// edge per component, drops duplicates and applies the survivors in order.
func merge(ctx context.Context, g *graph.Graph, gathered [][]byte, res *Result) (status, error) {
	best := make(map[core.VertexID]core.Edge)
	for r, b := range gathered {
		props, err := decodeProposals(b)
		if err != nil {
			return status{}, fmt.Errorf("rank %d: %w", r, err)
		}
		for _, p := range props {
			if cur, ok := best[p.Root]; !ok || core.Less(p.Edge, cur) {
				best[p.Root] = p.Edge
			}
		}
	}

	seen := make(map[core.Edge]struct{}, len(best))
	cands := make([]core.Edge, 0, len(best))
	for _, e := range best {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		cands = append(cands, e)
	}
	core.SortEdges(cands)

	merged := 0
	for _, e := range cands {
		ok, err := g.Union(ctx, e.U, e.V)
		if err != nil {
			return status{}, err
		}
		if !ok {
			continue
		}
		merged++
		res.Edges = append(res.Edges, e)
		res.TotalWeight += e.Weight
		res.EdgeCount++
	}

	return status{
		Proposals:   len(cands),
		Merged:      merged,
		Components:  res.Components - int64(merged),
		TotalWeight: res.TotalWeight,
		EdgeCount:   res.EdgeCount,
	}, nil
}
