// SPDX-License-Identifier: MIT
//
// File: graph.go
// Role: The per-rank handle on the distributed graph: construction, options,
// phase tracking and local reads.
// Policy:
//   - The Partition is touched only on the rank's executor (handlers and
//     Exec closures). The driver reads it through snapshots.
//   - Construction is collective and ends with a barrier, so no rank can
//     address a peer whose handlers are not yet registered.

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/logging"
	"github.com/katalvlaran/pgasgraph/serialize"
)

// Sentinel errors for graph operations.
var (
	// ErrFrozen indicates a topology change after the MST phase began.
	ErrFrozen = errors.New("graph: topology is frozen")

	// ErrUnsafeRetry indicates a transient failure on a message that cannot
	// be replayed safely. The operation's outcome is unknown.
	ErrUnsafeRetry = errors.New("graph: transient failure on non-idempotent message")

	// ErrUnionContention indicates a union that kept losing races beyond any
	// plausible bound.
	ErrUnionContention = errors.New("graph: union did not settle")

	// ErrLayoutMismatch indicates ranks disagreeing on the graph dimensions or
	// a fabric size different from the layout's rank count.
	ErrLayoutMismatch = errors.New("graph: layout mismatch")
)

// Phase is the lifecycle stage of a Graph.
type Phase uint8

const (
	// PhaseBuilding accepts AddEdge.
	PhaseBuilding Phase = iota
	// PhaseFrozen rejects topology changes; union-find operations continue.
	PhaseFrozen
	// PhaseSpanning is PhaseFrozen claimed by a spanning tree run.
	PhaseSpanning
)

// String renders the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseBuilding:
		return "building"
	case PhaseFrozen:
		return "frozen"
	case PhaseSpanning:
		return "spanning"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

const defaultMaxRetries = 5

// Option customizes a Graph.
type Option func(*options)

type options struct {
	log        logrus.FieldLogger
	maxRetries int
}

// WithLogger sets the logger. A "rank" field is added automatically.
// Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("graph: WithLogger(nil)")
	}

	return func(o *options) { o.log = l }
}

// WithMaxRetries bounds how many times a replay-safe message is re-sent after
// a transient failure. Panics if n < 0.
func WithMaxRetries(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("graph: WithMaxRetries(%d) must be >= 0", n))
	}

	return func(o *options) { o.maxRetries = n }
}

// Graph is one rank's share of a distributed undirected weighted graph.
//
// A Graph is driven from a single goroutine: the rank's driver. Concurrency
// between ranks comes from every rank driving its own Graph.
type Graph struct {
	ep     *fabric.Endpoint
	layout core.Layout
	part   *core.Partition
	log    logrus.FieldLogger

	maxRetries int

	// driver-owned
	seq   uint64
	phase Phase
}

// New builds this rank's partition of a graph with total vertices and
// perRank vertices per rank, registers the message handlers and waits for
// every rank to do the same. A perRank of zero selects ceil(total/ranks).
//
// New is collective: every rank must call it with the same dimensions.
//
// Errors:
//   - core.ErrInvalidLayout for bad dimensions.
//   - ErrLayoutMismatch if ranks disagree on the dimensions.
//   - fabric.ErrAborted if another rank failed.
func New(ctx context.Context, ep *fabric.Endpoint, total, perRank int64, opts ...Option) (*Graph, error) {
	o := options{maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Discard()
	}

	var (
		layout core.Layout
		err    error
	)
	if perRank == 0 {
		layout, err = core.NewLayout(total, ep.Size())
	} else {
		layout, err = core.NewLayoutWithStride(total, perRank, ep.Size())
	}
	if err != nil {
		return nil, fmt.Errorf("graph.New: %w", err)
	}

	g := &Graph{
		ep:         ep,
		layout:     layout,
		part:       core.NewPartition(layout, ep.Rank()),
		log:        o.log.WithField("rank", int(ep.Rank())),
		maxRetries: o.maxRetries,
	}
	g.register()

	// Agree on the dimensions; a rank that got other numbers would route
	// edges to the wrong owners.
	dims := serialize.AppendSint(nil, 1, layout.Total())
	dims = serialize.AppendSint(dims, 2, layout.PerRank())
	all, err := ep.Exchange(ctx, dims)
	if err != nil {
		return nil, fmt.Errorf("graph.New: %w", err)
	}
	for r, b := range all {
		f, perr := parseFields(b)
		if perr != nil {
			return nil, fmt.Errorf("graph.New: rank %d: %w", r, perr)
		}
		if signed(f[1]) != layout.Total() || signed(f[2]) != layout.PerRank() {
			return nil, fmt.Errorf("graph.New: rank %d has %d/%d, want %d/%d: %w",
				r, signed(f[1]), signed(f[2]), layout.Total(), layout.PerRank(), ErrLayoutMismatch)
		}
	}

	lo, hi := layout.Span(ep.Rank())
	g.log.WithFields(logrus.Fields{
		"total":    layout.Total(),
		"per_rank": layout.PerRank(),
		"lo":       int64(lo),
		"hi":       int64(hi),
	}).Debug("partition created")

	return g, nil
}

// Layout returns the partition map shared by every rank.
func (g *Graph) Layout() core.Layout { return g.layout }

// Endpoint returns the fabric endpoint the graph talks through.
func (g *Graph) Endpoint() *fabric.Endpoint { return g.ep }

// Rank returns the local rank.
func (g *Graph) Rank() core.Rank { return g.ep.Rank() }

// Logger returns the graph's logger.
func (g *Graph) Logger() logrus.FieldLogger { return g.log }

// Phase returns the current lifecycle stage.
func (g *Graph) Phase() Phase { return g.phase }

// Freeze stops accepting topology changes on this rank. It is idempotent.
func (g *Graph) Freeze() {
	if g.phase != PhaseBuilding {
		return
	}
	g.log.Debug("topology frozen")
	g.phase = PhaseFrozen
}

// BeginSpanning freezes the topology and claims the graph for a spanning
// tree run. It reports false when a run has already claimed it.
func (g *Graph) BeginSpanning() bool {
	if g.phase == PhaseSpanning {
		return false
	}
	g.Freeze()
	g.phase = PhaseSpanning

	return true
}

// Neighbors returns a copy of the adjacency of a locally owned vertex.
//
// Errors:
//   - core.ErrNotOwned if id belongs to another rank.
func (g *Graph) Neighbors(ctx context.Context, id core.VertexID) ([]core.Neighbor, error) {
	var (
		out  []core.Neighbor
		lerr error
	)
	err := g.ep.Exec(ctx, func() {
		v, err := g.part.LocalVertex(id)
		if err != nil {
			lerr = err

			return
		}
		out = append([]core.Neighbor(nil), v.Adjacency...)
	})
	if err != nil {
		return nil, err
	}

	return out, lerr
}

// LocalEdges returns a detached copy of every local adjacency list, vertices
// in ascending id order, each list sorted by (peer, weight, edge).
func (g *Graph) LocalEdges(ctx context.Context) ([]core.Adjacency, error) {
	var out []core.Adjacency
	err := g.ep.Exec(ctx, func() {
		out = make([]core.Adjacency, 0, g.part.Len())
		for v := range g.part.Vertices() {
			adj := append([]core.Neighbor(nil), v.Adjacency...)
			core.SortNeighbors(adj)
			out = append(out, core.Adjacency{ID: v.ID, Neighbors: adj})
		}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// EdgeCount returns the number of adjacency entries stored on this rank. Each
// undirected edge contributes one entry to each endpoint's owner.
func (g *Graph) EdgeCount(ctx context.Context) (int, error) {
	var n int
	err := g.ep.Exec(ctx, func() { n = g.part.Entries() })

	return n, err
}

// GlobalEdgeCount returns the number of undirected edges in the whole graph.
// It is collective.
func (g *Graph) GlobalEdgeCount(ctx context.Context) (int64, error) {
	n, err := g.EdgeCount(ctx)
	if err != nil {
		return 0, err
	}
	sum, err := g.ep.AllReduceInt64(ctx, int64(n), fabric.OpSum)
	if err != nil {
		return 0, err
	}

	return sum / 2, nil
}

// withRetry sends a replay-safe request, re-sending it after transient
// failures up to the configured bound.
func (g *Graph) withRetry(ctx context.Context, to core.Rank, kind fabric.Kind, payload []byte) ([]byte, error) {
	var err error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		var resp []byte
		resp, err = g.ep.Call(ctx, to, kind, payload)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, fabric.ErrTransient) {
			return nil, err
		}
		g.log.WithFields(logrus.Fields{
			"kind":    int(kind),
			"to":      int(to),
			"attempt": attempt + 1,
		}).Debug("transient failure, retrying")
	}

	return nil, fmt.Errorf("after %d retries: %w", g.maxRetries, err)
}
