// Package pgasgraph builds large undirected weighted graphs spread over a set
// of ranks and computes their minimum spanning tree with distributed Borůvka.
//
// What is inside?
//
//	A partitioned-global-address-space style graph store with:
//		• Partition map: every vertex id has exactly one owning rank
//		• Remote edge router: both halves of an edge land on their owners
//		• Distributed union-find: link-if-root unions safe under concurrency
//		• Borůvka MST: parallel selection, deterministic central merge
//		• Sequential Kruskal for verification
//		• Text export (plain or zstd) and badger snapshots
//
// Packages:
//
//	core/      ids, edges, the partition map and the per-rank vertex store
//	fabric/    in-process ranks: calls, forwarding, barrier and collectives
//	graph/     the distributed graph: AddEdge, FindRoot, Union, export
//	boruvka/   distributed minimum spanning tree
//	kruskal/   sequential reference MST
//	builder/   random connected graph generators
//	serialize/ text and protobuf-wire formats
//	snapshot/  badger-backed partition snapshots
//	telemetry/ RSS sampling, host facts, stopwatches
//	config/    harness settings (YAML + flags)
//	logging/   logrus setup
//	cmd/pgasgraph/ the benchmark harness
//
// Quick example (two ranks, six vertices):
//
//	rank 0: 0 1 2        0───1───2
//	rank 1: 3 4 5        │       │
//	                     5───4───3
//
//	fab, _ := fabric.New(2)
//	_ = fab.Run(ctx, func(ctx context.Context, ep *fabric.Endpoint) error {
//		g, err := graph.New(ctx, ep, 6, 0)
//		if err != nil {
//			return err
//		}
//		// ... g.AddEdge(ctx, u, v, w) on any rank ...
//		res, err := boruvka.MST(ctx, g)
//		...
//	})
//
// Install:
//
//	go get github.com/katalvlaran/pgasgraph
package pgasgraph
