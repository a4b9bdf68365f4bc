// Package graph is the distributed graph itself: one Graph per rank, each
// holding that rank's share of the vertices, wired together through a
// fabric.Endpoint.
//
// What it offers:
//
//   - AddEdge: routes both halves of an undirected edge to the owners of its
//     endpoints. Appends are tagged with an EdgeID and de-duplicated by the
//     receiver, so they are re-sent after transient failures.
//   - FindRoot / Union / Connected: a union-find spread over all ranks. Every
//     vertex record doubles as a union-find node; a root is linked under
//     another only on its owner and only if it is still a root of the height
//     the caller saw, so concurrent unions never form a cycle.
//   - ExportIntoFile / PrintLocal / Restore: text export in rank order and
//     bulk restore of local adjacency.
//
// A Graph is driven by its rank's driver goroutine. Remote requests are
// served by the rank's executor, which is also the only goroutine that
// touches the local vertex records.
//
// Example:
//
//	err := fab.Run(ctx, func(ctx context.Context, ep *fabric.Endpoint) error {
//		g, err := graph.New(ctx, ep, 6, 0)
//		if err != nil {
//			return err
//		}
//		if ep.Rank() == 0 {
//			if err := g.AddEdge(ctx, 0, 5, 9); err != nil {
//				return err
//			}
//		}
//		return ep.Barrier(ctx)
//	})
package graph
