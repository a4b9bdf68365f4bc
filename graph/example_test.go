// SPDX-License-Identifier: MIT

package graph_test

import (
	"context"
	"fmt"
	"os"

	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/graph"
)

// ExampleGraph_Union joins two vertices owned by different ranks and prints
// rank 1's partition.
func ExampleGraph_Union() {
	fab, err := fabric.New(2)
	if err != nil {
		panic(err)
	}

	err = fab.Run(context.Background(), func(ctx context.Context, ep *fabric.Endpoint) error {
		g, err := graph.New(ctx, ep, 4, 0)
		if err != nil {
			return err
		}
		if ep.Rank() == 0 {
			if err := g.AddEdge(ctx, 1, 2, 7); err != nil {
				return err
			}
			if _, err := g.Union(ctx, 1, 2); err != nil {
				return err
			}
			ok, err := g.Connected(ctx, 2, 1)
			if err != nil {
				return err
			}
			fmt.Println("connected:", ok)
		}
		if err := ep.Barrier(ctx); err != nil {
			return err
		}
		if ep.Rank() == 1 {
			return g.PrintLocal(ctx, os.Stdout)
		}

		return nil
	})
	if err != nil {
		panic(err)
	}
	// Output:
	// connected: true
	// 2 1:7
	// 3
}
