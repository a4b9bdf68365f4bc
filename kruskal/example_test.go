package kruskal_test

import (
	"fmt"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/kruskal"
)

// ExampleKruskal runs on a triangle: A-B(1), B-C(2), A-C(4) with A=0, B=1,
// C=2. The tree keeps the two light edges.
func ExampleKruskal() {
	edges := []core.Edge{
		{U: 0, V: 1, Weight: 1},
		{U: 1, V: 2, Weight: 2},
		{U: 0, V: 2, Weight: 4},
	}

	mst, total, err := kruskal.Kruskal(3, edges)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("Total: %d, Edges: %v\n", total, mst)
	// Output: Total: 3, Edges: [(0,1,1) (1,2,2)]
}
