// Package boruvka computes minimum spanning trees of a distributed
// graph.Graph with Borůvka's algorithm.
//
// Each round has two steps:
//
//	selection - every rank finds, for each component touching its local
//	            vertices, the lightest edge leaving that component;
//	merge     - the coordinator keeps the lightest proposal per component,
//	            applies them in core.Less order through graph.Union and
//	            broadcasts the outcome.
//
// The number of components at least halves per round, so a connected graph
// of V vertices needs at most ceil(log2 V) rounds. A graph that stops
// producing proposals while several components remain is reported with
// ErrNotConnected and a partial forest.
package boruvka
