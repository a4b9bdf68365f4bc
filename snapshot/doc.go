// Package snapshot persists a distributed graph's partitions in a badger
// key-value store, so a generated graph can be reloaded without routing any
// edges again.
//
// Layout of the store:
//
//	meta                     YAML-encoded Meta (run id, dimensions)
//	p/<rank>/<vertex id BE>  serialize.EncodeAdjacency of one vertex
//
// Vertex ids are big-endian so a prefix scan yields them in ascending order.
// Both halves of every edge are stored with their owners, so loading is
// purely local.
package snapshot
