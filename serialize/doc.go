// Package serialize holds the on-disk and on-wire encodings of adjacency
// lists.
//
// Text lines, one per vertex:
//
//	<vertexId> <peerId>:<weight> <peerId>:<weight> ...
//
// A vertex without neighbors is written as its id alone. Files whose name
// ends in ".zst" hold one or more concatenated zstd frames; readers decode
// them as one stream.
//
// The binary codec (EncodeAdjacency, EncodeEdges) uses the protobuf wire
// format and is what snapshots and MST proposals are stored and shipped as.
package serialize
