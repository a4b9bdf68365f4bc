// SPDX-License-Identifier: MIT
//
// File: messages.go
// Role: Wire messages exchanged between ranks by the router and the
// union-find, encoded as protobuf wire format with protowire.
// Policy:
//   - Every field is a varint; signed values are zigzag encoded.
//   - Unknown fields are skipped so messages can grow.

package graph

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/serialize"
)

// Message kinds registered by a Graph. Kinds below KindUser are reserved for
// the graph package.
const (
	kindAppendEdge fabric.Kind = iota + 1
	kindFindRoot
	kindLink
	kindBump

	// KindUser is the first kind free for callers sharing the endpoint.
	KindUser fabric.Kind = 64
)

// maxField bounds the field numbers any graph message uses.
const maxField = 8

type fields [maxField]uint64

// parseFields collects the varint fields of a flat message by number. Other
// wire types and numbers beyond maxField are skipped.
func parseFields(b []byte) (fields, error) {
	var f fields
	err := serialize.Visit(b, func(fl serialize.Field) error {
		if fl.Type == protowire.VarintType && int(fl.Num) < maxField {
			f[fl.Num] = fl.Varint
		}

		return nil
	})

	return f, err
}

func signed(v uint64) int64 { return protowire.DecodeZigZag(v) }

// appendEdgeMsg asks the owner of Target to record one adjacency entry.
type appendEdgeMsg struct {
	Target core.VertexID
	Peer   core.VertexID
	Weight int64
	Edge   core.EdgeID
}

func (m appendEdgeMsg) marshal() []byte {
	b := serialize.AppendSint(nil, 1, int64(m.Target))
	b = serialize.AppendSint(b, 2, int64(m.Peer))
	b = serialize.AppendSint(b, 3, m.Weight)

	return serialize.AppendUint(b, 4, uint64(m.Edge))
}

func (m *appendEdgeMsg) unmarshal(b []byte) error {
	f, err := parseFields(b)
	if err != nil {
		return fmt.Errorf("appendEdge: %w", err)
	}
	m.Target = core.VertexID(signed(f[1]))
	m.Peer = core.VertexID(signed(f[2]))
	m.Weight = signed(f[3])
	m.Edge = core.EdgeID(f[4])

	return nil
}

// findRootMsg asks for the root of Vertex. The reply reuses the message with
// Vertex set to the root and Height to the root's height.
type findRootMsg struct {
	Vertex core.VertexID
	Height int
}

func (m findRootMsg) marshal() []byte {
	b := serialize.AppendSint(nil, 1, int64(m.Vertex))

	return serialize.AppendSint(b, 2, int64(m.Height))
}

func (m *findRootMsg) unmarshal(b []byte) error {
	f, err := parseFields(b)
	if err != nil {
		return fmt.Errorf("findRoot: %w", err)
	}
	m.Vertex = core.VertexID(signed(f[1]))
	m.Height = int(signed(f[2]))

	return nil
}

// linkMsg asks the owner of Child to point it at Parent, provided Child is
// still a root of height Height. The reply carries Linked.
type linkMsg struct {
	Child  core.VertexID
	Parent core.VertexID
	Height int
	Linked bool
}

func (m linkMsg) marshal() []byte {
	b := serialize.AppendSint(nil, 1, int64(m.Child))
	b = serialize.AppendSint(b, 2, int64(m.Parent))
	b = serialize.AppendSint(b, 3, int64(m.Height))

	return serialize.AppendUint(b, 4, protowire.EncodeBool(m.Linked))
}

func (m *linkMsg) unmarshal(b []byte) error {
	f, err := parseFields(b)
	if err != nil {
		return fmt.Errorf("link: %w", err)
	}
	m.Child = core.VertexID(signed(f[1]))
	m.Parent = core.VertexID(signed(f[2]))
	m.Height = int(signed(f[3]))
	m.Linked = protowire.DecodeBool(f[4])

	return nil
}

// bumpMsg raises the height of Root by one if it is still a root of height
// Height.
type bumpMsg struct {
	Root   core.VertexID
	Height int
}

func (m bumpMsg) marshal() []byte {
	b := serialize.AppendSint(nil, 1, int64(m.Root))

	return serialize.AppendSint(b, 2, int64(m.Height))
}

func (m *bumpMsg) unmarshal(b []byte) error {
	f, err := parseFields(b)
	if err != nil {
		return fmt.Errorf("bump: %w", err)
	}
	m.Root = core.VertexID(signed(f[1]))
	m.Height = int(signed(f[2]))

	return nil
}

// ReplaySafeKinds lists the graph's message kinds that may be re-sent after a
// transient failure. Link and bump messages are not among them.
func ReplaySafeKinds() []fabric.Kind {
	return []fabric.Kind{kindAppendEdge, kindFindRoot}
}
