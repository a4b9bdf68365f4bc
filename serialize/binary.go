// SPDX-License-Identifier: MIT
//
// File: binary.go
// Role: Protobuf-wire encodings of adjacency records and edge lists.
//
//	Adjacency: 1=id (sint64), 2=neighbor (bytes, repeated)
//	Neighbor:  1=peer (sint64), 2=weight (sint64), 3=edge (uint64)
//	Edges:     1=edge (bytes, repeated)
//	Edge:      1=u (sint64), 2=v (sint64), 3=weight (sint64)

package serialize

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/katalvlaran/pgasgraph/core"
)

// ErrMalformedRecord indicates a binary record that cannot be decoded.
var ErrMalformedRecord = errors.New("serialize: malformed record")

// AppendSint appends a zigzag-encoded varint field.
func AppendSint(b []byte, num protowire.Number, v int64) []byte {
	return AppendUint(b, num, protowire.EncodeZigZag(v))
}

// AppendUint appends a plain varint field.
func AppendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, v)
}

// AppendBytes appends a length-delimited field.
func AppendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, v)
}

// Field is one decoded protobuf-wire field. Varint holds the value of a
// varint field and Bytes the body of a length-delimited one; fields of any
// other type carry neither.
type Field struct {
	Num    protowire.Number
	Type   protowire.Type
	Varint uint64
	Bytes  []byte
}

// Sint returns the zigzag-decoded value of a varint field.
func (f Field) Sint() int64 { return protowire.DecodeZigZag(f.Varint) }

// Visit calls fn for every field of b in wire order. Decoding errors wrap
// ErrMalformedRecord.
func Visit(b []byte, fn func(f Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformedRecord, protowire.ParseError(n))
		}
		b = b[n:]

		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.Varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.Bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformedRecord, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}

	return nil
}

// EncodeAdjacency encodes one adjacency record, edge ids included.
func EncodeAdjacency(adj core.Adjacency) []byte {
	b := AppendSint(nil, 1, int64(adj.ID))
	var nb []byte
	for _, n := range adj.Neighbors {
		nb = AppendSint(nb[:0], 1, int64(n.Peer))
		nb = AppendSint(nb, 2, n.Weight)
		nb = AppendUint(nb, 3, uint64(n.Edge))
		b = AppendBytes(b, 2, nb)
	}

	return b
}

// DecodeAdjacency is the inverse of EncodeAdjacency.
func DecodeAdjacency(b []byte) (core.Adjacency, error) {
	var adj core.Adjacency
	err := Visit(b, func(f Field) error {
		switch {
		case f.Num == 1 && f.Type == protowire.VarintType:
			adj.ID = core.VertexID(f.Sint())
		case f.Num == 2 && f.Type == protowire.BytesType:
			var n core.Neighbor
			err := Visit(f.Bytes, func(f Field) error {
				if f.Type != protowire.VarintType {
					return nil
				}
				switch f.Num {
				case 1:
					n.Peer = core.VertexID(f.Sint())
				case 2:
					n.Weight = f.Sint()
				case 3:
					n.Edge = core.EdgeID(f.Varint)
				}

				return nil
			})
			if err != nil {
				return err
			}
			adj.Neighbors = append(adj.Neighbors, n)
		}

		return nil
	})

	return adj, err
}

// EncodeEdges encodes a list of edges, preserving order.
func EncodeEdges(edges []core.Edge) []byte {
	var b, eb []byte
	for _, e := range edges {
		eb = AppendSint(eb[:0], 1, int64(e.U))
		eb = AppendSint(eb, 2, int64(e.V))
		eb = AppendSint(eb, 3, e.Weight)
		b = AppendBytes(b, 1, eb)
	}

	return b
}

// DecodeEdges is the inverse of EncodeEdges. An empty input decodes to an
// empty list.
func DecodeEdges(b []byte) ([]core.Edge, error) {
	var out []core.Edge
	err := Visit(b, func(f Field) error {
		if f.Num != 1 || f.Type != protowire.BytesType {
			return nil
		}
		var e core.Edge
		err := Visit(f.Bytes, func(f Field) error {
			if f.Type != protowire.VarintType {
				return nil
			}
			switch f.Num {
			case 1:
				e.U = core.VertexID(f.Sint())
			case 2:
				e.V = core.VertexID(f.Sint())
			case 3:
				e.Weight = f.Sint()
			}

			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, e)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
