// SPDX-License-Identifier: MIT

package boruvka

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/serialize"
)

// proposal is a component's lightest outgoing edge as seen by one rank.
type proposal struct {
	Root core.VertexID
	Edge core.Edge
}

// status is the round outcome the coordinator broadcasts.
type status struct {
	Proposals   int
	Merged      int
	Components  int64
	TotalWeight int64
	EdgeCount   int
}

// scan decodes a flat message of varint fields into dst, indexed by field
// number. Field numbers beyond dst are skipped.
func scan(b []byte, dst []int64) error {
	return serialize.Visit(b, func(f serialize.Field) error {
		if f.Type == protowire.VarintType && int(f.Num) < len(dst) {
			dst[f.Num] = f.Sint()
		}

		return nil
	})
}

func encodeProposals(ps []proposal) []byte {
	var b, pb []byte
	for _, p := range ps {
		pb = serialize.AppendSint(pb[:0], 1, int64(p.Root))
		pb = serialize.AppendSint(pb, 2, int64(p.Edge.U))
		pb = serialize.AppendSint(pb, 3, int64(p.Edge.V))
		pb = serialize.AppendSint(pb, 4, p.Edge.Weight)
		b = serialize.AppendBytes(b, 1, pb)
	}

	return b
}

func decodeProposals(b []byte) ([]proposal, error) {
	var out []proposal
	err := serialize.Visit(b, func(f serialize.Field) error {
		if f.Num != 1 || f.Type != protowire.BytesType {
			return nil
		}
		var v [5]int64
		if err := scan(f.Bytes, v[:]); err != nil {
			return fmt.Errorf("proposal: %w", err)
		}
		out = append(out, proposal{
			Root: core.VertexID(v[1]),
			Edge: core.Edge{U: core.VertexID(v[2]), V: core.VertexID(v[3]), Weight: v[4]},
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s status) marshal() []byte {
	b := serialize.AppendSint(nil, 1, int64(s.Proposals))
	b = serialize.AppendSint(b, 2, int64(s.Merged))
	b = serialize.AppendSint(b, 3, s.Components)
	b = serialize.AppendSint(b, 4, s.TotalWeight)

	return serialize.AppendSint(b, 5, int64(s.EdgeCount))
}

func (s *status) unmarshal(b []byte) error {
	var f [6]int64
	if err := scan(b, f[:]); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	s.Proposals = int(f[1])
	s.Merged = int(f[2])
	s.Components = f[3]
	s.TotalWeight = f[4]
	s.EdgeCount = int(f[5])

	return nil
}
