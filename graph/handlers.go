// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
)

// register installs the graph's message handlers on the endpoint.
func (g *Graph) register() {
	g.ep.Handle(kindAppendEdge, g.handleAppendEdge)
	g.ep.Handle(kindFindRoot, g.handleFindRoot)
	g.ep.Handle(kindLink, g.handleLink)
	g.ep.Handle(kindBump, g.handleBump)
}

func (g *Graph) handleAppendEdge(c *fabric.Call) {
	var m appendEdgeMsg
	if err := m.unmarshal(c.Payload()); err != nil {
		c.Fail(err)

		return
	}
	if err := g.applyAppend(m); err != nil {
		c.Fail(err)

		return
	}
	c.Reply(nil)
}

// handleFindRoot walks the local part of the chain. When the chain leaves
// this rank the request moves on to the next owner and the answer goes
// straight back to the caller.
func (g *Graph) handleFindRoot(c *fabric.Call) {
	var m findRootMsg
	if err := m.unmarshal(c.Payload()); err != nil {
		c.Fail(err)

		return
	}
	if !g.layout.Contains(m.Vertex) {
		c.Fail(fmt.Errorf("FindRoot(%d): %w", m.Vertex, core.ErrVertexOutOfRange))

		return
	}
	if !g.part.Owns(m.Vertex) {
		c.Forward(g.layout.Owner(m.Vertex), c.Payload())

		return
	}

	v := g.walk(m.Vertex)
	if v.IsRoot() {
		c.Reply(findRootMsg{Vertex: v.ID, Height: v.Height}.marshal())

		return
	}
	c.Forward(g.layout.Owner(v.Parent), findRootMsg{Vertex: v.Parent}.marshal())
}

func (g *Graph) handleLink(c *fabric.Call) {
	var m linkMsg
	if err := m.unmarshal(c.Payload()); err != nil {
		c.Fail(err)

		return
	}
	if _, err := g.part.LocalVertex(m.Child); err != nil {
		c.Fail(err)

		return
	}
	m.Linked = g.applyLink(m)
	c.Reply(m.marshal())
}

func (g *Graph) handleBump(c *fabric.Call) {
	var m bumpMsg
	if err := m.unmarshal(c.Payload()); err != nil {
		c.Fail(err)

		return
	}
	if _, err := g.part.LocalVertex(m.Root); err != nil {
		c.Fail(err)

		return
	}
	g.applyBump(m)
	c.Reply(nil)
}
