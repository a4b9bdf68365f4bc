// SPDX-License-Identifier: MIT
//
// File: unionfind.go
// Role: Distributed union-find over the vertex records: FindRoot with local
// path compression, link-if-root unions by (Height, id) and the connectivity
// oracle built on them.
// Policy:
//   - A vertex's Parent and Height are written only by its owner's executor.
//   - A root is linked below another only if it is still a root with the
//     height the caller observed. A lost race restarts the union.
//   - Along every parent pointer (Height, id) strictly increases, so the
//     forest stays acyclic under any interleaving of unions.

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
)

// walk follows parent pointers from id while they stay on this rank and
// compresses the walked prefix onto the last vertex it can name. It returns
// the vertex where the walk stopped: a root, or a vertex whose parent is
// owned elsewhere. Runs on the executor. Panics if id is not owned here.
func (g *Graph) walk(id core.VertexID) *core.Vertex {
	v, err := g.part.LocalVertex(id)
	if err != nil {
		panic(err)
	}

	var path []*core.Vertex
	for !v.IsRoot() && g.part.Owns(v.Parent) {
		path = append(path, v)
		v, _ = g.part.LocalVertex(v.Parent)
	}

	target := v.ID
	if !v.IsRoot() {
		target = v.Parent
	}
	for _, p := range path {
		p.Parent = target
	}

	return v
}

type rootInfo struct {
	root   core.VertexID
	height int
}

// less orders roots by (height, id).
func (a rootInfo) less(b rootInfo) bool {
	if a.height != b.height {
		return a.height < b.height
	}

	return a.root < b.root
}

// FindRoot returns the representative of id's component. Without concurrent
// unions repeated calls return the same root.
func (g *Graph) FindRoot(ctx context.Context, id core.VertexID) (core.VertexID, error) {
	ri, err := g.find(ctx, id)
	if err != nil {
		return 0, err
	}

	return ri.root, nil
}

// VertexParent returns the representative id's component currently resolves
// to. It exists for inspection; it never links anything.
func (g *Graph) VertexParent(ctx context.Context, id core.VertexID) (core.VertexID, error) {
	return g.FindRoot(ctx, id)
}

func (g *Graph) find(ctx context.Context, id core.VertexID) (rootInfo, error) {
	owner := g.layout.Owner(id)

	if owner == g.ep.Rank() {
		var (
			ri   rootInfo
			next core.VertexID
			done bool
		)
		err := g.ep.Exec(ctx, func() {
			v := g.walk(id)
			if v.IsRoot() {
				ri, done = rootInfo{root: v.ID, height: v.Height}, true

				return
			}
			next = v.Parent
		})
		if err != nil {
			return rootInfo{}, err
		}
		if done {
			return ri, nil
		}
		id, owner = next, g.layout.Owner(next)
	}

	// A lookup only compresses paths, so re-sending it is harmless.
	resp, err := g.withRetry(ctx, owner, kindFindRoot, findRootMsg{Vertex: id}.marshal())
	if err != nil {
		return rootInfo{}, fmt.Errorf("FindRoot(%d): %w", id, err)
	}
	var m findRootMsg
	if err := m.unmarshal(resp); err != nil {
		return rootInfo{}, fmt.Errorf("FindRoot(%d): %w", id, err)
	}

	return rootInfo{root: m.Vertex, height: m.Height}, nil
}

// Connected reports whether a and b are currently in the same component.
func (g *Graph) Connected(ctx context.Context, a, b core.VertexID) (bool, error) {
	ra, err := g.FindRoot(ctx, a)
	if err != nil {
		return false, err
	}
	rb, err := g.FindRoot(ctx, b)
	if err != nil {
		return false, err
	}

	return ra == rb, nil
}

// Union merges the components of a and b and reports whether they were
// distinct. The root with the smaller (Height, id) goes below the other.
// Unions issued concurrently from different ranks are safe.
//
// Errors:
//   - ErrUnsafeRetry if a link message failed transiently; the link may or
//     may not have happened.
//   - ErrUnionContention if the union kept losing races.
func (g *Graph) Union(ctx context.Context, a, b core.VertexID) (bool, error) {
	// Each lost race means some other union or height bump landed first.
	// There are fewer than 2*total of those.
	limit := 2*g.layout.Total() + 8

	for attempt := int64(0); attempt < limit; attempt++ {
		ra, err := g.find(ctx, a)
		if err != nil {
			return false, err
		}
		rb, err := g.find(ctx, b)
		if err != nil {
			return false, err
		}
		if ra.root == rb.root {
			return false, nil
		}

		child, parent := ra, rb
		if rb.less(ra) {
			child, parent = rb, ra
		}

		linked, err := g.link(ctx, child, parent)
		if err != nil {
			return false, fmt.Errorf("Union(%d,%d): %w", a, b, err)
		}
		if !linked {
			g.log.WithFields(logrus.Fields{
				"child":   int64(child.root),
				"attempt": attempt + 1,
			}).Trace("link lost race, retrying")

			continue
		}

		if child.height == parent.height {
			if err := g.bump(ctx, parent); err != nil {
				return true, fmt.Errorf("Union(%d,%d): %w", a, b, err)
			}
		}

		return true, nil
	}

	return false, fmt.Errorf("Union(%d,%d) after %d attempts: %w", a, b, limit, ErrUnionContention)
}

// link points child at parent on the child's owner, if child is unchanged.
func (g *Graph) link(ctx context.Context, child, parent rootInfo) (bool, error) {
	owner := g.layout.Owner(child.root)
	m := linkMsg{Child: child.root, Parent: parent.root, Height: child.height}

	if owner == g.ep.Rank() {
		var linked bool
		err := g.ep.Exec(ctx, func() { linked = g.applyLink(m) })

		return linked, err
	}

	resp, err := g.ep.Call(ctx, owner, kindLink, m.marshal())
	if err != nil {
		if errors.Is(err, fabric.ErrTransient) {
			return false, fmt.Errorf("link %d->%d: %w: %w", child.root, parent.root, ErrUnsafeRetry, err)
		}

		return false, err
	}
	var r linkMsg
	if err := r.unmarshal(resp); err != nil {
		return false, err
	}

	return r.Linked, nil
}

// applyLink runs on the executor.
func (g *Graph) applyLink(m linkMsg) bool {
	v, err := g.part.LocalVertex(m.Child)
	if err != nil {
		panic(err)
	}
	if !v.IsRoot() || v.Height != m.Height {
		return false
	}
	v.Parent = m.Parent

	return true
}

// bump raises parent's height after an equal-height link. It is best effort:
// a stale height only weakens the balance bound, so a transient failure is
// logged and dropped.
func (g *Graph) bump(ctx context.Context, parent rootInfo) error {
	owner := g.layout.Owner(parent.root)
	m := bumpMsg{Root: parent.root, Height: parent.height}

	if owner == g.ep.Rank() {
		return g.ep.Exec(ctx, func() { g.applyBump(m) })
	}

	_, err := g.ep.Call(ctx, owner, kindBump, m.marshal())
	if errors.Is(err, fabric.ErrTransient) {
		g.log.WithField("root", int64(parent.root)).Debug("height bump lost")

		return nil
	}

	return err
}

// applyBump runs on the executor.
func (g *Graph) applyBump(m bumpMsg) {
	v, err := g.part.LocalVertex(m.Root)
	if err != nil {
		panic(err)
	}
	if v.IsRoot() && v.Height == m.Height {
		v.Height++
	}
}

// Components returns the number of union-find roots over the whole graph. It
// is collective.
func (g *Graph) Components(ctx context.Context) (int64, error) {
	var n int64
	err := g.ep.Exec(ctx, func() {
		for v := range g.part.Vertices() {
			if v.IsRoot() {
				n++
			}
		}
	})
	if err != nil {
		return 0, err
	}

	return g.ep.AllReduceInt64(ctx, n, fabric.OpSum)
}
