// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package node provides the elements of the scene graph.
package node

import (
	"github.com/gviegas/backdrop/linear"
)

// Kind identifies what a Node carries.
type Kind int

// Node kinds.
const (
	Group Kind = iota
	Mesh
	Points
	Light
	Card
)

func (k Kind) String() string {
	switch k {
	case Group:
		return "group"
	case Mesh:
		return "mesh"
	case Points:
		return "points"
	case Light:
		return "light"
	case Card:
		return "card"
	}
	return "unknown"
}

// Node represents a single node in a scene graph.
// Nodes have at most one immediate ancestor and
// an arbitrary number of immediate descendants.
type Node struct {
	next *Node
	prev *Node
	sub  *Node

	// Name for the node.
	// It is not used by node code.
	Name string

	kind Kind

	// Local transform.
	// Rot holds XYZ Euler angles in radians.
	Pos   linear.V3
	Rot   linear.V3
	Scale linear.V3

	// Spin is the per-frame rotation speed of the
	// node about its X and Y axes.
	// Only the frame loop reads it.
	Spin float32

	// Exactly one of these is set, according to
	// the node's Kind. Group nodes set none.
	Cloud *PointCloud
	Shape *Shape
	Lamp  *Lamp
	Label *Label
}

// New creates an initialized group node.
func New() *Node { return new(Node).Init() }

// Init initializes node n as an empty group with
// unit scale.
func (n *Node) Init() *Node {
	*n = Node{kind: Group, Scale: linear.V3{1, 1, 1}}
	return n
}

// NewGroup creates a named group node.
func NewGroup(name string) *Node {
	n := New()
	n.Name = name
	return n
}

// NewPoints creates a node that draws c.
func NewPoints(name string, c *PointCloud) *Node {
	n := NewGroup(name)
	n.kind = Points
	n.Cloud = c
	return n
}

// NewMesh creates a node that draws s.
func NewMesh(name string, s *Shape) *Node {
	n := NewGroup(name)
	n.kind = Mesh
	n.Shape = s
	return n
}

// NewLight creates a node that emits l.
func NewLight(name string, l *Lamp) *Node {
	n := NewGroup(name)
	n.kind = Light
	n.Lamp = l
	return n
}

// NewCard creates a node that draws the flat,
// camera-facing label l.
func NewCard(name string, l *Label) *Node {
	n := NewGroup(name)
	n.kind = Card
	n.Label = l
	return n
}

// Kind returns the kind of node n.
func (n *Node) Kind() Kind { return n.kind }

// Insert inserts node sub as immediate descendant
// of node n.
// sub must be either a descendant of n or part of
// an unrelated graph - it must not be an ancestor
// of node n.
func (n *Node) Insert(sub *Node) {
	sub.Remove()
	sub.next = n.sub
	sub.prev = n
	if n.sub != nil {
		n.sub.prev = sub
	}
	n.sub = sub
}

// Remove removes node n from its immediate ancestor.
func (n *Node) Remove() {
	// Node.prev is only nil when the node has no
	// ancestors, since the prev field of the first
	// immediate descendant refers to its ancestor.
	if n.prev != nil {
		if n.prev.sub == n {
			n.prev.sub = n.next
		} else {
			n.prev.next = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		}
		n.prev = nil
		n.next = nil
	}
}

// Parent returns the immediate ancestor of n, or nil
// if n is a root.
func (n *Node) Parent() *Node {
	x := n
	for x.prev != nil {
		if x.prev.sub == x {
			return x.prev
		}
		x = x.prev
	}
	return nil
}

// Children returns the immediate descendants of n.
// The most recently inserted comes first.
func (n *Node) Children() []*Node {
	var s []*Node
	for nd := n.sub; nd != nil; nd = nd.next {
		s = append(s, nd)
	}
	return s
}

// ForEach calls f for each descendant of node n.
// Ancestors are processed first.
// The scene graph must not be changed until this
// method returns.
func (n *Node) ForEach(f func(*Node)) {
	n.Until(func(nd *Node) bool {
		f(nd)
		return true
	})
}

// Until calls f for each descendant of node n.
// Ancestors are processed first. If f returns false,
// Until returns immediately.
// The scene graph must not be changed until this
// method returns.
func (n *Node) Until(f func(*Node) bool) {
	if n.sub == nil {
		return
	}
	que := []*Node{n.sub}
	for len(que) > 0 {
		for nd := que[0]; nd != nil; nd = nd.next {
			if !f(nd) {
				return
			}
			if sub := nd.sub; sub != nil {
				que = append(que, sub)
			}
		}
		que = que[1:]
	}
}

// Len returns the number of descendants of n.
func (n *Node) Len() (c int) {
	n.ForEach(func(*Node) { c++ })
	return
}

// Local returns the local transform of n.
func (n *Node) Local() (m linear.M4) {
	m.TRS(&n.Pos, &n.Rot, &n.Scale)
	return
}

// Walk calls f for n and each of its descendants,
// passing the world transform of each node.
// world is the transform of n's ancestor, if any.
// Ancestors are processed first.
func (n *Node) Walk(world *linear.M4, f func(nd *Node, world *linear.M4)) {
	var w linear.M4
	l := n.Local()
	w.Mul(world, &l)
	f(n, &w)
	for nd := n.sub; nd != nil; nd = nd.next {
		nd.Walk(&w, f)
	}
}
