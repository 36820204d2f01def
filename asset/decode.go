// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"fmt"
	"io"

	"github.com/gviegas/backdrop/gltf"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// Decode builds a node graph from a GLB or glTF JSON
// model. Each glTF node of the displayed scene becomes
// a node; those that reference a mesh carry its
// positions as a Model shape.
func Decode(r io.Reader) (*node.Node, error) {
	doc, err := gltf.Load(r)
	if err != nil {
		return nil, err
	}
	if err := doc.Check(); err != nil {
		return nil, err
	}
	si := doc.SceneIndex()
	if si < 0 || len(doc.Scenes[si].Nodes) == 0 {
		return nil, errEmpty
	}
	root := node.NewGroup("centerpiece")
	if name := doc.Scenes[si].Name; name != "" {
		root.Name = name
	}
	// glTF node graphs are DAGs in principle but trees
	// in practice; visited guards against cycles.
	visited := make([]bool, len(doc.Nodes))
	var build func(idx int64, parent *node.Node) error
	build = func(idx int64, parent *node.Node) error {
		if visited[idx] {
			return fmt.Errorf("asset: node %d reached twice", idx)
		}
		visited[idx] = true
		gn := &doc.Nodes[idx]
		n, err := convert(doc, gn)
		if err != nil {
			return err
		}
		parent.Insert(n)
		for _, c := range gn.Children {
			if err := build(c, n); err != nil {
				return err
			}
		}
		return nil
	}
	for _, idx := range doc.Scenes[si].Nodes {
		if err := build(idx, root); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func convert(doc *gltf.Document, gn *gltf.Node) (*node.Node, error) {
	var n *node.Node
	if gn.Mesh == nil {
		n = node.NewGroup(gn.Name)
	} else {
		m := &doc.Meshes[*gn.Mesh]
		s := &node.Shape{Prim: node.Model, Parts: len(m.Primitives), Mat: material(doc, m)}
		for _, p := range m.Primitives {
			vs, err := doc.Positions(int(p.Attributes["POSITION"]))
			if err != nil {
				return nil, err
			}
			s.Verts = append(s.Verts, vs...)
		}
		name := gn.Name
		if name == "" {
			name = m.Name
		}
		n = node.NewMesh(name, s)
	}
	if t := gn.Translation; t != nil {
		n.Pos = linear.V3(*t)
	}
	if sc := gn.Scale; sc != nil {
		n.Scale = linear.V3(*sc)
	}
	if r := gn.Rotation; r != nil {
		q := linear.Q{V: linear.V3{r[0], r[1], r[2]}, R: r[3]}
		n.Rot = q.Euler()
	}
	return n, nil
}

// material converts the material of the first
// primitive that has one. Missing properties take
// their glTF defaults.
func material(doc *gltf.Document, m *gltf.Mesh) node.Material {
	mat := node.Material{Color: linear.V3{1, 1, 1}, Roughness: 1, Metalness: 1, Opacity: 1}
	for _, p := range m.Primitives {
		if p.Material == nil {
			continue
		}
		gm := &doc.Materials[*p.Material]
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if c := pbr.BaseColorFactor; c != nil {
				mat.Color = linear.V3{c[0], c[1], c[2]}
				mat.Opacity = c[3]
			}
			if x := pbr.MetallicFactor; x != nil {
				mat.Metalness = *x
			}
			if x := pbr.RoughnessFactor; x != nil {
				mat.Roughness = *x
			}
		}
		if e := gm.EmissiveFactor; e != nil {
			mat.Emissive = linear.V3(*e)
		}
		break
	}
	return mat
}
