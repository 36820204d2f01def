// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

// Check checks that f is valid glTF, as far as the
// modeled subset goes.
func (f *GLTF) Check() error {
	if f.Asset.Version == "" {
		return newErr("missing GLTF.Asset.Version")
	}
	if s := f.Scene; s != nil && (*s < 0 || *s >= int64(len(f.Scenes))) {
		return newErr("invalid GLTF.Scene index")
	}
	for _, s := range f.Scenes {
		for _, n := range s.Nodes {
			if n < 0 || n >= int64(len(f.Nodes)) {
				return newErr("invalid Scene.Nodes index")
			}
		}
	}
	for _, n := range f.Nodes {
		if err := n.Check(f); err != nil {
			return err
		}
	}
	for _, m := range f.Meshes {
		if err := m.Check(f); err != nil {
			return err
		}
	}
	for _, v := range f.BufferViews {
		if v.Buffer < 0 || v.Buffer >= int64(len(f.Buffers)) {
			return newErr("invalid BufferView.Buffer index")
		}
		if v.ByteOffset < 0 || v.ByteLength < 1 {
			return newErr("invalid BufferView range")
		}
	}
	for _, a := range f.Accessors {
		if err := a.Check(f); err != nil {
			return err
		}
	}
	return nil
}

// Check checks that n is valid glTF.nodes' element.
func (n *Node) Check(gltf *GLTF) error {
	if m := n.Mesh; m != nil && (*m < 0 || *m >= int64(len(gltf.Meshes))) {
		return newErr("invalid Node.Mesh index")
	}
	for _, c := range n.Children {
		if c < 0 || c >= int64(len(gltf.Nodes)) {
			return newErr("invalid Node.Children index")
		}
	}
	return nil
}

// Check checks that m is valid glTF.meshes' element.
func (m *Mesh) Check(gltf *GLTF) error {
	if len(m.Primitives) == 0 {
		return newErr("empty Mesh.Primitives")
	}
	for _, p := range m.Primitives {
		idx, ok := p.Attributes["POSITION"]
		if !ok {
			return newErr("missing POSITION attribute")
		}
		if idx < 0 || idx >= int64(len(gltf.Accessors)) {
			return newErr("invalid POSITION accessor index")
		}
		if p.Material != nil && (*p.Material < 0 || *p.Material >= int64(len(gltf.Materials))) {
			return newErr("invalid Primitive.Material index")
		}
	}
	return nil
}

// Check checks that a is valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if a.BufferView != nil {
		idx := *a.BufferView
		if idx < 0 || idx >= int64(len(gltf.BufferViews)) {
			return newErr("invalid Accessor.BufferView index")
		}
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.ByteOffset value")
	}
	switch a.ComponentType {
	case BYTE, UNSIGNED_BYTE, SHORT, UNSIGNED_SHORT, UNSIGNED_INT, FLOAT:
	default:
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	switch a.Type {
	case SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4:
	default:
		return newErr("invalid Accessor.Type value")
	}
	return nil
}
