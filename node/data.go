// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package node

import (
	"image"

	"github.com/gviegas/backdrop/linear"
)

// PointCloud is a set of independently positioned
// and colored points.
// It must not be modified after creation.
type PointCloud struct {
	Pos   []linear.V3
	Color []linear.V3

	// Size of each point in world units.
	Size float32
	// Opacity in [0, 1].
	Opacity float32
	// Whether points add to the destination color
	// rather than replacing it.
	Additive bool
}

// Len returns the number of points in c.
func (c *PointCloud) Len() int { return len(c.Pos) }

// Primitive identifies the primitive a Shape was
// built from.
type Primitive int

// Primitives.
const (
	Box Primitive = iota
	Sphere
	Cylinder
	Cone
	Dodecahedron
	Plane
	// Geometry decoded from an external model.
	Model
)

// Material describes how a Shape is shaded.
type Material struct {
	Color     linear.V3
	Emissive  linear.V3
	Roughness float32
	Metalness float32
	Opacity   float32
}

// Shape is a mesh surface.
// Verts samples the surface in local space;
// renderers are free to use it as a vertex list
// or as a point sample of the surface.
type Shape struct {
	Prim  Primitive
	Verts []linear.V3
	Mat   Material

	// Number of primitives in the source model.
	// Only meaningful for Model shapes.
	Parts int
}

// LampType is the type of a light source.
type LampType int

// Light source types.
const (
	Ambient LampType = iota
	Point
	Spot
	Directional
)

// Lamp defines a light source.
// Its position is that of the node that carries it.
type Lamp struct {
	Type      LampType
	Color     linear.V3
	Intensity float32

	// Falloff range; zero means infinite.
	// Only applies to point and spot lights.
	Range float32

	// Cone angle and penumbra.
	// Only applies to spot lights.
	Angle    float32
	Penumbra float32

	// Node the light points at.
	// Only applies to spot and directional lights.
	Target *Node
}

// Label is a flat card displaying a texture.
type Label struct {
	Text string
	Tex  *image.RGBA
	// Width and height of the card in world units.
	Size float32
}
