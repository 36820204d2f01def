// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M3) Mul(l, r *M3) {
	var n M3
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Euler sets m to contain the rotation described by
// the XYZ Euler angles e (in radians), that is,
// Rx ⋅ Ry ⋅ Rz.
func (m *M3) Euler(e *V3) {
	b, a := math32.Sincos(e[0])
	d, c := math32.Sincos(e[1])
	f, g := math32.Sincos(e[2])
	*m = M3{
		{c * g, a*f + b*g*d, b*f - a*g*d},
		{-c * f, a*g - b*f*d, b*g + a*f*d},
		{d, -b * c, a * c},
	}
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Translate sets m to contain a translation.
func (m *M4) Translate(x, y, z float32) {
	m.I()
	m[3] = V4{x, y, z, 1}
}

// Scale sets m to contain a scale.
func (m *M4) Scale(x, y, z float32) {
	*m = M4{{x}, {1: y}, {2: z}, {3: 1}}
}

// RotateQ sets m to contain the rotation described
// by the unit quaternion q.
func (m *M4) RotateQ(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{3: 1},
	}
}

// TRS sets m to contain T ⋅ R ⋅ S, where R is the
// rotation described by the XYZ Euler angles rot.
func (m *M4) TRS(pos, rot, scale *V3) {
	var r M3
	r.Euler(rot)
	for i := range r {
		var c V3
		c.Scale(scale[i], &r[i])
		m[i] = V4{c[0], c[1], c[2], 0}
	}
	m[3] = V4{pos[0], pos[1], pos[2], 1}
}

// LookAt sets m to contain a right-handed view matrix
// placed at eye and facing center.
func (m *M4) LookAt(eye, center, up *V3) {
	var f, s, u V3
	f.Sub(center, eye)
	f.Norm(&f)
	s.Cross(&f, up)
	s.Norm(&s)
	u.Cross(&s, &f)
	*m = M4{
		{s[0], u[0], -f[0], 0},
		{s[1], u[1], -f[1], 0},
		{s[2], u[2], -f[2], 0},
		{-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1},
	}
}

// Perspective sets m to contain a perspective
// projection with the given vertical field of view
// (in radians). Depth is mapped to [0, 1].
func (m *M4) Perspective(yfov, aspect, znear, zfar float32) {
	ct := 1 / math32.Tan(yfov*0.5)
	*m = M4{
		{ct / aspect},
		{1: ct},
		{2: zfar / (znear - zfar), 3: -1},
		{2: znear * zfar / (znear - zfar)},
	}
}
