// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Rotate sets q to contain a rotation of angle
// radians about axis.
// axis must be a unit vector.
func (q *Q) Rotate(angle float32, axis *V3) {
	s, c := math32.Sincos(angle * 0.5)
	q.V.Scale(s, axis)
	q.R = c
}

// Euler returns the XYZ Euler angles (in radians)
// that describe the same rotation as q.
// q must be a unit quaternion.
func (q *Q) Euler() V3 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	// Matrix elements needed for the XYZ decomposition.
	m11 := 1 - 2*(y*y+z*z)
	m12 := 2 * (x*y - z*w)
	m13 := 2 * (x*z + y*w)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - x*w)
	m32 := 2 * (y*z + x*w)
	m33 := 1 - 2*(x*x+y*y)
	var e V3
	e[1] = math32.Asin(max(-1, min(1, m13)))
	if math32.Abs(m13) < 0.9999999 {
		e[0] = math32.Atan2(-m23, m33)
		e[2] = math32.Atan2(-m12, m11)
	} else {
		e[0] = math32.Atan2(m32, m22)
		e[2] = 0
	}
	return e
}
