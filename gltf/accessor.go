// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/binary"
	"math"

	"github.com/gviegas/backdrop/linear"
)

// MaxZeroCount is the largest count accepted for
// accessors that have no buffer view.
const MaxZeroCount = 1 << 20

// Positions reads the FLOAT VEC3 elements of accessor
// idx from the document's binary chunk.
// Accessors without a buffer view read as zeros.
// The accessor must fit within both its buffer view
// and the binary chunk.
func (d *Document) Positions(idx int) ([]linear.V3, error) {
	if idx < 0 || idx >= len(d.Accessors) {
		return nil, newErr("invalid accessor index")
	}
	a := &d.Accessors[idx]
	if a.ComponentType != FLOAT || a.Type != VEC3 {
		return nil, newErr("positions must be FLOAT VEC3")
	}
	if a.Count < 1 {
		return nil, newErr("invalid accessor count")
	}
	if a.BufferView == nil {
		if a.Count > MaxZeroCount {
			return nil, newErr("accessor count too large")
		}
		return make([]linear.V3, a.Count), nil
	}
	v := &d.BufferViews[*a.BufferView]
	if v.Buffer != 0 || d.Buffers[0].URI != "" {
		return nil, newErr("external buffers are not supported")
	}
	stride := v.ByteStride
	if stride == 0 {
		stride = 12
	}
	off := v.ByteOffset + a.ByteOffset
	lim := min(v.ByteOffset+v.ByteLength, int64(len(d.Bin)))
	// Count is checked by division so that a huge
	// count cannot overflow the end offset.
	if stride < 12 || off < 0 || off+12 > lim || (lim-off-12)/stride < a.Count-1 {
		return nil, newErr("accessor out of bounds")
	}
	vs := make([]linear.V3, a.Count)
	for i := range vs {
		p := d.Bin[off+int64(i)*stride:]
		for j := range vs[i] {
			vs[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*j:]))
		}
	}
	return vs, nil
}
