// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gltf implements decoding of glTF 2.0 assets.
//
// Only the parts of the format needed to place static
// meshes are modeled: scenes, nodes, meshes, materials
// and the accessors/buffers that hold vertex positions.
// Unknown properties are ignored.
package gltf

import (
	"encoding/json"
	"io"
)

// Root glTF object.
type GLTF struct {
	ExtensionsUsed []string     `json:"extensionsUsed,omitempty"`
	Accessors      []Accessor   `json:"accessors,omitempty"`
	Asset          Asset        `json:"asset"`
	Buffers        []Buffer     `json:"buffers,omitempty"`
	BufferViews    []BufferView `json:"bufferViews,omitempty"`
	Materials      []Material   `json:"materials,omitempty"`
	Meshes         []Mesh       `json:"meshes,omitempty"`
	Nodes          []Node       `json:"nodes,omitempty"`
	Scene          *int64       `json:"scene,omitempty"`
	Scenes         []Scene      `json:"scenes,omitempty"`
}

// glTF.asset.
type Asset struct {
	Copyright  string `json:"copyright,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
}

// glTF.accessors' element.
type Accessor struct {
	BufferView    *int64    `json:"bufferView,omitempty"`
	ByteOffset    int64     `json:"byteOffset,omitempty"` // Default is 0.
	ComponentType int64     `json:"componentType"`
	Normalized    bool      `json:"normalized,omitempty"`
	Count         int64     `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
	Name          string    `json:"name,omitempty"`
}

// accessor.componentType values.
const (
	BYTE           = 5120
	UNSIGNED_BYTE  = 5121
	SHORT          = 5122
	UNSIGNED_SHORT = 5123
	UNSIGNED_INT   = 5125
	FLOAT          = 5126
)

// accessor.type values.
const (
	SCALAR = "SCALAR"
	VEC2   = "VEC2"
	VEC3   = "VEC3"
	VEC4   = "VEC4"
	MAT2   = "MAT2"
	MAT3   = "MAT3"
	MAT4   = "MAT4"
)

// glTF.buffers' element.
// A buffer without URI refers to the GLB binary chunk.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int64  `json:"byteLength"`
	Name       string `json:"name,omitempty"`
}

// glTF.bufferViews' element.
type BufferView struct {
	Buffer     int64  `json:"buffer"`
	ByteOffset int64  `json:"byteOffset,omitempty"` // Default is 0.
	ByteLength int64  `json:"byteLength"`
	ByteStride int64  `json:"byteStride,omitempty"` // 0 for tightly packed.
	Target     int64  `json:"target,omitempty"`     // 0 for no hint.
	Name       string `json:"name,omitempty"`
}

// glTF.materials' element.
type Material struct {
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	EmissiveFactor       *[3]float32           `json:"emissiveFactor,omitempty"` // Default is [0, 0, 0].
	AlphaMode            string                `json:"alphaMode,omitempty"`      // Default is "OPAQUE".
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Name                 string                `json:"name,omitempty"`
}

// material.pbrMetallicRoughness.
type PBRMetallicRoughness struct {
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"` // Default is [1, 1, 1, 1].
	MetallicFactor  *float32    `json:"metallicFactor,omitempty"`  // Default is 1.
	RoughnessFactor *float32    `json:"roughnessFactor,omitempty"` // Default is 1.
}

// glTF.meshes' element.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Name       string      `json:"name,omitempty"`
}

// mesh.primitives' element.
type Primitive struct {
	Attributes map[string]int64 `json:"attributes"`
	Indices    *int64           `json:"indices,omitempty"`
	Material   *int64           `json:"material,omitempty"`
	Mode       *int64           `json:"mode,omitempty"` // Default is 4.
}

// glTF.nodes' element.
type Node struct {
	Children    []int64     `json:"children,omitempty"`
	Mesh        *int64      `json:"mesh,omitempty"`
	Rotation    *[4]float32 `json:"rotation,omitempty"`    // Default is [0, 0, 0, 1].
	Scale       *[3]float32 `json:"scale,omitempty"`       // Default is [1, 1, 1].
	Translation *[3]float32 `json:"translation,omitempty"` // Default is [0, 0, 0].
	Name        string      `json:"name,omitempty"`
}

// glTF.scenes' element.
type Scene struct {
	Nodes []int64 `json:"nodes,omitempty"`
	Name  string  `json:"name,omitempty"`
}

// Encode encodes gltf into w.
func Encode(w io.Writer, gltf *GLTF) error {
	return json.NewEncoder(w).Encode(gltf)
}

// Decode decodes r into a new GLTF instance.
func Decode(r io.Reader) (*GLTF, error) {
	var gltf GLTF
	if err := json.NewDecoder(r).Decode(&gltf); err != nil {
		return nil, newErr("decode: " + err.Error())
	}
	return &gltf, nil
}

// SceneIndex returns the index of the scene to be
// displayed, or -1 if f has no scenes.
func (f *GLTF) SceneIndex() int {
	switch {
	case f.Scene != nil:
		return int(*f.Scene)
	case len(f.Scenes) > 0:
		return 0
	}
	return -1
}
