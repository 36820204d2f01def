// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk header.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

// Document is a decoded asset together with the
// contents of its binary chunk, if any.
type Document struct {
	*GLTF
	Bin []byte
}

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != 2:
		return false
	default:
		return true
	}
}

// Load decodes either a GLB blob or a glTF JSON
// document from r. External buffers are not fetched;
// only the GLB binary chunk is made available.
func Load(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil {
		return nil, newErr("empty asset")
	}
	if binary.LittleEndian.Uint32(head) != magic {
		f, err := Decode(br)
		if err != nil {
			return nil, err
		}
		return &Document{GLTF: f}, nil
	}
	return readGLB(br)
}

func readGLB(r io.Reader) (*Document, error) {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	if err != nil || h[headerMagic] != magic || h[headerVersion] != 2 {
		return nil, newErr("not a GLB blob")
	}
	// Chunks must fit within the length stated
	// in the header.
	rem := int64(h[headerLength]) - 12
	js, typ, err := readChunk(r, &rem)
	switch {
	case err != nil:
		return nil, err
	case typ != typeJSON || len(js) == 0:
		return nil, newErr("invalid GLB chunk")
	}
	f, err := Decode(bytes.NewReader(js))
	if err != nil {
		return nil, err
	}
	doc := &Document{GLTF: f}
	if rem == 0 {
		return doc, nil
	}
	bin, typ, err := readChunk(r, &rem)
	switch {
	case err == io.EOF:
	case err != nil:
		return nil, err
	case typ == typeBIN:
		doc.Bin = bin
	}
	return doc, nil
}

func readChunk(r io.Reader, rem *int64) ([]byte, uint32, error) {
	var c glbChunk
	if err := binary.Read(r, binary.LittleEndian, c[:]); err != nil {
		if err == io.EOF {
			return nil, 0, err
		}
		return nil, 0, newErr("truncated GLB chunk")
	}
	n := int64(c[chunkLength])
	if *rem -= 8 + n; *rem < 0 {
		return nil, 0, newErr("GLB chunk exceeds blob length")
	}
	// Read through a limit so the allocation follows
	// the data actually present.
	b, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil || int64(len(b)) != n {
		return nil, 0, newErr("truncated GLB chunk")
	}
	return b, c[chunkType], nil
}

// WriteGLB encodes gltf and bin as a GLB blob into w.
// bin may be empty, in which case no binary chunk is
// written.
func WriteGLB(w io.Writer, gltf *GLTF, bin []byte) error {
	var js bytes.Buffer
	if err := Encode(&js, gltf); err != nil {
		return err
	}
	pad := func(b []byte, c byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, c)
		}
		return b
	}
	jb := pad(js.Bytes(), ' ')
	bb := pad(append([]byte(nil), bin...), 0)
	n := 12 + 8 + len(jb)
	if len(bb) > 0 {
		n += 8 + len(bb)
	}
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, glbHeader{magic, 2, uint32(n)})
	binary.Write(&out, binary.LittleEndian, glbChunk{uint32(len(jb)), typeJSON})
	out.Write(jb)
	if len(bb) > 0 {
		binary.Write(&out, binary.LittleEndian, glbChunk{uint32(len(bb)), typeBIN})
		out.Write(bb)
	}
	_, err := w.Write(out.Bytes())
	return err
}
