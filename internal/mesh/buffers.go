package mesh

import (
	"io"
	"math"

	"github.com/san-kum/glsim/internal/geometry"
)

// Buffers is the indexed, flat layout handed to a renderer.
type Buffers struct {
	Positions []float32
	Normals   []float32
	Indices   []uint16
}

// Buffers flattens the mesh. WebGL1 element arrays are 16 bit, so meshes
// with more than 65535 vertices are rejected.
func (m *Mesh) Buffers() (Buffers, error) {
	if len(m.Vertices) > math.MaxUint16 {
		return Buffers{}, ErrIndexOverflow
	}
	b := Buffers{
		Positions: make([]float32, 0, 3*len(m.Vertices)),
		Normals:   make([]float32, 0, 3*len(m.Normals)),
		Indices:   make([]uint16, 0, 3*len(m.Faces)),
	}
	for _, v := range m.Vertices {
		b.Positions = append(b.Positions, v[0], v[1], v[2])
	}
	for _, n := range m.Normals {
		b.Normals = append(b.Normals, n[0], n[1], n[2])
	}
	for _, f := range m.Faces {
		b.Indices = append(b.Indices, uint16(f[0]), uint16(f[1]), uint16(f[2]))
	}
	return b, nil
}

// WriteTo writes positions then normals as little-endian float32 followed
// by the little-endian uint16 indices.
func (b Buffers) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := geometry.WriteFloat32s(cw, b.Positions); err != nil {
		return cw.n, err
	}
	if err := geometry.WriteFloat32s(cw, b.Normals); err != nil {
		return cw.n, err
	}
	if err := geometry.WriteUint16s(cw, b.Indices); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
