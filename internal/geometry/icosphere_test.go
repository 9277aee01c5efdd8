package geometry

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func TestSphereCounts(t *testing.T) {
	for depth := 0; depth <= 4; depth++ {
		s := GenerateSphere(depth)
		tri := 1
		for i := 0; i <= depth; i++ {
			tri *= 4
		}
		assert.Equal(t, tri, s.Triangles, "depth %d", depth)
		assert.Equal(t, 3*tri, SphereVertexCount(depth))
		assert.Len(t, s.Vertices, 9*tri)
		assert.Len(t, s.Normals, 9*tri)
	}
	assert.Equal(t, 12288, SphereVertexCount(DefaultDepth))
}

func TestSphereDepthZero(t *testing.T) {
	s := GenerateSphere(0)
	want := []float32{
		0, 0, -1, 0, 0.942809, 0.333333, -0.816497, -0.471405, 0.333333,
		0.816497, -0.471405, 0.333333, -0.816497, -0.471405, 0.333333, 0, 0.942809, 0.333333,
		0, 0, -1, 0.816497, -0.471405, 0.333333, 0, 0.942809, 0.333333,
		0, 0, -1, -0.816497, -0.471405, 0.333333, 0.816497, -0.471405, 0.333333,
	}
	assert.Equal(t, want, s.Vertices)
	assert.Equal(t, want, s.Normals)
}

func TestSphereNegativeDepth(t *testing.T) {
	assert.Equal(t, GenerateSphere(0), GenerateSphere(-3))
	assert.Equal(t, 12, SphereVertexCount(-1))
}

func TestSphereUnitLength(t *testing.T) {
	s := GenerateSphere(3)
	for i := 0; i < len(s.Vertices); i += 3 {
		x, y, z := s.Vertices[i], s.Vertices[i+1], s.Vertices[i+2]
		assert.InDelta(t, 1, math32.Sqrt(x*x+y*y+z*z), tol)
	}
	assert.Equal(t, s.Vertices, s.Normals)
}

func TestSphereDeterministic(t *testing.T) {
	assert.Equal(t, GenerateSphere(4), GenerateSphere(4))
}

func TestSphereFirstSubdivision(t *testing.T) {
	s := GenerateSphere(1)
	// first child is (a, ab, ac) of the seed triangle (a, b, c)
	assert.Equal(t, []float32{0, 0, -1}, s.Vertices[0:3])
	ab := midpoint(seedA, seedB)
	assert.InDelta(t, ab[0], s.Vertices[3], tol)
	assert.InDelta(t, ab[1], s.Vertices[4], tol)
	assert.InDelta(t, ab[2], s.Vertices[5], tol)
}

func TestWriteSphere(t *testing.T) {
	s := GenerateSphere(0)
	var buf bytes.Buffer
	require.NoError(t, WriteSphere(&buf, s))
	require.Equal(t, 2*len(s.Vertices)*4, buf.Len())

	got := make([]float32, 2*len(s.Vertices))
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, got))
	assert.Equal(t, s.Vertices, got[:len(s.Vertices)])
	assert.Equal(t, s.Normals, got[len(s.Vertices):])
}
