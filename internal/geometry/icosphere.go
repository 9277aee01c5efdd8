// Package geometry generates procedural vertex data: the subdivided
// tetrahedron sphere used for every rendered ball and the flat 2D shapes
// of the grid demo. Output is flat float32 arrays, 3 components per vertex,
// ready to upload as non-indexed triangle lists.
package geometry

import "github.com/go-gl/mathgl/mgl32"

// DefaultDepth is the subdivision depth used for rendered spheres.
const DefaultDepth = 5

// Sphere is a non-indexed unit sphere triangle list. Normals equal
// positions since every vertex lies on the unit sphere.
type Sphere struct {
	Vertices  []float32
	Normals   []float32
	Triangles int
}

var (
	seedA = mgl32.Vec3{0.0, 0.0, -1.0}
	seedB = mgl32.Vec3{0.0, 0.942809, 0.333333}
	seedC = mgl32.Vec3{-0.816497, -0.471405, 0.333333}
	seedD = mgl32.Vec3{0.816497, -0.471405, 0.333333}
)

// MaxDepth bounds configured subdivision depth. Depth 8 already emits
// over a million triangles and counts overflow int well before depth 30.
const MaxDepth = 8

// SphereTriangleCount returns 4^(depth+1).
func SphereTriangleCount(depth int) int {
	if depth < 0 {
		depth = 0
	}
	return 4 << (2 * uint(depth))
}

// SphereVertexCount returns the number of vertices GenerateSphere emits.
func SphereVertexCount(depth int) int {
	return 3 * SphereTriangleCount(depth)
}

// GenerateSphere subdivides a regular tetrahedron depth times, pushing
// every new midpoint onto the unit sphere. Negative depth is treated as 0.
func GenerateSphere(depth int) Sphere {
	if depth < 0 {
		depth = 0
	}
	n := SphereVertexCount(depth)
	s := Sphere{
		Vertices: make([]float32, 0, 3*n),
		Normals:  make([]float32, 0, 3*n),
	}
	s.divide(seedA, seedB, seedC, depth)
	s.divide(seedD, seedC, seedB, depth)
	s.divide(seedA, seedD, seedB, depth)
	s.divide(seedA, seedC, seedD, depth)
	return s
}

func (s *Sphere) divide(a, b, c mgl32.Vec3, depth int) {
	if depth == 0 {
		s.emit(a)
		s.emit(b)
		s.emit(c)
		s.Triangles++
		return
	}
	ab := midpoint(a, b)
	ac := midpoint(a, c)
	bc := midpoint(b, c)
	s.divide(a, ab, ac, depth-1)
	s.divide(ab, b, bc, depth-1)
	s.divide(bc, c, ac, depth-1)
	s.divide(ab, bc, ac, depth-1)
}

func (s *Sphere) emit(v mgl32.Vec3) {
	s.Vertices = append(s.Vertices, v[0], v[1], v[2])
	s.Normals = append(s.Normals, v[0], v[1], v[2])
}

func midpoint(a, b mgl32.Vec3) mgl32.Vec3 {
	return a.Add(b).Mul(0.5).Normalize()
}
