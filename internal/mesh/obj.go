// Package mesh loads triangle meshes from the OBJ subset used by the
// teapot viewer and derives smooth per-vertex normals.
package mesh

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is immutable once returned by Parse.
type Mesh struct {
	Vertices []mgl32.Vec3
	Faces    [][3]int // 0-based
	Normals  []mgl32.Vec3
}

type faceRef struct {
	line int
	text string
}

// Parse reads "v x y z" and "f i j k" records. Face tokens may carry
// texture and normal indices ("i/t/n"); only the position index is used.
// Faces with more than three indices are fanned into triangles. Other
// records are ignored.
func Parse(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	var refs []faceRef

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, &ParseError{Line: line, Text: text, Err: err}
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			idx, err := parseFace(fields[1:])
			if err != nil {
				return nil, &ParseError{Line: line, Text: text, Err: err}
			}
			for k := 1; k+1 < len(idx); k++ {
				m.Faces = append(m.Faces, [3]int{idx[0], idx[k], idx[k+1]})
				refs = append(refs, faceRef{line, text})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	// faces may reference vertices declared later in the file
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= n {
				return nil, &ParseError{Line: refs[i].line, Text: refs[i].text, Err: ErrIndexRange}
			}
		}
	}

	m.Normals = ComputeNormals(m.Vertices, m.Faces)
	return m, nil
}

func ParseString(s string) (*Mesh, error) {
	return Parse(strings.NewReader(s))
}

func parseVertex(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(fields) < 3 {
		return v, ErrShortRecord
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return v, ErrBadNumber
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseFace(fields []string) ([]int, error) {
	if len(fields) < 3 {
		return nil, ErrShortRecord
	}
	idx := make([]int, len(fields))
	for i, tok := range fields {
		if slash := strings.IndexByte(tok, '/'); slash >= 0 {
			tok = tok[:slash]
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, ErrBadNumber
		}
		if n <= 0 {
			return nil, ErrIndexRange
		}
		idx[i] = n - 1
	}
	return idx, nil
}

// ComputeNormals accumulates the unnormalized face normal (b-a)x(c-a)
// onto each corner vertex, so larger faces weigh more, then normalizes.
// Vertices touched by no face, or only by degenerate faces, keep a zero
// normal.
func ComputeNormals(vertices []mgl32.Vec3, faces [][3]int) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(vertices))
	for _, f := range faces {
		a, b, c := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range f {
			normals[i] = normals[i].Add(n)
		}
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	return normals
}
