package geometry

import (
	"math"

	"github.com/chewxy/math32"
)

// CircleSections is the fan resolution of the grid demo circles.
const CircleSections = 16

// BlockIFill insets the filled block I inside its outline.
const BlockIFill = 0.05309734513 * 2

// BlockIVertexCount is the vertex count of BlockI.
const BlockIVertexCount = 30

const (
	blockIHeightRatio = 226.0 / 327.0
	blockIMidWidth    = 0.5575221239
	blockIMidHeight   = 0.4556574924
)

// Circle returns a triangle fan of sections triangles around the origin,
// each emitted as (center, rim i, rim i+1) with z = 0.
func Circle(sections int) []float32 {
	if sections < 0 {
		sections = 0
	}
	verts := make([]float32, 0, 9*sections)
	step := 2 * math32.Pi / float32(sections)
	for i := 0; i < sections; i++ {
		a0 := float32(i) * step
		a1 := float32(i+1) * step
		verts = append(verts,
			0, 0, 0,
			math32.Cos(a0), math32.Sin(a0), 0,
			math32.Cos(a1), math32.Sin(a1), 0,
		)
	}
	return verts
}

// BlockI returns the ten triangles of the block I. border insets every
// edge (0 for the outline, BlockIFill for the fill). The x coordinate is
// squashed to the letter's aspect ratio and then swayed by
// sin(y+time)*intensity.
func BlockI(border, time, intensity float32) []float32 {
	bx := border
	by := border * blockIHeightRatio
	mw := float32(blockIMidWidth)
	mh := float32(blockIMidHeight)

	left, right := -1+bx, 1-bx
	top, bottom := 1-by, -1+by
	innerL, innerR := -mw+bx, mw-bx
	upper, lower := mh+by, -mh-by

	verts := []float32{
		// top bar
		left, top, 0, left, upper, 0, innerL, upper, 0,
		left, top, 0, innerL, upper, 0, right, top, 0,
		innerL, upper, 0, innerR, upper, 0, right, top, 0,
		right, top, 0, right, upper, 0, innerR, upper, 0,
		// stem
		innerL, upper, 0, innerL, lower, 0, innerR, lower, 0,
		innerL, upper, 0, innerR, upper, 0, innerR, lower, 0,
		// bottom bar
		left, bottom, 0, left, lower, 0, innerL, lower, 0,
		left, bottom, 0, innerL, lower, 0, right, bottom, 0,
		innerL, lower, 0, innerR, lower, 0, right, bottom, 0,
		right, bottom, 0, right, lower, 0, innerR, lower, 0,
	}
	for i := 0; i < len(verts); i += 3 {
		verts[i] *= blockIHeightRatio
		verts[i] += math32.Sin(verts[i+1]+time) * intensity
	}
	return verts
}

// Ease is the grid demo easing curve clamp(t,0,1)^1.5.
func Ease(t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return math.Pow(t, 1.5)
}

// Lerp eases between a and b.
func Lerp(a, b, t float64) float64 {
	e := Ease(t)
	return b*e + a*(1-e)
}
