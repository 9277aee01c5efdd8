package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit is a camera circling the origin in the xz plane, looking at the
// center of the box with y up.
type Orbit struct {
	Angle    float64
	Distance float64
	Focal    float64 // 1/tan(fov/2)
}

func NewOrbit() Orbit {
	return Orbit{
		Angle:    math.Pi / 2,
		Distance: 4,
		Focal:    1 / math.Tan(mgl64.DegToRad(45)/2),
	}
}

func (o Orbit) Eye() mgl64.Vec3 {
	return mgl64.Vec3{o.Distance * math.Cos(o.Angle), 0, o.Distance * math.Sin(o.Angle)}
}

// Project maps a world point to normalized screen coordinates in roughly
// [-1,1] and returns its distance along the view direction.
func (o Orbit) Project(p mgl64.Vec3) (sx, sy, depth float64) {
	right := mgl64.Vec3{math.Sin(o.Angle), 0, -math.Cos(o.Angle)}
	back := o.Eye().Normalize()
	depth = o.Distance - p.Dot(back)
	if depth <= 1e-6 {
		depth = 1e-6
	}
	scale := o.Focal / depth
	return p.Dot(right) * scale, p[1] * scale, depth
}

// Rotate turns the camera by rate radians per second for dt seconds.
func (o *Orbit) Rotate(rate, dt float64) {
	o.Angle += rate * dt
}
