package physics

import "math"

const (
	axisX = 0
	axisY = 1
	axisZ = 2
)

// Walls are tested floor first, then ceiling, then x and z.
var wallOrder = [3]int{axisY, axisX, axisZ}

// collide resolves the six wall half-spaces for one sphere. The test looks
// one step along the already updated velocity; on a hit the component is
// reflected and the sphere is snapped onto the wall. Each axis is handled
// once per tick; lingering violations are picked up on the next tick.
func (e *Engine) collide(s *Sphere) {
	dt := e.Params.Dt
	r := s.Radius
	for _, a := range wallOrder {
		if s.Position[a]-r-dt*s.Velocity[a] < -1.0 {
			if a == axisY {
				e.bounceFloor(s)
			} else {
				s.Velocity[a] *= -1
			}
			s.Position[a] = -1.0 + r
		}
		if s.Position[a]+r+dt*s.Velocity[a] > 1.0 {
			s.Velocity[a] *= -1
			s.Position[a] = 1.0 - r
		}
	}
}

// bounceFloor is the only lossy wall: slow impacts come to rest and the
// rebound keeps Restitution of the speed.
func (e *Engine) bounceFloor(s *Sphere) {
	if math.Abs(s.Velocity[axisY]) < e.Params.RestSpeed {
		s.Velocity[axisY] = 0
	}
	s.Velocity[axisY] *= -1
	s.Velocity[axisY] *= e.Params.Restitution
}

// Resting reports whether the sphere sits on the floor with no vertical motion.
func (s Sphere) Resting() bool {
	return s.Velocity[axisY] == 0 && s.Position[axisY] <= -1.0+s.Radius
}

// Overshoot returns how far the sphere surface extends past the box on
// its worst axis. Zero or negative means fully contained.
func (s Sphere) Overshoot() float64 {
	worst := math.Inf(-1)
	for a := 0; a < 3; a++ {
		if d := math.Abs(s.Position[a]) + s.Radius - 1.0; d > worst {
			worst = d
		}
	}
	return worst
}
