package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCollideWalls(t *testing.T) {
	tests := []struct {
		name    string
		pos     mgl64.Vec3
		vel     mgl64.Vec3
		wantPos mgl64.Vec3
		wantVel mgl64.Vec3
	}{
		{"inside", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}},
		{"floor fast", mgl64.Vec3{0, -0.95, 0}, mgl64.Vec3{0, -2, 0}, mgl64.Vec3{0, -0.9, 0}, mgl64.Vec3{0, 1.4, 0}},
		{"floor slow", mgl64.Vec3{0, -0.95, 0}, mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{0, -0.9, 0}, mgl64.Vec3{0, 0, 0}},
		{"ceiling", mgl64.Vec3{0, 0.95, 0}, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0.9, 0}, mgl64.Vec3{0, -2, 0}},
		{"ceiling look-ahead", mgl64.Vec3{0, 0.85, 0}, mgl64.Vec3{0, 9, 0}, mgl64.Vec3{0, 0.9, 0}, mgl64.Vec3{0, -9, 0}},
		{"+x", mgl64.Vec3{0.95, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0.9, 0, 0}, mgl64.Vec3{-2, 0, 0}},
		{"-x", mgl64.Vec3{-0.95, 0, 0}, mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{-0.9, 0, 0}, mgl64.Vec3{2, 0, 0}},
		{"+z", mgl64.Vec3{0, 0, 0.95}, mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{0, 0, 0.9}, mgl64.Vec3{0, 0, -0.5}},
		{"-z", mgl64.Vec3{0, 0, -0.95}, mgl64.Vec3{0, 0, -0.5}, mgl64.Vec3{0, 0, -0.9}, mgl64.Vec3{0, 0, 0.5}},
		{"corner", mgl64.Vec3{0.95, 0.95, -0.95}, mgl64.Vec3{1, 1, -1}, mgl64.Vec3{0.9, 0.9, -0.9}, mgl64.Vec3{-1, -1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil)
			s := Sphere{Position: tt.pos, Velocity: tt.vel, Radius: 0.1}
			e.collide(&s)
			if !s.Position.ApproxEqualThreshold(tt.wantPos, 1e-12) {
				t.Errorf("expected position %v, got %v", tt.wantPos, s.Position)
			}
			if !s.Velocity.ApproxEqualThreshold(tt.wantVel, 1e-12) {
				t.Errorf("expected velocity %v, got %v", tt.wantVel, s.Velocity)
			}
		})
	}
}

func TestFloorRestitutionOnlyOnFloor(t *testing.T) {
	e := New(nil)
	e.Params.Restitution = 0.5

	floor := Sphere{Position: mgl64.Vec3{0, -0.95, 0}, Velocity: mgl64.Vec3{0, -4, 0}, Radius: 0.1}
	e.collide(&floor)
	if math.Abs(floor.Velocity[1]-2) > 1e-12 {
		t.Errorf("expected floor rebound 2, got %f", floor.Velocity[1])
	}

	ceiling := Sphere{Position: mgl64.Vec3{0, 0.95, 0}, Velocity: mgl64.Vec3{0, 4, 0}, Radius: 0.1}
	e.collide(&ceiling)
	if math.Abs(ceiling.Velocity[1]+4) > 1e-12 {
		t.Errorf("expected elastic ceiling rebound -4, got %f", ceiling.Velocity[1])
	}
}

func TestSphereResting(t *testing.T) {
	tests := []struct {
		name string
		s    Sphere
		want bool
	}{
		{"on floor", Sphere{Position: mgl64.Vec3{0, -0.9, 0}, Radius: 0.1}, true},
		{"moving", Sphere{Position: mgl64.Vec3{0, -0.9, 0}, Velocity: mgl64.Vec3{0, 0.1, 0}, Radius: 0.1}, false},
		{"floating", Sphere{Position: mgl64.Vec3{0, 0.5, 0}, Radius: 0.1}, false},
	}
	for _, tt := range tests {
		if got := tt.s.Resting(); got != tt.want {
			t.Errorf("%s: Resting() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSphereOvershoot(t *testing.T) {
	s := Sphere{Position: mgl64.Vec3{0.5, -0.95, 0}, Radius: 0.1}
	if got := s.Overshoot(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("expected overshoot 0.05, got %f", got)
	}
	s.Position = mgl64.Vec3{}
	if s.Overshoot() > 0 {
		t.Errorf("expected contained sphere, got overshoot %f", s.Overshoot())
	}
}

func TestDrag(t *testing.T) {
	p := DefaultParams()
	perSecond := 1.0
	for i := 0; i < 60; i++ {
		perSecond *= p.Drag()
	}
	if math.Abs(perSecond-p.BaseDrag) > 1e-9 {
		t.Errorf("expected 60 ticks of drag to equal %f, got %f", p.BaseDrag, perSecond)
	}
}
