package grid

import (
	"math"
	"math/rand"
	"testing"
)

func TestAnimatorStepsEveryTwoSeconds(t *testing.T) {
	g := New(4, rand.New(rand.NewSource(9)))
	g.Fill(0.5)
	a := NewAnimator(g)
	if g.Steps() != 1 {
		t.Fatalf("expected first step scheduled, got %d steps", g.Steps())
	}

	for i := 0; i < 119; i++ {
		a.Frame(1.0 / 60.0)
	}
	if g.Steps() != 1 {
		t.Errorf("expected no advance before 2s, got %d steps", g.Steps())
	}
	a.Frame(1.0 / 30.0)
	if g.Steps() != 2 {
		t.Errorf("expected advance after 2s, got %d steps", g.Steps())
	}
	if a.Progress() != 0 {
		t.Errorf("expected progress reset, got %f", a.Progress())
	}
}

func TestAnimatorPositions(t *testing.T) {
	g := New(2, rand.New(rand.NewSource(2)))
	g.Set(0, 0, true)
	a := NewAnimator(g)

	pts := a.Positions()
	if len(pts) != 1 || pts[0] != (Point{0, 0}) {
		t.Fatalf("expected start at origin, got %v", pts)
	}

	i, j := g.Destination(0, 0)
	a.progress = 0.629960524947 // eases to 0.5
	p := a.Positions()[0]
	if math.Abs(p.X-float64(i)/2) > 1e-9 || math.Abs(p.Y-float64(j)/2) > 1e-9 {
		t.Errorf("expected halfway to (%d,%d), got %v", i, j, p)
	}
}

func TestAnimatorClipSpace(t *testing.T) {
	g := New(4, nil)
	g.Set(3, 0, true)
	g.Set(0, 3, true)
	a := &Animator{Grid: g, Rate: DefaultRate}

	clip := a.ClipPositions()
	want := []float32{-0.75, 0.75, 0.75, -0.75}
	if len(clip) != len(want) {
		t.Fatalf("expected %d coords, got %d", len(want), len(clip))
	}
	for k := range want {
		if math.Abs(float64(clip[k]-want[k])) > 1e-6 {
			t.Errorf("coord %d: expected %f, got %f", k, want[k], clip[k])
		}
	}

	colors := a.Colors()
	if len(colors) != 8 || colors[0] != 0 || colors[1] != 0.75 || colors[2] != 1 || colors[3] != 1 {
		t.Errorf("unexpected colors %v", colors)
	}
	if a.Scale() != 0.125 {
		t.Errorf("expected scale 0.125, got %f", a.Scale())
	}
}
