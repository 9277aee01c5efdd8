package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/glsim/internal/grid"
	"github.com/san-kum/glsim/internal/physics"
)

func TestSpheresSVG(t *testing.T) {
	eng := physics.New(nil)
	eng.Add(physics.Sphere{Position: mgl64.Vec3{0, 0, 0.5}, Radius: 0.1, Color: mgl64.Vec3{1, 0, 0}})
	eng.Add(physics.Sphere{Position: mgl64.Vec3{0.5, 0.5, -0.5}, Radius: 0.2, Color: mgl64.Vec3{0, 0, 1}})

	var buf bytes.Buffer
	if err := SpheresSVG(&buf, eng.Snapshot(), 200); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	svg := buf.String()
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 circles, got %q", svg)
	}
	if !strings.Contains(svg, `<circle cx="100.0" cy="100.0" r="10.0" fill="#ff0000"/>`) {
		t.Errorf("expected red sphere at center, got %q", svg)
	}
	// the far blue sphere is drawn first
	if strings.Index(svg, "#0000ff") > strings.Index(svg, "#ff0000") {
		t.Error("expected far spheres before near ones")
	}
}

func TestGridSVG(t *testing.T) {
	g := grid.New(2, nil)
	g.Set(0, 0, true)
	g.Set(1, 1, true)
	anim := &grid.Animator{Grid: g, Rate: grid.DefaultRate}

	var buf bytes.Buffer
	if err := GridSVG(&buf, anim, 100); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	svg := buf.String()
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 circles, got %q", svg)
	}
	if !strings.Contains(svg, `cx="25.0" cy="75.0" r="12.5"`) {
		t.Errorf("expected circle in the lower left cell, got %q", svg)
	}
}

func TestSeriesSVG(t *testing.T) {
	if SeriesSVG([]float64{0}, []float64{1}, 100, 50, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
	svg := SeriesSVG([]float64{0, 1, 2}, []float64{3, 2, 1}, 100, 50, "#00ff88")
	if !strings.Contains(svg, `d="M0.0,`) || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected path %q", svg)
	}
}
