package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/glsim/internal/config"
	"github.com/san-kum/glsim/internal/sim"
)

func TestListDemos(t *testing.T) {
	names := NewRegistry().ListDemos()
	if len(names) != 2 || names[0] != "grid" || names[1] != "spheres" {
		t.Errorf("expected [grid spheres], got %v", names)
	}
}

func TestUnknownDemo(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Demo = "teapot"
	if _, err := New(NewRegistry(), cfg); !errors.Is(err, ErrUnknownDemo) {
		t.Errorf("expected ErrUnknownDemo, got %v", err)
	}
}

func TestSpheresExperiment(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Frames = 120
	exp, err := New(NewRegistry(), cfg)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if exp.Instance().Engine == nil || exp.Instance().Engine.Len() != 100 {
		t.Fatal("expected 100 spheres")
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Frames != 120 {
		t.Errorf("expected 120 frames, got %d", result.Frames)
	}
	for _, name := range []string{"energy", "containment", "resting"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
	if exp.Instance().Engine.Ticks() != 120 {
		t.Errorf("expected one physics tick per frame, got %d", exp.Instance().Engine.Ticks())
	}
}

func TestGridExperiment(t *testing.T) {
	cfg := config.GetPreset("grid", "fast")
	cfg.Frames = 600
	exp, err := New(NewRegistry(), cfg)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	pop := result.Series["population"]
	for i, v := range pop {
		if v != pop[0] {
			t.Fatalf("population changed at sample %d: %f != %f", i, v, pop[0])
		}
	}
	// rate 2 completes a step every half second
	if steps := exp.Instance().Animator.Grid.Steps(); steps < 19 {
		t.Errorf("expected at least 19 steps in 10s, got %d", steps)
	}
}

func TestSeedReproducible(t *testing.T) {
	run := func() float64 {
		cfg := config.DefaultConfig()
		cfg.Frames = 60
		cfg.Seed = 99
		exp, err := New(NewRegistry(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		result, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return result.Metrics["energy"]
	}
	if a, b := run(), run(); a != b {
		t.Errorf("expected identical energy for the same seed, got %f and %f", a, b)
	}
}

func TestEnsembleFactory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Spheres.Count = 10
	ens := sim.NewEnsemble(Factory(NewRegistry(), cfg), 3, 1)
	results, err := ens.Run(context.Background(), sim.Config{Dt: cfg.FrameDt, Frames: 30})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Metrics["energy"] == results[1].Metrics["energy"] {
		t.Error("expected different seeds to produce different runs")
	}
	if cfg.Seed != 1 {
		t.Error("factory must not modify the shared config")
	}
}
