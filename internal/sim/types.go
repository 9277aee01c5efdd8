package sim

import "fmt"

// Demo is anything advanced once per rendered frame.
type Demo interface {
	Frame(dt float64)
}

type Metric interface {
	Name() string
	Observe(t float64)
	Value() float64
	Reset()
}

// Sampler is implemented by metrics whose plotted series should follow
// an instantaneous reading rather than the aggregate Value.
type Sampler interface {
	Current() float64
}

type Observer interface {
	OnFrame(frame int, t float64)
}

type Config struct {
	Dt          float64
	Frames      int
	SampleEvery int // series sampling stride in frames, 0 means every frame
}

type Result struct {
	Frames  int
	Times   []float64
	Metrics map[string]float64
	Series  map[string][]float64
}

type SimError struct {
	Frame   int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}
