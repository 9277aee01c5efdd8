package physics_test

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glsim/internal/physics"
)

var _ = Describe("Engine", func() {
	var eng *physics.Engine

	BeforeEach(func() {
		eng = physics.New(rand.New(rand.NewSource(42)))
	})

	Describe("AddSpheres", func() {
		It("is a no-op for zero", func() {
			eng.AddSpheres(0)
			Expect(eng.Len()).To(BeZero())
		})

		It("creates spheres inside their configured ranges", func() {
			eng.AddSpheres(3)
			eng.Clear()
			eng.AddSpheres(250)
			Expect(eng.Len()).To(Equal(250))

			p := eng.Params
			for _, s := range eng.Spheres() {
				Expect(s.Radius).To(BeNumerically(">=", p.MinRadius))
				Expect(s.Radius).To(BeNumerically("<=", p.MaxRadius))
				for a := 0; a < 3; a++ {
					Expect(math.Abs(s.Position[a])).To(BeNumerically("<=", 1-s.Radius))
					Expect(math.Abs(s.Velocity[a])).To(BeNumerically("<=", p.MaxSpeed))
					Expect(s.Color[a]).To(BeNumerically(">=", 0))
					Expect(s.Color[a]).To(BeNumerically("<=", 1))
				}
			}
		})

		It("reproduces the same population for the same seed", func() {
			other := physics.New(rand.New(rand.NewSource(42)))
			eng.AddSpheres(20)
			other.AddSpheres(20)
			Expect(other.Spheres()).To(Equal(eng.Spheres()))
		})
	})

	Describe("Clear", func() {
		It("is idempotent", func() {
			eng.AddSpheres(10)
			eng.Clear()
			eng.Clear()
			Expect(eng.Len()).To(BeZero())
			Expect(eng.Snapshot().Positions).To(BeEmpty())
		})
	})

	Describe("Step", func() {
		It("integrates position before applying gravity and drag", func() {
			eng.Add(physics.Sphere{Velocity: mgl64.Vec3{1, 0, 0}, Radius: 0.1})
			eng.Step()

			p := eng.Params
			drag := math.Pow(p.BaseDrag, p.Dt)
			s := eng.Spheres()[0]
			Expect(s.Position[0]).To(BeNumerically("~", p.Dt, 1e-12))
			Expect(s.Position[1]).To(BeNumerically("~", 0, 1e-12))
			Expect(s.Velocity[0]).To(BeNumerically("~", drag, 1e-12))
			Expect(s.Velocity[1]).To(BeNumerically("~", p.Dt*p.Gravity*drag, 1e-12))
			Expect(eng.Ticks()).To(Equal(1))
		})

		It("ignores the frame duration passed by the host", func() {
			other := physics.New(rand.New(rand.NewSource(42)))
			eng.AddSpheres(5)
			other.AddSpheres(5)
			eng.Frame(0.5)
			other.Frame(0.001)
			Expect(other.Spheres()).To(Equal(eng.Spheres()))
		})

		It("never lets a surface pass a wall by more than one step of travel", func() {
			eng.AddSpheres(100)
			dt := eng.Params.Dt
			for i := 0; i < 2000; i++ {
				eng.Step()
				for _, s := range eng.Spheres() {
					for a := 0; a < 3; a++ {
						Expect(math.Abs(s.Position[a]) + s.Radius).To(
							BeNumerically("<=", 1+dt*math.Abs(s.Velocity[a])+1e-9))
					}
				}
			}
		})

		It("bounds centers by one step of travel past the inset wall for default radii", func() {
			eng = physics.New(rand.New(rand.NewSource(1)))
			eng.AddSpheres(2000)
			dt := eng.Params.Dt
			violations, outside := 0, 0
			worst := 0.0
			for i := 0; i < 1200; i++ {
				eng.Step()
				for _, s := range eng.Spheres() {
					for a := 0; a < 3; a++ {
						p := math.Abs(s.Position[a])
						if p > 1-s.Radius+dt*math.Abs(s.Velocity[a])+1e-9 {
							violations++
						}
						if p > 1 {
							outside++
							worst = math.Max(worst, p-1)
						}
					}
				}
			}
			Expect(violations).To(BeZero())
			// a small fast sphere can end a tick with its center past the wall,
			// but never by more than one step at the maximum speed
			Expect(worst).To(BeNumerically("<=", dt*eng.Params.MaxSpeed*math.Sqrt(3)))
			GinkgoWriter.Printf("centers outside the box: %d, worst %.6f\n", outside, worst)
		})

		It("keeps every center inside the box when the radius exceeds one step of travel", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 50; i++ {
				s := physics.Sphere{Radius: 0.15}
				for a := 0; a < 3; a++ {
					s.Position[a] = rng.Float64()*1.7 - 0.85
					s.Velocity[a] = rng.Float64()*6 - 3
				}
				eng.Add(s)
			}
			for i := 0; i < 2000; i++ {
				eng.Step()
				for _, s := range eng.Spheres() {
					for a := 0; a < 3; a++ {
						Expect(s.Position[a]).To(BeNumerically(">=", -1))
						Expect(s.Position[a]).To(BeNumerically("<=", 1))
					}
				}
			}
		})

		It("settles a dropped sphere on the floor", func() {
			eng.Add(physics.Sphere{Position: mgl64.Vec3{0, 0.5, 0}, Radius: 0.1})
			for i := 0; i < 1200; i++ {
				eng.Step()
			}
			for i := 0; i < 30; i++ {
				eng.Step()
				s := eng.Spheres()[0]
				Expect(math.Abs(s.Velocity[1])).To(BeNumerically("<", eng.Params.RestSpeed))
				Expect(s.Position[1]).To(BeNumerically("~", -1+s.Radius, 0.01))
			}
		})

		It("keeps horizontal speed on elastic walls apart from drag", func() {
			eng.Add(physics.Sphere{Position: mgl64.Vec3{0.85, 0, 0}, Velocity: mgl64.Vec3{2, 0, 0}, Radius: 0.1})
			eng.Step()
			s := eng.Spheres()[0]
			Expect(s.Velocity[0]).To(BeNumerically("~", -2*eng.Params.Drag(), 1e-12))
			Expect(s.Position[0]).To(BeNumerically("~", 0.9, 1e-12))
		})
	})

	Describe("Snapshot", func() {
		It("exposes parallel arrays sized by the sphere count", func() {
			eng.AddSpheres(7)
			snap := eng.Snapshot()
			Expect(snap.Count).To(Equal(7))
			Expect(snap.Positions).To(HaveLen(21))
			Expect(snap.Radii).To(HaveLen(7))
			Expect(snap.Colors).To(HaveLen(21))
		})

		It("is a copy the caller cannot use to mutate the engine", func() {
			eng.AddSpheres(1)
			snap := eng.Snapshot()
			snap.Positions[0] = 99
			Expect(eng.Spheres()[0].Position[0]).NotTo(Equal(99.0))
		})
	})

	Describe("energy", func() {
		It("uses unit mass and the floor as the potential reference", func() {
			eng.Add(physics.Sphere{Velocity: mgl64.Vec3{1, 2, 2}, Radius: 0.1})
			Expect(eng.KineticEnergy()).To(BeNumerically("~", 4.5, 1e-12))
			Expect(eng.PotentialEnergy()).To(BeNumerically("~", 5, 1e-12))
		})
	})
})
