package grid_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glsim/internal/grid"
)

func destinations(g *grid.Grid) map[[2]int]int {
	seen := map[[2]int]int{}
	for i := 0; i < g.Size(); i++ {
		for j := 0; j < g.Size(); j++ {
			if g.Occupied(i, j) {
				di, dj := g.Destination(i, j)
				seen[[2]int{di, dj}]++
			}
		}
	}
	return seen
}

var _ = Describe("Grid", func() {
	Describe("Advance", func() {
		It("conserves the population and never doubles up a destination", func() {
			g := grid.New(10, rand.New(rand.NewSource(3)))
			g.Fill(0.5)
			population := g.Count()
			Expect(population).To(BeNumerically(">", 0))

			for step := 0; step < 500; step++ {
				g.Advance()
				Expect(g.Count()).To(Equal(population))
				Expect(g.PendingCount()).To(Equal(population))

				seen := destinations(g)
				Expect(seen).To(HaveLen(population))
				for dst, n := range seen {
					Expect(n).To(Equal(1))
					Expect(dst[0]).To(BeNumerically(">=", 0))
					Expect(dst[0]).To(BeNumerically("<", g.Size()))
					Expect(dst[1]).To(BeNumerically(">=", 0))
					Expect(dst[1]).To(BeNumerically("<", g.Size()))
					Expect(g.Pending(dst[0], dst[1])).To(BeTrue())
				}
			}
			Expect(g.Steps()).To(Equal(500))
		})

		It("keeps surrounded circles in place", func() {
			g := grid.New(3, rand.New(rand.NewSource(1)))
			g.Fill(1)
			g.Advance()
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					Expect(g.Direction(i, j)).To(Equal(grid.None))
				}
			}
			Expect(g.Moves()).To(BeZero())
		})

		It("never leaves the grid", func() {
			g := grid.New(1, rand.New(rand.NewSource(1)))
			g.Set(0, 0, true)
			g.Advance()
			Expect(g.Direction(0, 0)).To(Equal(grid.None))
			Expect(g.Pending(0, 0)).To(BeTrue())
		})

		It("moves both circles of a 2x2 diagonal to distinct cells", func() {
			for seed := int64(0); seed < 20; seed++ {
				g := grid.New(2, rand.New(rand.NewSource(seed)))
				g.Set(0, 0, true)
				g.Set(1, 1, true)
				g.Advance()

				Expect(g.Direction(0, 0)).To(BeElementOf(grid.Up, grid.Right))
				Expect(g.Direction(1, 1)).To(BeElementOf(grid.Down, grid.Left))
				a0, a1 := g.Destination(0, 0)
				b0, b1 := g.Destination(1, 1)
				Expect([2]int{a0, a1}).NotTo(Equal([2]int{b0, b1}))
				Expect(g.Moves()).To(Equal(2))
				Expect(g.Pending(0, 0)).To(BeFalse())
				Expect(g.Pending(1, 1)).To(BeFalse())
			}
		})

		It("commits the pending layout on the next step", func() {
			g := grid.New(2, rand.New(rand.NewSource(5)))
			g.Set(0, 0, true)
			g.Advance()
			i, j := g.Destination(0, 0)
			g.Advance()
			Expect(g.Occupied(i, j)).To(BeTrue())
			Expect(g.Occupied(0, 0)).To(BeFalse())
		})
	})

	Describe("Fill", func() {
		It("empties or fills the grid at the extremes", func() {
			g := grid.New(4, nil)
			g.Fill(0)
			Expect(g.Count()).To(BeZero())
			g.Fill(1)
			Expect(g.Count()).To(Equal(16))
		})
	})

	Describe("Set", func() {
		It("ignores cells outside the grid", func() {
			g := grid.New(2, nil)
			g.Set(-1, 0, true)
			g.Set(2, 2, true)
			Expect(g.Count()).To(BeZero())
			Expect(g.Occupied(5, 5)).To(BeFalse())
		})
	})

	It("renders with j increasing upwards", func() {
		g := grid.New(2, nil)
		g.Set(0, 1, true)
		Expect(g.String()).To(Equal("o.\n..\n"))
	})
})
