package dynamo_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

var _ = Describe("Arena", func() {
	var (
		sim *dynamo.Simulator
		cfg dynamo.Config
	)

	newSim := func(bodies ...physics.Body) *dynamo.Simulator {
		s, err := dynamo.New(bodies, nil, cfg)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		cfg = dynamo.DefaultConfig()
	})

	Describe("two bodies in a closed box", func() {
		BeforeEach(func() {
			sim = newSim(
				physics.Body{Pos: physics.V(200, 300), Vel: physics.V(100, 0), Mass: 2, Radius: 20},
				physics.Body{Pos: physics.V(400, 300), Vel: physics.V(-100, 0), Mass: 1, Radius: 10},
			)
		})

		It("builds four borders", func() {
			Expect(sim.Borders()).To(HaveLen(4))
		})

		It("changes momentum only through wall reflections", func() {
			var contacts, wallHits int
			for i := 0; i < 400; i++ {
				pre := sim.Snapshot()
				p0 := physics.TotalMomentum(pre)
				st := sim.Advance()
				post := sim.Bodies()
				p1 := physics.TotalMomentum(post)

				contacts += st.Contacts
				wallHits += st.WallHits
				Expect(p1.Y).To(BeNumerically("~", 0, 1e-9))

				if st.WallHits == 0 {
					Expect(p1.X).To(BeNumerically("~", p0.X, 1e-8), "step %d", i+1)
					continue
				}
				expected := 0.0
				for k := range pre {
					if math.Signbit(pre[k].Vel.X) != math.Signbit(post[k].Vel.X) {
						expected += -2 * pre[k].Mass * pre[k].Vel.X
					}
				}
				Expect(p1.X-p0.X).To(BeNumerically("~", expected, 1e-8), "step %d", i+1)
			}

			Expect(contacts).To(BeNumerically(">=", 1))
			Expect(wallHits).To(BeNumerically(">=", 1))
		})

		It("applies the unequal-mass exchange on first contact", func() {
			for sim.Advance().Contacts == 0 {
				Expect(sim.Steps()).To(BeNumerically("<", 120))
			}
			a, _ := sim.Body(0)
			b, _ := sim.Body(1)
			Expect(a.Vel.X).To(BeNumerically("~", -100.0/3, 1e-9))
			Expect(b.Vel.X).To(BeNumerically("~", 500.0/3, 1e-9))
			Expect(a.Pos.Dist(b.Pos)).To(BeNumerically("~", 30, 1e-9))
			Expect(sim.Time()).To(BeNumerically("~", 0.85, 0.05))
		})

		It("keeps every body inside the box", func() {
			for i := 0; i < 600; i++ {
				sim.Advance()
				for _, b := range sim.Bodies() {
					Expect(b.Pos.X).To(SatisfyAll(
						BeNumerically(">=", physics.BorderThickness/2+b.Radius-1e-9),
						BeNumerically("<=", cfg.Width-physics.BorderThickness/2-b.Radius+1e-9),
					))
				}
			}
		})
	})

	Describe("degenerate overlap", func() {
		stacked := func(seed int64) []physics.Body {
			cfg.Seed = seed
			s := newSim(
				physics.Body{Pos: physics.V(300, 300), Mass: 1, Radius: 10},
				physics.Body{Pos: physics.V(300, 300), Mass: 1, Radius: 10},
			)
			s.Step(0)
			return s.Snapshot()
		}

		It("separates along a reproducible axis", func() {
			first, second := stacked(42), stacked(42)
			Expect(first).To(Equal(second))
			Expect(first[0].Pos.Dist(first[1].Pos)).To(BeNumerically("~", 20, 1e-9))
		})

		It("picks a different axis for a different seed", func() {
			Expect(stacked(1)[0].Pos).NotTo(Equal(stacked(2)[0].Pos))
		})
	})

	Describe("broad phase against pairwise testing", func() {
		It("finds the same contacts on a sparse lattice", func() {
			build := func(naive bool) []physics.Body {
				cfg.Naive = naive
				var bodies []physics.Body
				for i := 0; i < 6; i++ {
					// pairs of bodies, each pair closing on itself
					y := 60 + float64(i)*80
					bodies = append(bodies,
						physics.Body{Pos: physics.V(280, y), Vel: physics.V(30, 0), Mass: 1 + float64(i), Radius: 10},
						physics.Body{Pos: physics.V(320, y), Vel: physics.V(-30, 0), Mass: 2, Radius: 10},
					)
				}
				s := newSim(bodies...)
				result, err := s.Run(context.Background(), 90)
				Expect(err).NotTo(HaveOccurred())
				return result.Final
			}

			grid, naive := build(false), build(true)
			Expect(grid).To(HaveLen(len(naive)))
			for i := range grid {
				Expect(grid[i].Pos.Dist(naive[i].Pos)).To(BeNumerically("<", 1e-9))
				Expect(grid[i].Vel.Dist(naive[i].Vel)).To(BeNumerically("<", 1e-9))
			}
		})
	})
})
