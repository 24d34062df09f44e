package physics_test

import (
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

type countingSink struct {
	radii []float64
}

func (c *countingSink) DrawCircle(_ dynamo.Vec2, radius float64, _ color.RGBA) {
	c.radii = append(c.radii, radius)
}

var _ = Describe("Solver", func() {
	var s *physics.Solver

	BeforeEach(func() {
		s = physics.NewSolver(1000)
		s.AddBody(dynamo.V(0, 0), 10, 1, physics.White, dynamo.Vec2{})
		s.AddBody(dynamo.V(25, 0), 10, 1, physics.White, dynamo.Vec2{})
	})

	It("starts moving forward at timestep 1 with trails hidden", func() {
		Expect(s.Direction()).To(Equal(1))
		Expect(s.Timestep()).To(Equal(1))
		Expect(s.DrawTrails()).To(BeFalse())
	})

	It("hands out stable creation-order ids", func() {
		id := s.AddBody(dynamo.V(300, 300), 5, 2, physics.White, dynamo.Vec2{})
		Expect(id).To(Equal(physics.BodyID(2)))

		s.Step(0.01)
		b, err := s.Body(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Mass).To(Equal(2.0))
	})

	Context("after one unit step", func() {
		BeforeEach(func() {
			s.Step(1)
		})

		It("pulls both bodies toward each other and then moves them", func() {
			a, _ := s.Body(0)
			b, _ := s.Body(1)
			Expect(a.Velocity).To(Equal(dynamo.V(1000, 0)))
			Expect(b.Velocity).To(Equal(dynamo.V(-1000, 0)))
			Expect(a.Position).To(Equal(dynamo.V(1000, 0)))
			Expect(b.Position).To(Equal(dynamo.V(-975, 0)))
		})

		It("records the new positions in the trails", func() {
			trail, err := s.Trail(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(trail).To(ConsistOf(dynamo.V(-975, 0)))
		})
	})

	Context("when reversed", func() {
		It("applies velocity deltas with the opposite sign", func() {
			s.Reverse()
			s.Step(1)
			a, _ := s.Body(0)
			Expect(a.Velocity).To(Equal(dynamo.V(-1000, 0)))
			Expect(a.Position).To(Equal(dynamo.V(1000, 0)))
		})
	})

	Context("drawing", func() {
		It("keeps recording trails while they are hidden", func() {
			for i := 0; i < 3; i++ {
				s.Update(0.001, &countingSink{})
			}

			sink := &countingSink{}
			s.SetDrawTrails(true)
			s.Draw(sink)
			Expect(sink.radii).To(HaveLen(8))
			Expect(sink.radii[:3]).To(HaveEach(physics.TrailRadius))
		})
	})
})
